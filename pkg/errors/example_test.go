// Package errors provides examples of structured error handling.
package errors_test

import (
	"fmt"
	"io"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeData, "row document has no rows").
		WithDetail("file", "list-42.json").
		WithDetail("format", "list")

	fmt.Println(err.Error())

	// Output:
	// data: row document has no rows
}

// ExampleWrap shows how loaders wrap I/O failures.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeFile, "failed to read CSV file").
		WithDetail("file", "run_17_extracted.csv")

	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("Cause is preserved")
	}

	// Output:
	// This is a file error
	// Cause is preserved
}

// ExampleNewf demonstrates formatted messages for validation failures.
func ExampleNewf() {
	err := errors.Newf(errors.ErrorTypeValidation, "unknown semantic type %q", "currency")
	fmt.Println(err)

	// Output:
	// validation: unknown semantic type "currency"
}

// Example_errorChain shows how the CLI layers context on top of loader errors.
func Example_errorChain() {
	err := errors.Wrap(loadDocument(), errors.ErrorTypeInternal, "export command failed")
	fmt.Println(err)

	// IsType inspects the outermost structured error
	fmt.Println(errors.IsType(err, errors.ErrorTypeInternal))

	// Output:
	// internal: export command failed: data: unsupported document shape
	// true
}

func loadDocument() error {
	return errors.New(errors.ErrorTypeData, "unsupported document shape").
		WithDetail("keys", []string{"meta"})
}
