package schema

import (
	"go.uber.org/zap"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
	stringpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/strings"
)

const (
	// DefaultSampleSize is the number of leading rows inspected per column
	DefaultSampleSize = 10
	// DefaultThreshold is the share of samples a type needs to win the column
	DefaultThreshold = 0.7

	maxExamples = 5
)

// Engine infers column types from a sample window of rows.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	logger     *zap.Logger
	sampleSize int
	threshold  float64
}

// Option configures an Engine
type Option func(*Engine)

// WithSampleSize sets how many leading rows are inspected. Values below 1 are ignored.
func WithSampleSize(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.sampleSize = n
		}
	}
}

// WithThreshold sets the winning share. Values outside (0, 1] are ignored.
func WithThreshold(f float64) Option {
	return func(e *Engine) {
		if f > 0 && f <= 1 {
			e.threshold = f
		}
	}
}

// InferredType is the result of inferring one column
type InferredType struct {
	Field string       `json:"field"`
	Type  SemanticType `json:"type"`
	// Confidence is the winning type's share of the samples; 0 when nothing was sampled
	Confidence float64 `json:"confidence"`
	// SampleCount is the number of non-empty values in the sample window
	SampleCount int `json:"sample_count"`
	// EmptyCount is the number of nil, absent or "" values in the sample window
	EmptyCount   int            `json:"empty_count"`
	// Fallback is set when samples existed but no type reached the threshold
	Fallback     bool           `json:"fallback"`
	Distribution map[string]int `json:"distribution,omitempty"`
	Examples     []interface{}  `json:"examples,omitempty"`
}

type tally struct {
	typ   SemanticType
	count int
}

var defaultEngine = NewEngine(zap.NewNop())

// NewEngine creates a new type inference engine
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:     logger,
		sampleSize: DefaultSampleSize,
		threshold:  DefaultThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SampleSize returns the configured sample window.
func (e *Engine) SampleSize() int { return e.sampleSize }

// Threshold returns the configured winning share.
func (e *Engine) Threshold() float64 { return e.threshold }

// DetectColumnType infers the type of field from the first ten rows using a
// 70% majority.
func DetectColumnType(field string, rows []models.Row) SemanticType {
	return defaultEngine.DetectColumnType(field, rows)
}

// DetectColumnType infers the type of field from the engine's sample window.
func (e *Engine) DetectColumnType(field string, rows []models.Row) SemanticType {
	return e.InferColumn(field, rows).Type
}

// InferColumn infers the type of field and reports how the decision was made.
//
// The window is the first SampleSize rows in the order given. Empty values
// inside the window are dropped, not replaced by later rows. Tallies are
// checked in the order their types were first seen and the first one reaching
// sampleCount*threshold wins; with no winner the column is text.
func (e *Engine) InferColumn(field string, rows []models.Row) *InferredType {
	window := rows
	if len(window) > e.sampleSize {
		window = window[:e.sampleSize]
	}

	result := &InferredType{Field: field, Type: TypeText}

	var tallies []tally
	seenExamples := make(map[string]struct{})

	for _, row := range window {
		value := row[field]
		if stringpool.IsEmpty(value) {
			result.EmptyCount++
			continue
		}
		result.SampleCount++

		typ := DetectValueType(value)
		found := false
		for i := range tallies {
			if tallies[i].typ == typ {
				tallies[i].count++
				found = true
				break
			}
		}
		if !found {
			tallies = append(tallies, tally{typ: typ, count: 1})
		}

		if len(result.Examples) < maxExamples {
			key := CellText(value)
			if _, dup := seenExamples[key]; !dup {
				seenExamples[key] = struct{}{}
				result.Examples = append(result.Examples, value)
			}
		}
	}

	if result.SampleCount == 0 {
		e.logger.Debug("no samples for column, defaulting to text",
			zap.String("column", field),
			zap.Int("window", len(window)))
		return result
	}

	result.Distribution = make(map[string]int, len(tallies))
	for _, t := range tallies {
		result.Distribution[t.typ.String()] = t.count
	}

	threshold := float64(result.SampleCount) * e.threshold
	winner := -1
	for i, t := range tallies {
		if float64(t.count) >= threshold {
			winner = i
			break
		}
	}

	if winner >= 0 {
		result.Type = tallies[winner].typ
		result.Confidence = float64(tallies[winner].count) / float64(result.SampleCount)
	} else {
		result.Fallback = true
		result.Confidence = float64(result.Distribution[TypeText.String()]) / float64(result.SampleCount)
	}

	e.logger.Debug("inferred column type",
		zap.String("column", field),
		zap.Stringer("type", result.Type),
		zap.Float64("confidence", result.Confidence),
		zap.Int("samples", result.SampleCount),
		zap.Bool("majority", winner >= 0))

	return result
}

// InferTable infers every column of table, in column order.
func (e *Engine) InferTable(table *models.Table) []*InferredType {
	results := make([]*InferredType, len(table.Columns))
	for i, col := range table.Columns {
		results[i] = e.InferColumn(col.Field, table.Rows)
	}
	return results
}

// TypesOf indexes inference results by field.
func TypesOf(results []*InferredType) map[string]SemanticType {
	types := make(map[string]SemanticType, len(results))
	for _, r := range results {
		types[r.Field] = r.Type
	}
	return types
}
