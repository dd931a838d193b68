// Package compression wraps exported tables and compressed input documents
// in one of several stream codecs.
//
// The supported algorithms are gzip, zstd, snappy and s2 from
// klauspost/compress, and lz4 from pierrec/lz4. Each algorithm has a file
// extension so that export names and input detection agree:
//
//	w, err := compression.NewWriter(f, compression.Zstd, compression.Default)
//	defer w.Close()
//
//	alg := compression.FromPath("rows.jsonl.zst") // Zstd
//	r, err := compression.NewReader(f, alg)
package compression

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{None, Gzip, Zstd, Snappy, S2, LZ4}

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

// String returns the level name.
func (l Level) String() string {
	switch {
	case l <= Fastest:
		return "fastest"
	case l < Better:
		return "default"
	case l < Best:
		return "better"
	default:
		return "best"
	}
}

// normalize maps the 1-9 scale onto the four named levels.
func (l Level) normalize() Level {
	switch {
	case l <= Fastest:
		return Fastest
	case l < Better:
		return Default
	case l < Best:
		return Better
	default:
		return Best
	}
}

// Parse returns the algorithm named s. The empty string is None.
func Parse(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return None, nil
	case None, Gzip, Snappy, LZ4, Zstd, S2:
		return a, nil
	default:
		return "", errors.Newf(errors.ErrorTypeConfig, "unsupported compression algorithm: %s", s)
	}
}

// Extension returns the file suffix of the algorithm, including the dot.
// None has no suffix.
func (a Algorithm) Extension() string {
	switch a {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case Snappy:
		return ".sz"
	case S2:
		return ".s2"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// FromPath returns the algorithm implied by the suffix of path, or None.
func FromPath(path string) Algorithm {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range Algorithms {
		if a != None && a.Extension() == ext {
			return a
		}
	}
	return None
}

// TrimExtension removes the compression suffix of path, if any.
func TrimExtension(path string) string {
	if a := FromPath(path); a != None {
		return path[:len(path)-len(a.Extension())]
	}
	return path
}

// NewWriter returns a writer that compresses into w. Close flushes the
// stream but does not close w.
func NewWriter(w io.Writer, alg Algorithm, level Level) (io.WriteCloser, error) {
	switch alg {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		gw, err := gzip.NewWriterLevel(w, mapGzipLevel(level))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid gzip level")
		}
		return gw, nil
	case Zstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(mapZstdLevel(level)))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid zstd level")
		}
		return zw, nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case S2:
		return s2.NewWriter(w, s2Options(level)...), nil
	case LZ4:
		lw := lz4.NewWriter(w)
		if err := lw.Apply(lz4.CompressionLevelOption(mapLZ4Level(level))); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid lz4 level")
		}
		return lw, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported compression algorithm: %s", alg)
	}
}

// NewReader returns a reader that decompresses r.
func NewReader(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid gzip stream")
		}
		return gr, nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid zstd stream")
		}
		return zstdReadCloser{zr}, nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported compression algorithm: %s", alg)
	}
}

// Compressor compresses whole buffers. It is safe for concurrent use.
type Compressor struct {
	algorithm Algorithm
	level     Level
	buffers   sync.Pool
}

// NewCompressor creates a compressor for alg at level.
func NewCompressor(alg Algorithm, level Level) (*Compressor, error) {
	if _, err := Parse(string(alg)); err != nil {
		return nil, err
	}
	c := &Compressor{algorithm: alg, level: level}
	c.buffers.New = func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 64*1024))
	}
	return c, nil
}

// Algorithm returns the compression algorithm
func (c *Compressor) Algorithm() Algorithm { return c.algorithm }

// Level returns the compression level
func (c *Compressor) Level() Level { return c.level }

// Compress compresses data and returns the compressed bytes.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	buf := c.buffers.Get().(*bytes.Buffer)
	buf.Reset()
	defer c.buffers.Put(buf)

	if err := c.CompressStream(buf, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Decompress decompresses data and returns the original bytes.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	buf := c.buffers.Get().(*bytes.Buffer)
	buf.Reset()
	defer c.buffers.Put(buf)

	if err := c.DecompressStream(buf, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// CompressStream compresses from src to dst.
func (c *Compressor) CompressStream(dst io.Writer, src io.Reader) error {
	w, err := NewWriter(dst, c.algorithm, c.level)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return errors.Wrap(err, errors.ErrorTypeData, "compress "+string(c.algorithm))
	}
	return w.Close()
}

// DecompressStream decompresses from src to dst.
func (c *Compressor) DecompressStream(dst io.Writer, src io.Reader) error {
	r, err := NewReader(src, c.algorithm)
	if err != nil {
		return err
	}
	defer r.Close()

	if _, err := io.Copy(dst, r); err != nil { //nolint:gosec // G110: inputs are local files chosen by the user
		return errors.Wrap(err, errors.ErrorTypeData, "decompress "+string(c.algorithm))
	}
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// Helper functions to map compression levels

func mapGzipLevel(level Level) int {
	switch level.normalize() {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level.normalize() {
	case Fastest:
		return lz4.Fast
	case Better:
		return lz4.Level7
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level.normalize() {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func s2Options(level Level) []s2.WriterOption {
	switch level.normalize() {
	case Better:
		return []s2.WriterOption{s2.WriterBetterCompression()}
	case Best:
		return []s2.WriterOption{s2.WriterBestCompression()}
	default:
		return nil
	}
}
