// Package pipeline builds complete grids from loaded tables, spreading column
// inference and row formatting over a bounded set of goroutines.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/grid"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

// Config configures a GridBuilder.
type Config struct {
	Workers   int // 0 = auto (NumCPU)
	BatchSize int // rows formatted per task
}

// DefaultBatchSize is used when Config.BatchSize is not positive
const DefaultBatchSize = 500

// Grid is a table ready for display: one definition per column and one
// display row per input row, both in input order.
type Grid struct {
	Table    *models.Table
	Inferred []*schema.InferredType
	Columns  []grid.ColumnDef
	Rows     []grid.DisplayRow
	Types    map[string]schema.SemanticType
	Stats    BuildStats
}

// BuildStats describes one Build call.
type BuildStats struct {
	Columns       int
	Rows          int
	Batches       int
	InferTime     time.Duration
	FormatTime    time.Duration
	TotalDuration time.Duration
}

// GridBuilder runs a grid.Policy over whole tables in parallel.
type GridBuilder struct {
	policy    *grid.Policy
	workers   int
	batchSize int
	logger    *zap.Logger
}

// NewGridBuilder creates a builder. A nil policy uses the package defaults.
func NewGridBuilder(policy *grid.Policy, cfg Config, logger *zap.Logger) *GridBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == nil {
		policy = grid.NewPolicy(nil, nil, logger)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &GridBuilder{
		policy:    policy,
		workers:   cfg.Workers,
		batchSize: cfg.BatchSize,
		logger:    logger,
	}
}

// Policy returns the policy the builder runs.
func (b *GridBuilder) Policy() *grid.Policy { return b.policy }

// Build infers every column of table and formats every row. The result is
// the same as calling BuildColumnDefs and ProcessRows sequentially.
func (b *GridBuilder) Build(ctx context.Context, table *models.Table) (*Grid, error) {
	start := time.Now()
	result := &Grid{Table: table}

	inferred, defs, err := b.inferColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	result.Inferred = inferred
	result.Columns = defs
	result.Stats.InferTime = time.Since(start)

	formatStart := time.Now()
	result.Types = b.policy.ResolveTypes(table.Rows, grid.TypesOf(defs))
	rows, batches, err := b.formatRows(ctx, table.Rows, result.Types)
	if err != nil {
		return nil, err
	}
	result.Rows = rows
	result.Stats.FormatTime = time.Since(formatStart)

	result.Stats.Columns = len(defs)
	result.Stats.Rows = len(rows)
	result.Stats.Batches = batches
	result.Stats.TotalDuration = time.Since(start)

	b.logger.Debug("built grid",
		zap.String("table", table.Name),
		zap.Int("columns", result.Stats.Columns),
		zap.Int("rows", result.Stats.Rows),
		zap.Int("batches", batches),
		zap.Int("workers", b.workers),
		zap.Duration("infer_time", result.Stats.InferTime),
		zap.Duration("format_time", result.Stats.FormatTime))

	return result, nil
}

func (b *GridBuilder) inferColumns(ctx context.Context, table *models.Table) ([]*schema.InferredType, []grid.ColumnDef, error) {
	inferred := make([]*schema.InferredType, len(table.Columns))
	defs := make([]grid.ColumnDef, len(table.Columns))
	engine := b.policy.Engine()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, col := range table.Columns {
		i, col := i, col
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			inferred[i] = engine.InferColumn(col.Field, table.Rows)
			defs[i] = b.policy.ColumnDef(col, inferred[i].Type)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeInternal, "column inference cancelled").
			WithDetail("table", table.Name)
	}
	return inferred, defs, nil
}

func (b *GridBuilder) formatRows(ctx context.Context, rows []models.Row, types map[string]schema.SemanticType) ([]grid.DisplayRow, int, error) {
	out := make([]grid.DisplayRow, len(rows))
	batches := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for lo := 0; lo < len(rows); lo += b.batchSize {
		lo, hi := lo, lo+b.batchSize
		if hi > len(rows) {
			hi = len(rows)
		}
		batches++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				out[i] = b.policy.ProcessRow(rows[i], types)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrorTypeInternal, "row formatting cancelled")
	}
	return out, batches, nil
}
