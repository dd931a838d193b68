package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/internal/pipeline"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/config"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/dataset"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/format"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/grid"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/logger"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/models"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

var version = "0.1.0"

// envPrefix prefixes every environment override, e.g. TABLEGRID_FORMAT_LOCALE
const envPrefix = "TABLEGRID"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds everything a command needs once flags, environment and the
// config file have been merged.
type app struct {
	out    io.Writer
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger

	loader  *dataset.Loader
	policy  *grid.Policy
	builder *pipeline.GridBuilder
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, v: viper.New()}

	root := &cobra.Command{
		Use:   "tablegrid",
		Short: "Inspect, format and export scraped tables",
		Long: `tablegrid infers a semantic type for every column of a scraped table
(text, number, date, url, boolean or json), formats cells for display and
exports the raw values.

Input is a list export, a run output document, a JSON array of objects,
JSON lines or CSV, optionally compressed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("input-format", "auto", "Input format: auto, json, jsonl or csv")
	flags.StringP("output", "o", "table", "Output style: table or json")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Int("sample-size", schema.DefaultSampleSize, "Leading rows inspected per column")
	flags.Float64("threshold", schema.DefaultThreshold, "Share of samples a type needs to win a column")
	flags.String("locale", "en-US", "Display locale (BCP 47)")
	flags.String("timezone", "", "Display time zone (IANA name); empty means local")
	flags.Int("workers", runtime.NumCPU(), "Goroutines used to build the grid")
	flags.Int("batch-size", pipeline.DefaultBatchSize, "Rows formatted per task")

	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("input_format", flags.Lookup("input-format"))
	_ = a.v.BindPFlag("output", flags.Lookup("output"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("inference.sample_size", flags.Lookup("sample-size"))
	_ = a.v.BindPFlag("inference.threshold", flags.Lookup("threshold"))
	_ = a.v.BindPFlag("format.locale", flags.Lookup("locale"))
	_ = a.v.BindPFlag("format.timezone", flags.Lookup("timezone"))
	_ = a.v.BindPFlag("performance.workers", flags.Lookup("workers"))
	_ = a.v.BindPFlag("performance.batch_size", flags.Lookup("batch-size"))

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.inferCmd(),
		a.columnsCmd(),
		a.showCmd(),
		a.exportCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "tablegrid v%s\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
				fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			},
		},
	)
	return root
}

// setup merges defaults, the config file, environment and flags, in rising
// precedence, and builds the shared components.
func (a *app) setup() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}
	a.logger = logger.Get()

	tag, err := cfg.LanguageTag()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	engine := schema.NewEngine(a.logger,
		schema.WithSampleSize(cfg.Inference.SampleSize),
		schema.WithThreshold(cfg.Inference.Threshold))
	formatter := format.New(format.WithLocale(tag), format.WithLocation(loc))

	a.loader = dataset.NewLoader(a.logger)
	a.policy = grid.NewPolicy(engine, formatter, a.logger)
	a.builder = pipeline.NewGridBuilder(a.policy, pipeline.Config{
		Workers:   cfg.Performance.Workers,
		BatchSize: cfg.Performance.BatchSize,
	}, a.logger)
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if path := a.v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	v := a.v
	if v.IsSet("inference.sample_size") {
		cfg.Inference.SampleSize = v.GetInt("inference.sample_size")
	}
	if v.IsSet("inference.threshold") {
		cfg.Inference.Threshold = v.GetFloat64("inference.threshold")
	}
	if v.IsSet("format.locale") {
		cfg.Format.Locale = v.GetString("format.locale")
	}
	if v.IsSet("format.timezone") {
		cfg.Format.Timezone = v.GetString("format.timezone")
	}
	if v.IsSet("performance.workers") {
		cfg.Performance.Workers = v.GetInt("performance.workers")
	}
	if v.IsSet("performance.batch_size") {
		cfg.Performance.BatchSize = v.GetInt("performance.batch_size")
	}
	if v.IsSet("export.format") {
		cfg.Export.Format = v.GetString("export.format")
	}
	if v.IsSet("export.compression") {
		cfg.Export.Compression = v.GetString("export.compression")
	}
	if v.IsSet("export.compression_level") {
		cfg.Export.CompressionLevel = v.GetInt("export.compression_level")
	}
	if v.IsSet("export.directory") {
		cfg.Export.Directory = v.GetString("export.directory")
	}
	if v.IsSet("export.pretty") {
		cfg.Export.Pretty = v.GetBool("export.pretty")
	}
	if level := v.GetString("logging.level"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load reads the table named by path with the --input-format setting.
func (a *app) load(ctx context.Context, path string) (*models.Table, error) {
	inputFormat, err := dataset.ParseFormat(a.v.GetString("input_format"))
	if err != nil {
		return nil, err
	}
	return a.loader.LoadFile(logger.WithTable(ctx, dataset.TableName(path)), path, inputFormat)
}

// jsonOutput reports whether --output asks for JSON.
func (a *app) jsonOutput() (bool, error) {
	switch strings.ToLower(a.v.GetString("output")) {
	case "", "table":
		return false, nil
	case "json":
		return true, nil
	default:
		return false, errors.Newf(errors.ErrorTypeValidation, "unknown output style %q: expected table or json", a.v.GetString("output"))
	}
}
