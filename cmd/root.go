package cmd

import (
	"fmt"
	"os"
	"time"

	cfgpkg "github.com/KaramelBytes/incidentscope-cli/internal/config"
	"github.com/KaramelBytes/incidentscope-cli/internal/dataset"
	"github.com/KaramelBytes/incidentscope-cli/internal/labels"
	"github.com/KaramelBytes/incidentscope-cli/internal/logging"
	"github.com/KaramelBytes/incidentscope-cli/internal/report"
	"github.com/KaramelBytes/incidentscope-cli/internal/session"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	lang    string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "incidentscope",
	Short: "IncidentScope CLI: explore migrant incident datasets",
	Long: `IncidentScope loads a CSV or Excel incident table, detects which columns it carries,
and produces the dashboard views that the data supports: trends, breakdowns by type,
route and origin, survival rates, correlations, and a sanitized incident map.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.incidentscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "interface language: en, pt or ru (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c
	if rootCmd.PersistentFlags().Changed("lang") && lang != "" {
		cfg.Language = lang
	}
	if err := logging.Setup(nil, cfg.LogFormat, cfg.LogLevel, debug); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		_ = logging.Setup(nil, "", "", debug)
	}
}

// current returns the loaded config, or zero values when none was loaded.
func current() *cfgpkg.Global {
	if cfg == nil {
		return &cfgpkg.Global{}
	}
	return cfg
}

// reportOptions merges configuration over the dashboard defaults.
func reportOptions() report.Options {
	c := current()
	opt := report.DefaultOptions()
	if c.TopN > 0 {
		opt.TopN = c.TopN
	}
	if c.MinSample > 0 {
		opt.MinSample = c.MinSample
	}
	if c.MarkerScale > 0 {
		opt.MarkerScale = c.MarkerScale
	}
	if c.PreviewDefault > 0 {
		opt.PreviewDefault = c.PreviewDefault
	}
	if c.PreviewMax > 0 {
		opt.PreviewMax = c.PreviewMax
	}
	switch {
	case lang != "":
		opt.Labels = labels.For(lang)
	case c.Language != "":
		opt.Labels = labels.For(c.Language)
	}
	return opt
}

func newCache() *dataset.Cache {
	n := current().CacheEntries
	if n <= 0 {
		n = 8
	}
	return dataset.NewCache(n)
}

// loadOptions translates the --delimiter and --sheet flags.
func loadOptions(delimiter, sheet string) (dataset.Options, error) {
	opt := dataset.Options{Sheet: sheet}
	switch delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delimiter)
	}
	return opt, nil
}

// openSession loads path, or the bundled sample when path is empty. The
// sample notice goes to stderr so stdout stays machine readable.
func openSession(path, delimiter, sheet string) (*session.Context, error) {
	opt, err := loadOptions(delimiter, sheet)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	c, err := session.Open(path, newCache(), opt)
	if err != nil {
		return nil, err
	}
	if c.IsSample() {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", reportOptions().Labels.T(labels.SampleNotice))
	}
	for _, w := range c.Warnings() {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
	}
	if debug {
		fmt.Fprintf(os.Stderr, "loaded %s in %s\n", c.Source(), time.Since(start).Round(time.Millisecond))
	}
	return c, nil
}
