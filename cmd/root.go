package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/datalens-cli/internal/config"
	"github.com/KaramelBytes/datalens-cli/internal/loader"
	"github.com/KaramelBytes/datalens-cli/internal/logging"
	"github.com/KaramelBytes/datalens-cli/internal/table"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile        string
	debug          bool
	flagSheetName  string
	flagSheetIndex int
	flagDelimiter  string
	flagDecimal    string
	flagThousands  string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger     = slog.Default()
	logCleanup = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "datalens",
	Short: "DataLens CLI: explore a spreadsheet dataset from the terminal or a local dashboard",
	Long: `DataLens loads one tabular dataset (.xlsx, .csv or .tsv) and lets you describe it,
compute column statistics, sort and range-filter rows, export the result as CSV,
and draw bar, line, scatter or pie charts as PNG. "datalens serve" opens the same
operations as a three-page web dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	logCleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datalens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to load (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index, used when --sheet-name is empty")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',', ';', '|' or 'tab'")
	rootCmd.PersistentFlags().StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.' or 'comma'")
	rootCmd.PersistentFlags().StringVar(&flagThousands, "thousands", "", "thousands separator for numbers: ',', '.' or 'space'")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("sheet-name") {
		cfg.SheetName = flagSheetName
	}
	if f.Changed("sheet-index") && flagSheetIndex > 0 {
		cfg.SheetIndex = flagSheetIndex
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logCleanup()
	logger, logCleanup = logging.Setup(logging.Options{Level: level, SeqURL: cfg.SeqURL})
	slog.SetDefault(logger)
}

// loaderOptions merges config and per-invocation flags.
func loaderOptions() (loader.Options, error) {
	opt := loader.DefaultOptions()
	if cfg == nil {
		cfg = cfgpkg.Defaults()
	}
	opt.SheetName = cfg.SheetName
	if cfg.SheetIndex > 0 {
		opt.SheetIndex = cfg.SheetIndex
	}
	opt.Delimiter = cfgpkg.Rune(cfg.Delimiter)
	opt.DecimalSeparator = cfgpkg.Rune(cfg.DecimalSeparator)
	opt.ThousandsSeparator = cfgpkg.Rune(cfg.ThousandsSeparator)

	switch strings.ToLower(strings.TrimSpace(flagDelimiter)) {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", flagDelimiter)
	}
	switch strings.ToLower(strings.TrimSpace(flagDecimal)) {
	case "":
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", flagDecimal)
	}
	switch strings.ToLower(flagThousands) {
	case "":
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", flagThousands)
	}
	return opt, nil
}

// datasetPath picks the positional file argument or the configured data_file.
func datasetPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg != nil && cfg.DataFile != "" {
		return cfg.DataFile, nil
	}
	return "", fmt.Errorf("no dataset: pass a file or set data_file")
}

// loadDataset reads the dataset named by args for one-shot commands.
func loadDataset(args []string) (*table.Table, error) {
	path, err := datasetPath(args)
	if err != nil {
		return nil, err
	}
	opt, err := loaderOptions()
	if err != nil {
		return nil, err
	}
	t, err := loader.Load(path, opt)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", "path", path, "rows", t.Rows(), "columns", t.Width())
	return t, nil
}
