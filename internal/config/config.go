package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Dataset
	DataFile           string `mapstructure:"data_file" yaml:"data_file"`
	SheetName          string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex         int    `mapstructure:"sheet_index" yaml:"sheet_index"`
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`

	// Description page
	Title       string `mapstructure:"title" yaml:"title"`
	Description string `mapstructure:"description" yaml:"description"`
	SampleRows  int    `mapstructure:"sample_rows" yaml:"sample_rows"`

	// Dashboard and exports
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`
	ExportDir   string `mapstructure:"export_dir" yaml:"export_dir"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	SeqURL   string `mapstructure:"seq_url" yaml:"seq_url"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"data_file", "sheet_name", "sheet_index", "delimiter", "decimal_separator",
	"thousands_separator", "title", "description", "sample_rows", "listen_addr",
	"chart_width", "chart_height", "export_dir", "log_level", "seq_url",
}

// Dir returns ~/.datalens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".datalens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datalens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DATALENS")
	v.AutomaticEnv()

	v.SetDefault("data_file", "datos_paises_procesados.xlsx")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", ".")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("title", "Country Data Explorer")
	v.SetDefault("description", "This dashboard uses preprocessed country data from an Excel workbook for interactive analysis and visualization.")
	v.SetDefault("sample_rows", 5)
	v.SetDefault("listen_addr", "127.0.0.1:8501")
	v.SetDefault("chart_width", 1024)
	v.SetDefault("chart_height", 640)
	v.SetDefault("export_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("seq_url", "")
	return v
}

// Defaults returns the built-in values with env overrides applied.
func Defaults() *Global {
	var c Global
	_ = newViper().Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := newViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Get returns the string form of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "data_file":
		return c.DataFile, nil
	case "sheet_name":
		return c.SheetName, nil
	case "sheet_index":
		return fmt.Sprint(c.SheetIndex), nil
	case "delimiter":
		return c.Delimiter, nil
	case "decimal_separator":
		return c.DecimalSeparator, nil
	case "thousands_separator":
		return c.ThousandsSeparator, nil
	case "title":
		return c.Title, nil
	case "description":
		return c.Description, nil
	case "sample_rows":
		return fmt.Sprint(c.SampleRows), nil
	case "listen_addr":
		return c.ListenAddr, nil
	case "chart_width":
		return fmt.Sprint(c.ChartWidth), nil
	case "chart_height":
		return fmt.Sprint(c.ChartHeight), nil
	case "export_dir":
		return c.ExportDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "seq_url":
		return c.SeqURL, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set validates val and assigns it to key.
func (c *Global) Set(key, val string) error {
	switch key {
	case "data_file":
		c.DataFile = val
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		i, err := atoiMin(key, val, 1)
		if err != nil {
			return err
		}
		c.SheetIndex = i
	case "delimiter", "decimal_separator", "thousands_separator":
		if val == `\t` {
			val = "\t"
		}
		if len([]rune(val)) > 1 {
			return fmt.Errorf("invalid %s: %q (use a single character)", key, val)
		}
		switch key {
		case "delimiter":
			c.Delimiter = val
		case "decimal_separator":
			c.DecimalSeparator = val
		default:
			c.ThousandsSeparator = val
		}
	case "title":
		c.Title = val
	case "description":
		c.Description = val
	case "sample_rows":
		i, err := atoiMin(key, val, 0)
		if err != nil {
			return err
		}
		c.SampleRows = i
	case "listen_addr":
		c.ListenAddr = val
	case "chart_width", "chart_height":
		i, err := atoiMin(key, val, 64)
		if err != nil {
			return err
		}
		if key == "chart_width" {
			c.ChartWidth = i
		} else {
			c.ChartHeight = i
		}
	case "export_dir":
		c.ExportDir = val
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "seq_url":
		c.SeqURL = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Rune returns the first rune of s, or 0 when s is empty.
func Rune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func atoiMin(key, val string, lo int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || i < lo {
		return 0, fmt.Errorf("invalid int for %s: %v (minimum %d)", key, val, lo)
	}
	return i, nil
}
