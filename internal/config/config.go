package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Language string `mapstructure:"language" yaml:"language"`

	// Aggregation
	TopN           int     `mapstructure:"top_n" yaml:"top_n"`
	MinSample      int     `mapstructure:"min_sample" yaml:"min_sample"`
	MarkerScale    float64 `mapstructure:"marker_scale" yaml:"marker_scale"`
	PreviewDefault int     `mapstructure:"preview_default" yaml:"preview_default"`
	PreviewMax     int     `mapstructure:"preview_max" yaml:"preview_max"`

	// Server and loading
	ServerAddr   string `mapstructure:"server_addr" yaml:"server_addr"`
	CacheEntries int    `mapstructure:"cache_entries" yaml:"cache_entries"`
	MaxUploadMB  int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Charts
	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height"`
}

var defaults = map[string]any{
	"language":        "en",
	"top_n":           10,
	"min_sample":      5,
	"marker_scale":    5.0,
	"preview_default": 10,
	"preview_max":     50,
	"server_addr":     "127.0.0.1:8080",
	"cache_entries":   8,
	"max_upload_mb":   32,
	"log_level":       "info",
	"log_format":      "console",
	"chart_width":     1024,
	"chart_height":    512,
}

// Keys lists the settable configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".incidentscope"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.incidentscope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
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
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("INCIDENTSCOPE")
	v.AutomaticEnv()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; a file that exists but does not parse is an error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns a value by key, parsing it for the key's type. On error c is
// left unchanged.
func (c *Global) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	ints := map[string]*int{
		"top_n":           &c.TopN,
		"min_sample":      &c.MinSample,
		"preview_default": &c.PreviewDefault,
		"preview_max":     &c.PreviewMax,
		"cache_entries":   &c.CacheEntries,
		"max_upload_mb":   &c.MaxUploadMB,
		"chart_width":     &c.ChartWidth,
		"chart_height":    &c.ChartHeight,
	}
	if p, ok := ints[key]; ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		if n < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
		*p = n
		return nil
	}
	switch key {
	case "language":
		c.Language = value
	case "marker_scale":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("marker_scale must be a number: %w", err)
		}
		if f <= 0 {
			return fmt.Errorf("marker_scale must be positive")
		}
		c.MarkerScale = f
	case "server_addr":
		c.ServerAddr = value
	case "log_level":
		c.LogLevel = value
	case "log_format":
		if value != "console" && value != "json" {
			return fmt.Errorf("log_format must be console or json")
		}
		c.LogFormat = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}
