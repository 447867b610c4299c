// Package config loads tool configuration from defaults, an optional YAML
// file and SURVEYSHEET_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/parser"
	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/sheet"
)

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "surveysheet"

// EnvPrefix prefixes environment overrides, e.g. SURVEYSHEET_PATHS_CSV_DIR.
const EnvPrefix = "SURVEYSHEET"

// Config holds all tool configuration.
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Records RecordsConfig `mapstructure:"records"`
	Style   StyleConfig   `mapstructure:"style"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// PathsConfig holds input and output locations. Relative directories are
// resolved against BaseDir.
type PathsConfig struct {
	BaseDir     string `mapstructure:"base_dir"`
	ConfigDir   string `mapstructure:"config_dir"`
	CSVDir      string `mapstructure:"csv_dir"`
	OutputDir   string `mapstructure:"output_dir"`
	TemplateDir string `mapstructure:"template_dir"`
}

// RecordsConfig holds record file parsing settings.
type RecordsConfig struct {
	SkipLines int      `mapstructure:"skip_lines"`
	Encodings []string `mapstructure:"encodings"`
}

// StyleConfig holds sheet styling overrides.
type StyleConfig struct {
	FontFamily      string  `mapstructure:"font_family"`
	FontSize        float64 `mapstructure:"font_size"`
	FillDuplicate   string  `mapstructure:"fill_duplicate"`
	FillOdd         string  `mapstructure:"fill_odd"`
	FillEven        string  `mapstructure:"fill_even"`
	WidthIdentifier float64 `mapstructure:"width_identifier"`
	WidthGlyph      float64 `mapstructure:"width_glyph"`
	WidthText       float64 `mapstructure:"width_text"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Load reads configuration. An empty path looks for surveysheet.yaml in the
// working directory and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.base_dir", ".")
	v.SetDefault("paths.config_dir", "config")
	v.SetDefault("paths.csv_dir", filepath.Join("data", "_csv"))
	v.SetDefault("paths.output_dir", filepath.Join("_admin", "output"))
	v.SetDefault("paths.template_dir", filepath.Join("_admin", "output", "template"))

	v.SetDefault("records.skip_lines", parser.DefaultSkipLines)
	v.SetDefault("records.encodings", parser.DefaultEncodings)

	theme := sheet.DefaultTheme()
	v.SetDefault("style.font_family", theme.FontFamily)
	v.SetDefault("style.font_size", theme.FontSize)
	v.SetDefault("style.fill_duplicate", theme.FillDuplicate)
	v.SetDefault("style.fill_odd", theme.FillOdd)
	v.SetDefault("style.fill_even", theme.FillEven)
	v.SetDefault("style.width_identifier", theme.WidthIdentifier)
	v.SetDefault("style.width_glyph", theme.WidthGlyph)
	v.SetDefault("style.width_text", theme.WidthText)

	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.format", "console")

	v.SetDefault("watch.debounce", 500*time.Millisecond)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Records.SkipLines < 0 {
		return fmt.Errorf("records.skip_lines must not be negative")
	}
	if len(c.Records.Encodings) == 0 {
		return fmt.Errorf("records.encodings is required")
	}
	if c.Style.FontSize <= 0 {
		return fmt.Errorf("style.font_size must be positive")
	}
	for key, color := range map[string]string{
		"style.fill_duplicate": c.Style.FillDuplicate,
		"style.fill_odd":       c.Style.FillOdd,
		"style.fill_even":      c.Style.FillEven,
	} {
		if !hexColor.MatchString(color) {
			return fmt.Errorf("%s must be an RRGGBB color, got %q", key, color)
		}
	}
	if c.Style.WidthIdentifier <= 0 || c.Style.WidthGlyph <= 0 || c.Style.WidthText <= 0 {
		return fmt.Errorf("style widths must be positive")
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive")
	}
	return nil
}

// Resolve returns dir joined to the base directory unless it is absolute.
func (p PathsConfig) Resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.BaseDir, dir)
}

// Theme returns the default theme with the configured overrides applied.
func (c StyleConfig) Theme() (sheet.Theme, error) {
	theme, err := sheet.DefaultTheme().Clone()
	if err != nil {
		return sheet.Theme{}, err
	}
	theme.FontFamily = c.FontFamily
	theme.FontSize = c.FontSize
	theme.FillDuplicate = strings.ToUpper(c.FillDuplicate)
	theme.FillOdd = strings.ToUpper(c.FillOdd)
	theme.FillEven = strings.ToUpper(c.FillEven)
	theme.WidthIdentifier = c.WidthIdentifier
	theme.WidthGlyph = c.WidthGlyph
	theme.WidthText = c.WidthText
	return theme, nil
}
