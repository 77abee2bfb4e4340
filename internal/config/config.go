package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Identifier IdentifierConfig `mapstructure:"identifier"`
	Layout     LayoutConfig     `mapstructure:"layout"`
	Preview    PreviewConfig    `mapstructure:"preview"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	MaxUploadSize int64         `mapstructure:"max_upload_size"`
}

// StorageConfig holds the three working directories and the output table name
type StorageConfig struct {
	UploadsDir     string `mapstructure:"uploads_dir"`
	LettersDir     string `mapstructure:"letters_dir"`
	OutputDir      string `mapstructure:"output_dir"`
	OutputFileName string `mapstructure:"output_file_name"`
}

// BatchConfig holds batch processing configuration
type BatchConfig struct {
	Workers      int  `mapstructure:"workers"`
	MergeLetters bool `mapstructure:"merge_letters"`
}

// IdentifierConfig holds unique identifier configuration
type IdentifierConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
	MaxAttempts  int    `mapstructure:"max_attempts"`
}

// LayoutConfig holds the page layout constants used by the renderer
type LayoutConfig struct {
	MarginX          float64   `mapstructure:"margin_x"`
	HeaderTop        float64   `mapstructure:"header_top"`
	HeaderFontSize   float64   `mapstructure:"header_font_size"`
	HeaderAdvances   []float64 `mapstructure:"header_advances"`
	BodyFontSize     float64   `mapstructure:"body_font_size"`
	LineSpacing      float64   `mapstructure:"line_spacing"`
	BottomMargin     float64   `mapstructure:"bottom_margin"`
	TopOffset        float64   `mapstructure:"top_offset"`
	ClosingFontSize  float64   `mapstructure:"closing_font_size"`
	SignatureWidth   float64   `mapstructure:"signature_width"`
	SignatureHeight  float64   `mapstructure:"signature_height"`
	SignatureRight   float64   `mapstructure:"signature_right"`
	SignatureBottom  float64   `mapstructure:"signature_bottom"`
	RepeatBackground bool      `mapstructure:"repeat_background"`
}

// PreviewConfig holds letter preview configuration
type PreviewConfig struct {
	DPI float64 `mapstructure:"dpi"`
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from an optional file, a .env file and environment variables.
// An empty configPath or a missing file leaves defaults and environment in effect.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Minute)
	v.SetDefault("server.max_upload_size", int64(64<<20))

	// Storage defaults
	v.SetDefault("storage.uploads_dir", "uploads")
	v.SetDefault("storage.letters_dir", "offer_letters")
	v.SetDefault("storage.output_dir", "updated_excel")
	v.SetDefault("storage.output_file_name", "updated_intern_data_with_unique_ids.xlsx")

	// Batch defaults
	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.merge_letters", false)

	// Identifier defaults
	v.SetDefault("identifier.registry_path", "data/identifiers.db")
	v.SetDefault("identifier.max_attempts", 16)

	// Layout defaults (absolute units on a page whose size equals the background in pixels)
	v.SetDefault("layout.margin_x", 40.0)
	v.SetDefault("layout.header_top", 600.0)
	v.SetDefault("layout.header_font_size", 30.0)
	v.SetDefault("layout.header_advances", []float64{70, 60, 50})
	v.SetDefault("layout.body_font_size", 30.0)
	v.SetDefault("layout.line_spacing", 50.0)
	v.SetDefault("layout.bottom_margin", 50.0)
	v.SetDefault("layout.top_offset", 50.0)
	v.SetDefault("layout.closing_font_size", 25.0)
	v.SetDefault("layout.signature_width", 200.0)
	v.SetDefault("layout.signature_height", 80.0)
	v.SetDefault("layout.signature_right", 1200.0)
	v.SetDefault("layout.signature_bottom", 600.0)
	v.SetDefault("layout.repeat_background", false)

	// Preview defaults
	v.SetDefault("preview.dpi", 24.0)

	// Sentry defaults
	v.SetDefault("sentry.environment", "dev")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("OFFER")
	v.AutomaticEnv()

	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("sentry.dsn", "SENTRY_DSN")
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("server.max_upload_size must be positive")
	}

	if c.Storage.UploadsDir == "" {
		return fmt.Errorf("storage.uploads_dir is required")
	}
	if c.Storage.LettersDir == "" {
		return fmt.Errorf("storage.letters_dir is required")
	}
	if c.Storage.OutputDir == "" {
		return fmt.Errorf("storage.output_dir is required")
	}
	if !strings.HasSuffix(strings.ToLower(c.Storage.OutputFileName), ".xlsx") {
		return fmt.Errorf("storage.output_file_name must end with .xlsx")
	}

	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive")
	}
	if c.Identifier.MaxAttempts <= 0 {
		return fmt.Errorf("identifier.max_attempts must be positive")
	}

	if len(c.Layout.HeaderAdvances) != 3 {
		return fmt.Errorf("layout.header_advances must have 3 entries, got %d", len(c.Layout.HeaderAdvances))
	}
	if c.Layout.HeaderFontSize <= 0 || c.Layout.BodyFontSize <= 0 || c.Layout.ClosingFontSize <= 0 {
		return fmt.Errorf("layout font sizes must be positive")
	}
	if c.Layout.LineSpacing <= 0 {
		return fmt.Errorf("layout.line_spacing must be positive")
	}
	if c.Preview.DPI <= 0 {
		return fmt.Errorf("preview.dpi must be positive")
	}

	return nil
}
