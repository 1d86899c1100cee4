package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. AIOPAD_LOG_LEVEL
const EnvPrefix = "AIOPAD"

// Config holds all configuration for the application
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Clock    ClockConfig    `mapstructure:"clock"`
	AI       AIConfig       `mapstructure:"ai"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Security SecurityConfig `mapstructure:"security"`
	UI       UIConfig       `mapstructure:"ui"`
}

// StorageConfig selects the byte store backend
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=sqlite redis memory"`
	DataDir string `mapstructure:"data_dir"`
	Path    string `mapstructure:"path"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix"`
	Enabled  bool   `mapstructure:"-"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	File   string `mapstructure:"file"`
}

// ClockConfig controls what "today" means for daily tasks
type ClockConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// AIConfig holds the text assistant endpoint settings
type AIConfig struct {
	Endpoint          string        `mapstructure:"endpoint" validate:"omitempty,url"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" validate:"gt=0"`
}

// OCRConfig holds the handwriting recognizer settings
type OCRConfig struct {
	Command  string `mapstructure:"command"`
	Language string `mapstructure:"language"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required_if=Enabled true"`
}

// SecurityConfig holds note lock settings
type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// UIConfig holds the initial theme when none has been saved yet
type UIConfig struct {
	Theme string `mapstructure:"theme" validate:"oneof=ocean forest sunset lavender blackwhite"`
	Mode  string `mapstructure:"mode" validate:"oneof=light dark"`
}

// Location resolves the configured timezone; empty and "Local" mean the host zone
func (c ClockConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DatabasePath returns the sqlite file location
func (c StorageConfig) DatabasePath() string {
	if c.Path != "" {
		return c.Path
	}
	return filepath.Join(c.DataDir, "aiopad.db")
}

// LogPath returns where the log file goes when none is configured
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.Storage.DataDir, "aiopad.log")
}

// Load reads configuration from defaults, an optional config file, .env
// and AIOPAD_* environment variables. An empty path looks for config.toml
// in the user config directory.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Redis.Enabled = cfg.Storage.Backend == "redis"

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and the timezone
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	if _, err := cfg.Clock.Location(); err != nil {
		return err
	}
	if cfg.Storage.DataDir == "" && cfg.Storage.Path == "" && cfg.Storage.Backend == "sqlite" {
		return errors.New("storage data_dir or path is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.data_dir", dataDir())
	v.SetDefault("storage.path", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "aiopad:")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	v.SetDefault("clock.timezone", "Local")

	v.SetDefault("ai.endpoint", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("ai.requests_per_minute", 20)

	v.SetDefault("ocr.command", "tesseract")
	v.SetDefault("ocr.language", "eng")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9464")

	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("ui.theme", "ocean")
	v.SetDefault("ui.mode", "dark")
}

func bindEnvVars(v *viper.Viper) {
	// Conventional names that do not follow the AIOPAD_ prefix
	_ = v.BindEnv("ai.api_key", "AIOPAD_AI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("redis.addr", "AIOPAD_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "AIOPAD_REDIS_PASSWORD", "REDIS_PASSWORD")
}

// dataDir returns the XDG data directory for the app
func dataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "aiopad")
}

// configDir returns the XDG config directory for the app
func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "aiopad")
}
