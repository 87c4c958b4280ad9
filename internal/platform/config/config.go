package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultSheetName      = "Registros"
	DefaultTimezoneOffset = -3
	envPrefix             = "ARTIA"
)

type Config struct {
	DataDir             string `mapstructure:"data_dir"`
	DBPath              string `mapstructure:"-"`
	SheetName           string `mapstructure:"sheet_name"`
	TimezoneOffsetHours int    `mapstructure:"timezone_offset_hours"`
	LogLevel            string `mapstructure:"log_level"`
	LogFormat           string `mapstructure:"log_format"`
}

// New returns the default configuration rooted at dataDir.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{
		DataDir:             dataDir,
		SheetName:           DefaultSheetName,
		TimezoneOffsetHours: DefaultTimezoneOffset,
		LogLevel:            "warn",
		LogFormat:           "console",
	}
	cfg.DBPath = filepath.Join(dataDir, "artia.db")
	return cfg, cfg.Validate()
}

// Load layers a .env file, an optional config file and ARTIA_* variables over
// the defaults. A non-empty dataDir overrides whatever the sources say.
func Load(configPath, dataDir string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	defaults, err := New(".")
	if err != nil {
		return Config{}, err
	}
	v := viper.New()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("sheet_name", defaults.SheetName)
	v.SetDefault("timezone_offset_hours", defaults.TimezoneOffsetHours)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	cfg.DBPath = filepath.Join(cfg.DataDir, "artia.db")
	return cfg, cfg.Validate()
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data_dir cannot be empty")
	}
	if strings.TrimSpace(c.SheetName) == "" {
		problems = append(problems, "sheet_name cannot be empty")
	} else if len([]rune(c.SheetName)) > 31 {
		problems = append(problems, fmt.Sprintf("sheet_name %q exceeds 31 characters", c.SheetName))
	}
	if c.TimezoneOffsetHours < -12 || c.TimezoneOffsetHours > 14 {
		problems = append(problems, fmt.Sprintf("timezone_offset_hours %d must be between -12 and 14", c.TimezoneOffsetHours))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "disabled":
	default:
		problems = append(problems, fmt.Sprintf("log_level %q must be one of debug|info|warn|error|disabled", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format %q must be console or json", c.LogFormat))
	}
	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
