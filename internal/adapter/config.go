package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIURL is used when neither runtime config nor the build sets one
const DefaultAPIURL = "http://localhost:8000/api"

// BuildAPIURL is injected at build time:
//
//	go build -ldflags "-X github.com/mmcdole/clipshare/internal/adapter.BuildAPIURL=https://api.example.com/api"
var BuildAPIURL = ""

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Player  PlayerConfig  `mapstructure:"player"`
	UI      UIConfig      `mapstructure:"ui"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds remote API settings
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 disables pacing
	Burst             int           `mapstructure:"burst"`
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // empty tries known players, then the system default
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	GridColumns int `mapstructure:"grid_columns"`
}

// HistoryConfig holds search history settings
type HistoryConfig struct {
	File       string `mapstructure:"file"` // empty keeps history in memory
	MaxEntries int    `mapstructure:"max_entries"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Timeout:           30 * time.Second,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Player: PlayerConfig{
			Args: []string{},
		},
		UI: UIConfig{
			GridColumns: 3,
		},
		History: HistoryConfig{
			File:       filepath.Join(defaultDataPath(), "history.db"),
			MaxEntries: 50,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "clipshare.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "clipshare")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "clipshare")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "clipshare")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "clipshare")
	}
}

// LoadConfig loads configuration from a .env file, the config file and
// CLIPSHARE_* environment variables, in increasing priority. configFile
// overrides the config search path when set.
func LoadConfig(configFile string) (*Config, error) {
	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	defaults := DefaultConfig()
	setDefaults(v, defaults)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. CLIPSHARE_API_BASE_URL
	v.SetEnvPrefix("CLIPSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.API.BaseURL = ResolveBaseURL(cfg.API.BaseURL)
	if cfg.UI.GridColumns < 1 {
		cfg.UI.GridColumns = defaults.UI.GridColumns
	}
	cfg.History.File = expandHome(cfg.History.File)
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it on Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.requests_per_second", cfg.API.RequestsPerSecond)
	v.SetDefault("api.burst", cfg.API.Burst)
	v.SetDefault("player.command", cfg.Player.Command)
	v.SetDefault("player.args", cfg.Player.Args)
	v.SetDefault("ui.grid_columns", cfg.UI.GridColumns)
	v.SetDefault("history.file", cfg.History.File)
	v.SetDefault("history.max_entries", cfg.History.MaxEntries)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// ResolveBaseURL picks the API base URL: the runtime value, else the
// build-time value, else the local default.
func ResolveBaseURL(runtimeValue string) string {
	for _, candidate := range []string{runtimeValue, BuildAPIURL, DefaultAPIURL} {
		if c := strings.TrimSpace(candidate); c != "" {
			return strings.TrimRight(c, "/")
		}
	}
	return DefaultAPIURL
}

// expandHome expands a leading ~ in path
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
