// Package config loads gitsandbox settings from flags, environment, config file and .env.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gitsandbox/internal/parser"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by gitsandbox.
const EnvPrefix = "GITSANDBOX"

// Setting keys.
const (
	KeyLogLevel    = "log_level"
	KeyLogFile     = "log_file"
	KeyTableFile   = "table_file"
	KeyPrompt      = "prompt"
	KeyHistoryFile = "history_file"
	KeyOutput      = "output"
	KeyTheme       = "theme"
	KeyTestMode    = "test_mode"
)

// Output formats accepted by the parse command.
var outputFormats = []string{"text", "json", "yaml"}

// Themes shipped with the binary.
var themes = []string{"default", "plain"}

// Config holds the resolved settings.
type Config struct {
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
	TableFile   string `mapstructure:"table_file"`
	Prompt      string `mapstructure:"prompt"`
	HistoryFile string `mapstructure:"history_file"`
	Output      string `mapstructure:"output"`
	Theme       string `mapstructure:"theme"`
	TestMode    bool   `mapstructure:"test_mode"`
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTableFile, "")
	v.SetDefault(KeyPrompt, "$ ")
	v.SetDefault(KeyHistoryFile, "")
	v.SetDefault(KeyOutput, "text")
	v.SetDefault(KeyTheme, "default")
	v.SetDefault(KeyTestMode, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv reads GITSANDBOX_* entries of a .env file as defaults.
// Config file, environment and flags all take precedence over them.
// A missing file is not an error.
func LoadDotEnv(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}

	prefix := EnvPrefix + "_"
	for key, value := range envMap {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		v.SetDefault(strings.ToLower(strings.TrimPrefix(key, prefix)), value)
	}
	return nil
}

// Load reads the config file (explicit path, or gitsandbox.yaml in the working
// directory and $HOME/.config/gitsandbox) and decodes the settings.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("gitsandbox")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/gitsandbox")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(outputFormats, c.Output) {
		return fmt.Errorf("invalid output format %q (expected one of %s)", c.Output, strings.Join(outputFormats, ", "))
	}
	if !slices.Contains(themes, c.Theme) {
		return fmt.Errorf("invalid theme %q (expected one of %s)", c.Theme, strings.Join(themes, ", "))
	}
	return nil
}

// CommandTable compiles the configured command table, falling back to the embedded one.
func (c *Config) CommandTable() (*parser.Table, error) {
	if c.TableFile == "" {
		return parser.DefaultTable()
	}
	data, err := os.ReadFile(c.TableFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read command table %s: %w", c.TableFile, err)
	}
	table, err := parser.LoadTable(data)
	if err != nil {
		return nil, fmt.Errorf("command table %s: %w", c.TableFile, err)
	}
	return table, nil
}
