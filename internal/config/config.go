// Package config loads settings from defaults, weektodo.yaml, .env and
// WEEKTODO_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "WEEKTODO"

// Views the TUI can start in
var Views = []string{"week", "calendar", "lists", "chat"}

// Themes the TUI ships with
var Themes = []string{"nord", "dracula", "gruvbox", "catppuccin"}

// Config is the effective configuration
type Config struct {
	API     APIConfig   `mapstructure:"api" yaml:"api"`
	Retry   RetryConfig `mapstructure:"retry" yaml:"retry"`
	DataDir string      `mapstructure:"data_dir" yaml:"data_dir"`
	Log     LogConfig   `mapstructure:"log" yaml:"log"`
	UI      UIConfig    `mapstructure:"ui" yaml:"ui"`
	Chat    ChatConfig  `mapstructure:"chat" yaml:"chat"`

	// File is the config file that was read, empty if none
	File string `mapstructure:"-" yaml:"-"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type RetryConfig struct {
	Attempts  int           `mapstructure:"attempts" yaml:"attempts"`
	BaseDelay time.Duration `mapstructure:"base_delay" yaml:"base_delay"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

type UIConfig struct {
	Theme     string `mapstructure:"theme" yaml:"theme"`
	StartView string `mapstructure:"start_view" yaml:"start_view"`
}

type ChatConfig struct {
	Stagger time.Duration `mapstructure:"stagger" yaml:"stagger"`
	Remote  bool          `mapstructure:"remote" yaml:"remote"`
}

// Options controls where Load looks
type Options struct {
	// File is an explicit config file; search paths are skipped when set
	File string
	// EnvFile is loaded into the environment first; ".env" when empty
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.base_delay", 200*time.Millisecond)
	v.SetDefault("data_dir", "~/.local/share/weektodo")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.theme", "nord")
	v.SetDefault("ui.start_view", "week")
	v.SetDefault("chat.stagger", 300*time.Millisecond)
	v.SetDefault("chat.remote", false)
}

// Load builds the configuration
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("weektodo") // .yaml is implicit
		v.SetConfigType("yaml")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "weektodo"))
		}
		v.AddConfigPath("$HOME/.config/weektodo")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	dataDir, err := homedir.Expand(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("expand data_dir: %w", err)
	}
	cfg.DataDir = dataDir

	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.DataDir, "weektodo.log")
	} else if cfg.Log.File, err = homedir.Expand(cfg.Log.File); err != nil {
		return nil, fmt.Errorf("expand log.file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the app cannot start with
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url %q: must be an http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry.attempts must be at least 1")
	}
	if !slices.Contains(Views, c.UI.StartView) {
		return fmt.Errorf("ui.start_view %q: must be one of %s", c.UI.StartView, strings.Join(Views, ", "))
	}
	if !slices.Contains(Themes, c.UI.Theme) {
		return fmt.Errorf("ui.theme %q: must be one of %s", c.UI.Theme, strings.Join(Themes, ", "))
	}
	if c.Chat.Stagger < 0 {
		return fmt.Errorf("chat.stagger must not be negative")
	}
	return nil
}
