package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VIPIX"

// MaxCanvasSize bounds each canvas dimension.
const MaxCanvasSize = 4096

// Config is the complete set of settings.
type Config struct {
	Canvas CanvasConfig `mapstructure:"canvas"`
	Log    LogConfig    `mapstructure:"log"`

	// Keymap is a TOML or YAML file of extra bindings and colors.
	Keymap string `mapstructure:"keymap"`

	// Script is a Lua file run at startup.
	Script string `mapstructure:"script"`

	// Watch reloads the keymap file when it changes.
	Watch bool `mapstructure:"watch"`

	// Palette maps keys in key notation to hex colors. Keys are
	// lower-cased on load; bind upper-case keys in the keymap file.
	Palette map[string]string `mapstructure:"palette"`
}

// CanvasConfig sizes the canvas.
type CanvasConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`

	// File receives log output; empty disables logging, since the
	// terminal belongs to the editor.
	File string `mapstructure:"file"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Canvas: CanvasConfig{Width: 16, Height: 16},
		Log:    LogConfig{Level: "info"},
	}
}

// NewViper returns a viper instance with defaults and environment
// overrides configured. Callers may bind flags to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("canvas.width", d.Canvas.Width)
	v.SetDefault("canvas.height", d.Canvas.Height)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("keymap", d.Keymap)
	v.SetDefault("script", d.Script)
	v.SetDefault("watch", d.Watch)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v and decodes the
// result. The file type follows its extension (yaml, yml, toml, json).
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = NewViper()
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validLevels are the accepted log.level values.
var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate checks every setting and returns the first problem found.
func (c Config) Validate() error {
	if c.Canvas.Width < 1 || c.Canvas.Width > MaxCanvasSize {
		return &ValidationError{Key: "canvas.width", Value: c.Canvas.Width, Message: fmt.Sprintf("must be in [1, %d]", MaxCanvasSize)}
	}
	if c.Canvas.Height < 1 || c.Canvas.Height > MaxCanvasSize {
		return &ValidationError{Key: "canvas.height", Value: c.Canvas.Height, Message: fmt.Sprintf("must be in [1, %d]", MaxCanvasSize)}
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return &ValidationError{Key: "log.level", Value: c.Log.Level, Message: "must be debug, info, warn or error"}
	}
	return nil
}
