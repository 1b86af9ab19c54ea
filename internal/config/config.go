// Package config layers compiled defaults, an optional YAML file and command-line
// flags into the settings for the mimi binary.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/jonaustin/mimi/internal/pet"
	"github.com/jonaustin/mimi/internal/store"
)

// Environment variables consulted when the matching flag is not given
const (
	EnvConfigFile = "MIMI_CONFIG"
	EnvDataDir    = "MIMI_DATA_DIR"
)

// Config holds all settings for the binary
type Config struct {
	Store        string        `koanf:"store"`
	DataDir      string        `koanf:"data-dir"`
	LogLevel     string        `koanf:"log-level"`
	LogFile      string        `koanf:"log-file"`
	TickInterval time.Duration `koanf:"tick-interval"`
	Pet          pet.Config    `koanf:"pet"`
}

// Default returns the compiled-in settings
func Default() Config {
	return Config{
		Store:        store.BackendFile,
		LogLevel:     "info",
		TickInterval: 100 * time.Millisecond,
		Pet:          pet.DefaultConfig(),
	}
}

// RegisterFlags adds the global flags to fs, with defaults taken from Default
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "config file path (env "+EnvConfigFile+")")
	fs.String("store", d.Store, "save backend: file, sqlite or memory")
	fs.String("data-dir", d.DataDir, "directory for save data (default ~/.config/mimi, env "+EnvDataDir+")")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.String("log-file", d.LogFile, "log file path (default <data-dir>/mimi.log)")
	fs.Duration("tick-interval", d.TickInterval, "simulation tick cadence")
}

// Load builds the configuration: defaults, then the YAML file named by --config
// or MIMI_CONFIG, then any flags set explicitly on flags.
func Load(flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	path, _ := flags.GetString("config")
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, oops.Code(pet.CodeConfigInvalid).With("path", path).Errorf("config file %s not found", path)
			}
			return Config{}, oops.Code(pet.CodeConfigInvalid).With("path", path).Wrapf(err, "read config file")
		}
	}

	// Only flags the user actually set override the file
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return Config{}, oops.Code(pet.CodeConfigInvalid).Wrapf(err, "read flags")
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code(pet.CodeConfigInvalid).Wrapf(err, "decode config")
	}
	// A configured food table replaces the built-in one instead of extending it
	if k.Exists("pet.foods") {
		foods := map[string]pet.Food{}
		if err := k.Unmarshal("pet.foods", &foods); err != nil {
			return Config{}, oops.Code(pet.CodeConfigInvalid).With("field", "pet.foods").Wrapf(err, "decode foods")
		}
		cfg.Pet.Foods = foods
	}

	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv(EnvDataDir)
	}
	if cfg.DataDir == "" {
		dir, err := store.DefaultDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DataDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the app settings and the pet tuning
func (c Config) Validate() error {
	switch c.Store {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	default:
		return oops.Code(pet.CodeConfigInvalid).With("field", "store").Errorf("unknown store %q", c.Store)
	}
	if c.TickInterval < time.Millisecond {
		return oops.Code(pet.CodeConfigInvalid).With("field", "tick-interval").
			Errorf("tick-interval must be at least 1ms, got %s", c.TickInterval)
	}
	if err := c.Pet.Validate(); err != nil {
		return fmt.Errorf("pet config: %w", err)
	}
	return nil
}
