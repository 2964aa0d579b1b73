// Package config loads the spritepack configuration file.
//
// The configuration lives in a TOML file (spritepack.toml by default) next
// to the data it describes. Every field has a default, so running without a
// config file is fully supported; CLI flags override file values.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tqdev/spritepack/pkg/errors"
	"github.com/tqdev/spritepack/pkg/sprite"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "spritepack.toml"

// Cache backend names accepted in the config file.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds all file-level settings.
type Config struct {
	// SpriteDir is the directory of per-item bitmaps to pack.
	SpriteDir string `toml:"sprite_dir"`

	// OutputDir receives sprite.png and sprite.css.
	OutputDir string `toml:"output_dir"`

	// GraphicsDir receives bitmaps extracted from game textures.
	GraphicsDir string `toml:"graphics_dir"`

	// MaxWidth is the atlas maximum row width in pixels.
	MaxWidth int `toml:"max_width"`

	Converter Converter `toml:"converter"`
	Cache     CacheCfg  `toml:"cache"`
}

// Converter configures the external texture-converter binary.
type Converter struct {
	// Binary is the converter executable. It is invoked once per texture
	// as: binary <source> <destination.png>.
	Binary string `toml:"binary"`
}

// CacheCfg selects and configures the cache backend.
type CacheCfg struct {
	// Backend is one of "file", "redis" or "none".
	Backend string `toml:"backend"`

	// RedisAddr is the host:port of the Redis instance (redis backend).
	RedisAddr string `toml:"redis_addr"`

	// RedisPassword authenticates against Redis, empty for none.
	RedisPassword string `toml:"redis_password"`

	// RedisDB is the Redis database number.
	RedisDB int `toml:"redis_db"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		SpriteDir:   "output/sprites",
		OutputDir:   "output",
		GraphicsDir: "output/graphics",
		MaxWidth:    sprite.DefaultMaxWidth,
		Converter: Converter{
			Binary: "utils/textureviewer/TextureViewer",
		},
		Cache: CacheCfg{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads the config file at path, layering it over the defaults.
// A missing file at the default path is not an error; a missing file at an
// explicitly requested path is.
func Load(path string) (Config, error) {
	cfg := Default()

	requested := path != ""
	if !requested {
		path = DefaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if requested {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for obviously broken values.
func (c Config) Validate() error {
	if err := errors.ValidateMaxWidth(c.MaxWidth); err != nil {
		return err
	}
	if err := errors.ValidatePath(c.SpriteDir); err != nil {
		return err
	}
	if err := errors.ValidatePath(c.OutputDir); err != nil {
		return err
	}
	if err := errors.ValidatePath(c.GraphicsDir); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid cache backend: %q (must be 'file', 'redis', or 'none')", c.Cache.Backend)
	}
	return nil
}
