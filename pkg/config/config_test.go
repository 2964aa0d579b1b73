package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tqdev/spritepack/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MaxWidth != 768 {
		t.Errorf("MaxWidth = %d, want 768", cfg.MaxWidth)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingDefaultPath(t *testing.T) {
	// No spritepack.toml in a fresh working directory: defaults, no error.
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with absent default file: %v", err)
	}
	if cfg.MaxWidth != 768 {
		t.Errorf("MaxWidth = %d, want default 768", cfg.MaxWidth)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %q, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spritepack.toml")
	data := `
sprite_dir = "assets/sprites"
max_width = 512

[converter]
binary = "/usr/local/bin/texconv"

[cache]
backend = "redis"
redis_addr = "cache.internal:6379"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.SpriteDir != "assets/sprites" {
		t.Errorf("SpriteDir = %q", cfg.SpriteDir)
	}
	if cfg.MaxWidth != 512 {
		t.Errorf("MaxWidth = %d, want 512", cfg.MaxWidth)
	}
	if cfg.Converter.Binary != "/usr/local/bin/texconv" {
		t.Errorf("Converter.Binary = %q", cfg.Converter.Binary)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "cache.internal:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	// Unset fields keep their defaults.
	if cfg.OutputDir != "output" {
		t.Errorf("OutputDir = %q, want default", cfg.OutputDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		toml string
		code errors.Code
	}{
		{"bad max width", "max_width = -5\n", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"traversal path", "sprite_dir = \"../../etc\"\n", errors.ErrCodeInvalidPath},
		{"malformed toml", "max_width = = 5\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "spritepack.toml")
			if err := os.WriteFile(path, []byte(tt.toml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), tt.code)
			}
		})
	}
}
