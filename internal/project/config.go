package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"tagfix/internal/taglib"
)

var (
	// ErrConfigNotFound - файла tagfix.toml нет по указанному пути.
	ErrConfigNotFound = errors.New("config not found")
	// ErrInvalidConfig wraps every validation failure of a config file.
	ErrInvalidConfig = errors.New("invalid config")
)

// MigrateConfig is the [migrate] section.
type MigrateConfig struct {
	ExemptTaglibs []string `toml:"exempt_taglibs"`
	Rules         []string `toml:"rules"`
	Fix           string   `toml:"fix"`
	Extensions    []string `toml:"extensions"`
	Exclude       []string `toml:"exclude"`
}

// TaglibConfig is one [[taglib]] entry.
type TaglibConfig struct {
	ID      string   `toml:"id"`
	Path    string   `toml:"path"`
	Tags    []string `toml:"tags"`
	Migrate []string `toml:"migrate"`
}

// Config is a decoded tagfix.toml. Path is empty for defaults.
type Config struct {
	Path    string         `toml:"-"`
	Root    string         `toml:"-"`
	Migrate MigrateConfig  `toml:"migrate"`
	Taglibs []TaglibConfig `toml:"taglib"`
}

// Default returns the configuration used when no tagfix.toml exists.
func Default() *Config {
	return &Config{
		Migrate: MigrateConfig{
			ExemptTaglibs: []string{taglib.WidgetsTaglibID, taglib.CompatTaglibID},
			Rules:         []string{},
			Fix:           "all",
			Extensions:    []string{".marko"},
			Exclude:       []string{"node_modules", ".git"},
		},
	}
}

// Load decodes path. Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if meta.IsDefined("migrate", "fix") {
		cfg.Migrate.Fix = strings.ToLower(strings.TrimSpace(cfg.Migrate.Fix))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrInvalidConfig, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	return cfg, nil
}

// Discover loads the nearest tagfix.toml above startDir, or returns defaults rooted at startDir.
func Discover(startDir string) (*Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		cfg := Default()
		cfg.Root = startDir
		return cfg, nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	switch c.Migrate.Fix {
	case "all", "once", "none":
	default:
		return fmt.Errorf("[migrate].fix must be all, once or none, got %q", c.Migrate.Fix)
	}
	for _, ext := range c.Migrate.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("[migrate].extensions: %q must start with '.'", ext)
		}
	}
	seen := make(map[string]bool, len(c.Taglibs))
	for i, lib := range c.Taglibs {
		id := strings.TrimSpace(lib.ID)
		if id == "" {
			return fmt.Errorf("taglib #%d: missing id", i+1)
		}
		if seen[id] {
			return fmt.Errorf("taglib %q declared twice", id)
		}
		seen[id] = true
		if len(lib.Tags) == 0 {
			return fmt.Errorf("taglib %q: no tags", id)
		}
		for _, name := range lib.Migrate {
			if !slices.Contains(lib.Tags, name) {
				return fmt.Errorf("taglib %q: migrate lists %q which is not in tags", id, name)
			}
		}
	}
	return nil
}

// Registry returns the built-in taglibs overridden by the configured ones.
func (c *Config) Registry() *taglib.Registry {
	reg := taglib.DefaultRegistry()
	for _, lib := range c.Taglibs {
		p := lib.Path
		if p == "" {
			p = lib.ID
		}
		reg.Add(taglib.Taglib{ID: lib.ID, Path: p, Tags: lib.Tags, Migrate: lib.Migrate})
	}
	return reg
}

// Matches reports whether a file found while walking a directory should be migrated.
func (c *Config) Matches(path string) bool {
	return slices.Contains(c.Migrate.Extensions, filepath.Ext(path))
}

// Excluded reports whether a directory is skipped while walking.
func (c *Config) Excluded(dir string) bool {
	return slices.Contains(c.Migrate.Exclude, filepath.Base(dir))
}

// Encode writes the config back as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault creates dir/tagfix.toml with the default settings. An existing file is an error.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ConfigName)
	data, err := Default().Encode()
	if err != nil {
		return "", err
	}
	// #nosec G304 -- path is built from a user supplied directory
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
