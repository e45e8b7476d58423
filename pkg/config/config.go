// Package config loads genogram settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// file, and GENOGRAM_* environment variables (a .env file in the working
// directory is loaded first). Command-line flags override the result.
//
//	[layout]
//	direction = 90
//	spouse_spacing = 30
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "sqlite"
//	path = "~/.local/share/genogram/families.db"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/genogram/pkg/cache"
	"github.com/matzehuels/genogram/pkg/genogram/layout"
	"github.com/matzehuels/genogram/pkg/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GENOGRAM_"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultAddr is the default server listen address.
const DefaultAddr = ":8080"

// Config is the full configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

type LayoutConfig struct {
	Direction     float64 `toml:"direction"`
	LayerSpacing  float64 `toml:"layer_spacing"`
	ColumnSpacing float64 `toml:"column_spacing"`
	SpouseSpacing float64 `toml:"spouse_spacing"`
	Iterations    int     `toml:"iterations"`
}

type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	TTL           time.Duration `toml:"ttl"`

	// Namespace scopes cache keys; deployments sharing a backend set
	// different values.
	Namespace string `toml:"namespace"`
}

type StoreConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Direction:     layout.DefaultDirection,
			LayerSpacing:  layout.DefaultLayerSpacing,
			ColumnSpacing: layout.DefaultColumnSpacing,
			SpouseSpacing: layout.DefaultSpouseSpacing,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			Dir:       filepath.Join(dataDir(), "cache"),
			RedisAddr: "localhost:6379",
			TTL:       cache.TTLLayout,
		},
		Store: StoreConfig{
			Backend:  store.BackendSQLite,
			Path:     filepath.Join(dataDir(), "families.db"),
			MongoURI: "mongodb://localhost:27017",
			Database: store.DefaultDatabase,
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// DefaultPath returns the config file looked up when none is given.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "genogram", "config.toml")
	}
	return "genogram.toml"
}

// Load builds the configuration. A missing file at path is not an error
// unless path was given explicitly (explicit is true).
func Load(path string, explicit bool) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.Store.Path = expandHome(cfg.Store.Path)
	return cfg, cfg.Validate()
}

// Validate checks backend names and layout options.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case store.BackendSQLite, store.BackendMongo:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	return c.LayoutOptions().Validate()
}

// LayoutOptions converts the layout table to layout options.
func (c Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.Direction = c.Layout.Direction
	opts.LayerSpacing = c.Layout.LayerSpacing
	opts.ColumnSpacing = c.Layout.ColumnSpacing
	opts.SpouseSpacing = c.Layout.SpouseSpacing
	opts.Iterations = c.Layout.Iterations
	return opts
}

// Keyer returns the cache keyer for the configured namespace.
func (c Config) Keyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, c.Cache.Namespace)
}

// StoreOptions converts the store table to store options.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:  c.Store.Backend,
		Path:     c.Store.Path,
		MongoURI: c.Store.MongoURI,
		Database: c.Store.Database,
	}
}

// applyEnv overrides fields from GENOGRAM_<TABLE>_<KEY> variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"CACHE_BACKEND":        &c.Cache.Backend,
		"CACHE_DIR":            &c.Cache.Dir,
		"CACHE_REDIS_ADDR":     &c.Cache.RedisAddr,
		"CACHE_REDIS_PASSWORD": &c.Cache.RedisPassword,
		"CACHE_NAMESPACE":      &c.Cache.Namespace,
		"STORE_BACKEND":        &c.Store.Backend,
		"STORE_PATH":           &c.Store.Path,
		"STORE_MONGO_URI":      &c.Store.MongoURI,
		"STORE_DATABASE":       &c.Store.Database,
		"SERVER_ADDR":          &c.Server.Addr,
	}
	floats := map[string]*float64{
		"LAYOUT_DIRECTION":      &c.Layout.Direction,
		"LAYOUT_LAYER_SPACING":  &c.Layout.LayerSpacing,
		"LAYOUT_COLUMN_SPACING": &c.Layout.ColumnSpacing,
		"LAYOUT_SPOUSE_SPACING": &c.Layout.SpouseSpacing,
	}
	ints := map[string]*int{
		"LAYOUT_ITERATIONS": &c.Layout.Iterations,
		"CACHE_REDIS_DB":    &c.Cache.RedisDB,
	}
	durations := map[string]*time.Duration{
		"CACHE_TTL":            &c.Cache.TTL,
		"SERVER_READ_TIMEOUT":  &c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT": &c.Server.WriteTimeout,
	}

	for k, p := range strs {
		if v, ok := lookup(EnvPrefix + k); ok {
			*p = v
		}
	}
	for k, p := range floats {
		if v, ok := lookup(EnvPrefix + k); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
			}
			*p = f
		}
	}
	for k, p := range ints {
		if v, ok := lookup(EnvPrefix + k); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
			}
			*p = n
		}
	}
	for k, p := range durations {
		if v, ok := lookup(EnvPrefix + k); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
			}
			*p = d
		}
	}
	return nil
}

func dataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "genogram")
	}
	return ".genogram"
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
