package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/genogram/pkg/cache"
	"github.com/matzehuels/genogram/pkg/genogram/layout"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, float64(layout.DefaultDirection), cfg.Layout.Direction)
	assert.Equal(t, float64(layout.DefaultSpouseSpacing), cfg.Layout.SpouseSpacing)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
[layout]
direction = 0
spouse_spacing = 12.5

[cache]
backend = "redis"
ttl = "1h"

[store]
backend = "mongo"
database = "fam"

[server]
addr = ":9090"
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Layout.Direction)
	assert.Equal(t, 12.5, cfg.Layout.SpouseSpacing)
	assert.Equal(t, float64(layout.DefaultLayerSpacing), cfg.Layout.LayerSpacing, "unset keys keep defaults")
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "mongo", cfg.Store.Backend)
	assert.Equal(t, "fam", cfg.Store.Database)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.LayoutOptions().Horizontal())
}

func TestLoad_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	_, err := Load(missing, false)
	assert.NoError(t, err)
	_, err = Load(missing, true)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeFile(t, "[cache]\nbackend = \"memcached\"\n"), true)
	assert.ErrorContains(t, err, "cache.backend")

	_, err = Load(writeFile(t, "[layout]\ndirection = 45\n"), true)
	assert.Error(t, err)

	_, err = Load(writeFile(t, "not toml ["), true)
	assert.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GENOGRAM_LAYOUT_DIRECTION", "270")
	t.Setenv("GENOGRAM_SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("GENOGRAM_CACHE_TTL", "10m")
	path := writeFile(t, "[layout]\ndirection = 0\n")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 270.0, cfg.Layout.Direction, "env overrides file")
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestApplyEnv_BadValue(t *testing.T) {
	cfg := Default()
	env := map[string]string{"GENOGRAM_LAYOUT_ITERATIONS": "many"}
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.ErrorContains(t, err, "GENOGRAM_LAYOUT_ITERATIONS")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y.db"), expandHome("~/x/y.db"))
	assert.Equal(t, "/abs/y.db", expandHome("/abs/y.db"))
	assert.Equal(t, "rel~/y.db", expandHome("rel~/y.db"))
}

func TestKeyer(t *testing.T) {
	opts := cache.LayoutKeyOpts{Direction: 90}
	plain := Default().Keyer().LayoutKey("h", opts)

	t.Setenv("GENOGRAM_CACHE_NAMESPACE", "staging")
	cfg, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, "staging:"+plain, cfg.Keyer().LayoutKey("h", opts))
}
