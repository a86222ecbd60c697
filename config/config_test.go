package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rmraster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataDir: /srv/xochitl\nworkers: 8\nscalePreviews: false\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/xochitl", cfg.DataDir)
	assert.Equal(t, 8, cfg.Workers)
	assert.False(t, cfg.ScalePreviews)
	assert.True(t, cfg.PreviewFallback)
	assert.Equal(t, "output", cfg.OutputDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvDataDir, "/tmp/data")
	t.Setenv(EnvWorkers, "5")
	t.Setenv(EnvFormat, "bmp")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/data", cfg.DataDir)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, "bmp", cfg.Format)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1"), 0644))
	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv(EnvWorkers, "many")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv(EnvWorkers, "0")
	_, err = Load("")
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "rmraster.yaml")
	cfg := Default()
	cfg.Workers = 4
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
