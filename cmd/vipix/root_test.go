package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vipix/internal/config"
)

func execute(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	var got config.Config
	cmd := newRootCmd(func(_ context.Context, cfg config.Config) error {
		got = cfg
		return nil
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return got, err
}

func TestRootDefaults(t *testing.T) {
	cfg, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().Canvas, cfg.Canvas)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestRootFlags(t *testing.T) {
	cfg, err := execute(t, "--width", "32", "--height", "8", "--log-level", "debug", "--keymap", "k.toml", "--script", "init.lua", "--watch")
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Canvas.Width)
	assert.Equal(t, 8, cfg.Canvas.Height)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "k.toml", cfg.Keymap)
	assert.Equal(t, "init.lua", cfg.Script)
	assert.True(t, cfg.Watch)
}

func TestRootFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vipix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas:\n  width: 20\n  height: 10\n"), 0o644))

	cfg, err := execute(t, "-c", path, "--width", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Canvas.Width)
	assert.Equal(t, 10, cfg.Canvas.Height)
}

func TestRootInvalidConfig(t *testing.T) {
	_, err := execute(t, "--width", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestRootMissingConfigFile(t *testing.T) {
	_, err := execute(t, "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestRootRejectsArgs(t *testing.T) {
	_, err := execute(t, "extra")
	assert.Error(t, err)
}
