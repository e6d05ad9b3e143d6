package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solitaire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, game.Klondike, cfg.DefaultVariant())
	assert.Empty(t, cfg.SessionOptions())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
addr: ":9090"
variant: Spider
seed: 1234
history_size: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, game.Spider, cfg.DefaultVariant())
	assert.Equal(t, int64(1234), cfg.Seed)
	assert.Equal(t, 5, cfg.HistorySize)
	assert.Equal(t, "ws://localhost:8080/ws", cfg.ServerURL)
	assert.Len(t, cfg.SessionOptions(), 1)
}

func TestLoad_UnknownVariant(t *testing.T) {
	path := writeFile(t, "variant: pyramid\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, game.ErrUnknownVariant))
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, "addr: [unterminated\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.HistorySize = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())
}
