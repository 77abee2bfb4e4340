package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garyjia/offer-letters/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "uploads", cfg.Storage.UploadsDir)
	assert.Equal(t, "offer_letters", cfg.Storage.LettersDir)
	assert.Equal(t, "updated_excel", cfg.Storage.OutputDir)
	assert.Equal(t, "updated_intern_data_with_unique_ids.xlsx", cfg.Storage.OutputFileName)
	assert.Equal(t, []float64{70, 60, 50}, cfg.Layout.HeaderAdvances)
	assert.Equal(t, 1200.0, cfg.Layout.SignatureRight)
	assert.Equal(t, 10*time.Minute, cfg.Server.WriteTimeout)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
storage:
  letters_dir: letters
batch:
  workers: 2
layout:
  header_advances: [10, 20, 30]
  repeat_background: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Run("reads values from file", func(t *testing.T) {
		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "letters", cfg.Storage.LettersDir)
		assert.Equal(t, 2, cfg.Batch.Workers)
		assert.Equal(t, []float64{10, 20, 30}, cfg.Layout.HeaderAdvances)
		assert.True(t, cfg.Layout.RepeatBackground)
		assert.Equal(t, "uploads", cfg.Storage.UploadsDir)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("OFFER_BATCH_WORKERS", "8")
		t.Setenv("PORT", "7070")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Batch.Workers)
		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("missing file keeps defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, "absent.yaml"))

		require.NoError(t, err)
		assert.Equal(t, 5000, cfg.Server.Port)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "zero workers", mutate: func(c *Config) { c.Batch.Workers = 0 }, wantErr: "batch.workers"},
		{name: "empty letters dir", mutate: func(c *Config) { c.Storage.LettersDir = "" }, wantErr: "storage.letters_dir"},
		{name: "non xlsx output", mutate: func(c *Config) { c.Storage.OutputFileName = "out.csv" }, wantErr: "output_file_name"},
		{name: "two header advances", mutate: func(c *Config) { c.Layout.HeaderAdvances = []float64{1, 2} }, wantErr: "header_advances"},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "zero preview dpi", mutate: func(c *Config) { c.Preview.DPI = 0 }, wantErr: "preview.dpi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_RenderLayout(t *testing.T) {
	t.Run("defaults match renderer defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, render.DefaultLayout(), cfg.RenderLayout())
	})

	t.Run("overrides are carried", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		cfg.Layout.HeaderAdvances = []float64{1, 2, 3}
		cfg.Layout.RepeatBackground = true

		l := cfg.RenderLayout()

		assert.Equal(t, [3]float64{1, 2, 3}, l.HeaderAdvances)
		assert.True(t, l.RepeatBackground)
	})
}
