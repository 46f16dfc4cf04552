package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when file is missing", func(t *testing.T) {
		// when
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8000/api/v1", cfg.API.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.API.Timeout)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, 4, cfg.Reports.Concurrency)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("should override defaults from yaml and env", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "finboard.yaml")
		content := "api:\n  baseurl: https://finance.example.com/api/v1\nserver:\n  addr: \":9000\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("FINBOARD_SERVER_ADDR", ":9100")
		t.Setenv("FINBOARD_REPORTS_CONCURRENCY", "8")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://finance.example.com/api/v1", cfg.API.BaseURL)
		assert.Equal(t, ":9100", cfg.Server.Addr)
		assert.Equal(t, 8, cfg.Reports.Concurrency)
	})
}

func TestApplication_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Application)
		wantErr string
	}{
		{"empty base url", func(a *Application) { a.API.BaseURL = " " }, "api.baseurl"},
		{"unknown driver", func(a *Application) { a.Database.Driver = "mysql" }, "db.driver"},
		{"amqp without url", func(a *Application) { a.AMQP.Enabled = true }, "amqp.url"},
		{"sheets without id", func(a *Application) { a.Sheets.Enabled = true }, "sheets.spreadsheetid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
