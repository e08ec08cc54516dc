package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from a temp directory so Load's directory
// creation stays out of the source tree.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PNL_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "Clients Daily PNL", cfg.Sheets.SheetName)
	assert.Equal(t, 5*time.Minute, cfg.Sheets.CacheTTL)
	assert.True(t, cfg.Security.EnableCORS)
	assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
}

func TestLoadFromFile(t *testing.T) {
	chdirTemp(t)

	content := `
server:
  port: 9999
logging:
  level: debug
  output: console
sheets:
  spreadsheet_id: sheet-123
  sheet_name: Ledger
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("PNL_CONFIG_FILE", path)
	t.Setenv("PNL_SHEETS_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "Ledger", cfg.Sheets.SheetName)
	assert.Equal(t, 90*time.Second, cfg.Sheets.CacheTTL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chdirTemp(t)

	content := `
server:
  port: 9999
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("PNL_CONFIG_FILE", path)
	t.Setenv("PNL_SERVER_PORT", "7777")
	t.Setenv("PNL_SHEETS_SPREADSHEET_ID", "env-sheet")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "env-sheet", cfg.Sheets.SpreadsheetID)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PNL_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port out of range", key: "PNL_SERVER_PORT", value: "70000"},
		{name: "bad log level", key: "PNL_LOGGING_LEVEL", value: "verbose"},
		{name: "bad log output", key: "PNL_LOGGING_OUTPUT", value: "syslog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	chdirTemp(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))
	t.Setenv("PNL_CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestNewPaths(t *testing.T) {
	t.Run("defaults anchor at base dir", func(t *testing.T) {
		p, err := NewPaths(PathsConfig{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(p.ExecutableDir, "data"), p.DataDir)
		assert.Equal(t, filepath.Join(p.ExecutableDir, "data", "reports"), p.ReportsDir)
		assert.Equal(t, filepath.Join(p.ExecutableDir, "logs"), p.LogsDir)
	})

	t.Run("absolute configured dirs taken as given", func(t *testing.T) {
		base := t.TempDir()
		p, err := NewPaths(PathsConfig{
			DataDir:    filepath.Join(base, "d"),
			ReportsDir: filepath.Join(base, "r"),
			LogsDir:    filepath.Join(base, "l"),
		})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "d"), p.DataDir)
		assert.Equal(t, filepath.Join(base, "r"), p.ReportsDir)
		assert.Equal(t, filepath.Join(base, "l"), p.LogsDir)
	})

	t.Run("relative configured dirs anchored", func(t *testing.T) {
		p, err := NewPaths(PathsConfig{ReportsDir: "out"})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(p.ExecutableDir, "out"), p.ReportsDir)
	})
}

func TestLoadAppliesPathsSection(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PNL_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	reports := filepath.Join(t.TempDir(), "custom-reports")
	t.Setenv("PNL_PATHS_REPORTS_DIR", reports)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, reports, cfg.Paths.ReportsDir)

	p, err := GetPaths()
	require.NoError(t, err)
	assert.Equal(t, reports, p.ReportsDir)

	info, err := os.Stat(reports)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "Load must create the configured reports dir")
}

func TestPathsHelpers(t *testing.T) {
	p := &Paths{
		ReportsDir: filepath.Join("base", "data", "reports"),
		LogsDir:    filepath.Join("base", "logs"),
	}
	assert.Equal(t, filepath.Join("base", "data", "reports", "out.csv"), p.GetReportPath("out.csv"))
	assert.Equal(t, filepath.Join("base", "logs", "app.log"), p.GetLogPath("app.log"))
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	p := &Paths{
		DataDir:    filepath.Join(base, "data"),
		ReportsDir: filepath.Join(base, "data", "reports"),
		LogsDir:    filepath.Join(base, "logs"),
	}
	require.NoError(t, p.EnsureDirectories())

	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "absent")))
	assert.False(t, FileExists(dir), "directories do not count")
}
