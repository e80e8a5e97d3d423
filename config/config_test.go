package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lease-tracker/config"
)

// clearEnv isolates a test from the caller's environment and any .env file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LEASES_PORT", "LEASES_DB", "LEASES_ALLOWED_ORIGINS", "LEASES_UPLOAD_URL", "LEASES_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "leases.yaml", `
port: 9090
db: /var/lib/leases/leases.db
allowed_origins:
  - https://leases.example.com
upload_url: https://files.example.com/placeholder.pdf
log_level: debug
`)

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/var/lib/leases/leases.db", cfg.DBPath)
	assert.Equal(t, []string{"https://leases.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://files.example.com/placeholder.pdf", cfg.UploadURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "leases.yaml", "port: 9090\ndb: file.db\n")
	t.Setenv("LEASES_PORT", "7000")
	t.Setenv("LEASES_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "file.db", cfg.DBPath)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("LEASES_DB=from-dotenv.db\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LEASES_DB") })

	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.DBPath)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEASES_PORT", "eighty")

	_, err := config.Load("")
	assert.Error(t, err)

	t.Setenv("LEASES_PORT", "70000")
	_, err = config.Load("")
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "leases.yaml", "port: [not, a, number]\n")

	_, err := config.Load(path)

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	assert.NoError(t, cfg.Validate())

	cfg.DBPath = " "
	assert.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.LogLevel = "chatty"
	assert.Error(t, cfg.Validate())
}

func TestLogger(t *testing.T) {
	cfg := config.Default()

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
