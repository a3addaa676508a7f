package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at an empty temp dir so no
// real opus.yaml or .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, k := range []string{"API_KEY", "OPUS_API_KEY", "OPUS_API_BASE_URL", "OPUS_COMPANY", "OPUS_LOG_LEVEL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Chdir(dir)
	return dir
}

func TestDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.API.MaxRetries)
	assert.Equal(t, 10.0, cfg.API.RateLimit)
	assert.Equal(t, 5, cfg.API.RateBurst)
	assert.Equal(t, 8, cfg.Loader.FanOut)
	assert.Equal(t, "cp00909ucQ", cfg.Company)
	assert.Equal(t, filepath.Join(dir, ".opus", "opus.db"), cfg.Cache.Path)
	assert.Empty(t, cfg.File)
	assert.ErrorIs(t, cfg.RequireRemote(), ErrMissingAPIKey)
}

func TestFileAndEnvironment(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
api:
  base_url: https://api.example.test
  key: from-file
  timeout: 5s
company: acme-corp
cache:
  path: ~/cache/opus.db
log:
  level: DEBUG
`), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test", cfg.API.BaseURL)
	assert.Equal(t, "from-file", cfg.API.Key)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "acme-corp", cfg.Company)
	assert.Equal(t, filepath.Join(dir, "cache", "opus.db"), cfg.Cache.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, file, cfg.File)
	assert.NoError(t, cfg.RequireRemote())

	t.Setenv("API_KEY", "abcdef123456")
	t.Setenv("OPUS_COMPANY", "cp00909ucS")
	cfg, err = Load(file)
	require.NoError(t, err)
	assert.Equal(t, "abcdef123456", cfg.API.Key)
	assert.Equal(t, "cp00909ucS", cfg.Company)
	assert.Equal(t, "abc...456", cfg.API.MaskedKey())
}

func TestExplicitFileMustExist(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("API_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("API_KEY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.API.Key)
}
