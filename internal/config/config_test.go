package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("HOME", tmp)
	t.Setenv("CONDOVIEW_ENV_FILE", filepath.Join(tmp, "missing.env"))
	return tmp
}

func TestLoadDefaults(t *testing.T) {
	tmp := setupEnv(t)
	Load()

	require.Equal(t, "default", Get("missing", "default"))
	require.Equal(t, "admin", Get("role", ""))
	require.Equal(t, 10, GetInt("page_size", 0))
	require.Equal(t, filepath.Join(tmp, "state", "condoview"), Get("state_dir", ""))
	require.Equal(t, filepath.Join(tmp, "state", "condoview", "mock-backend.db"), Get("mock_server_db", ""))
}

func TestLoadCreatesSampleConfigWithoutSecrets(t *testing.T) {
	tmp := setupEnv(t)
	t.Setenv("CONDOVIEW_API_TOKEN", "s3cret")
	Load()

	data, err := os.ReadFile(filepath.Join(tmp, "config", "condoview", "config.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "page_size = 10")
	require.NotContains(t, string(data), "api_token")
	require.NotContains(t, string(data), "s3cret")
}

func TestConfigLoadingPrecedence(t *testing.T) {
	tmp := setupEnv(t)
	configFile := filepath.Join(tmp, "custom.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
page_size = 25
role = "resident"
resident_id = "apto-42"
search_debounce_ms = 300
`), 0644))

	t.Setenv("CONDOVIEW_CONFIG_PATH", configFile)
	t.Setenv("CONDOVIEW_PAGE_SIZE", "15")
	Load()

	require.Equal(t, 15, GetInt("page_size", 0), "environment should override config file")
	require.Equal(t, "resident", Get("role", ""), "config file value should be used when not overridden")
	require.Equal(t, "apto-42", Get("resident_id", ""))
	require.Equal(t, 300*time.Millisecond, GetDuration("search_debounce_ms", time.Millisecond, 0))
}

func TestDotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	tmp := setupEnv(t)
	envFile := filepath.Join(tmp, "dev.env")
	require.NoError(t, os.WriteFile(envFile, []byte("CONDOVIEW_ROLE=resident\nCONDOVIEW_RESIDENT_ID=apto-7\nCONDOVIEW_LOGGING_LEVEL=debug\n"), 0644))
	t.Setenv("CONDOVIEW_ENV_FILE", envFile)
	t.Setenv("CONDOVIEW_LOGGING_LEVEL", "warn")
	// godotenv writes into the process env; register cleanups for the keys it sets
	t.Setenv("CONDOVIEW_ROLE", "")
	os.Unsetenv("CONDOVIEW_ROLE")
	t.Setenv("CONDOVIEW_RESIDENT_ID", "")
	os.Unsetenv("CONDOVIEW_RESIDENT_ID")
	Load()

	require.Equal(t, "resident", Get("role", ""))
	require.Equal(t, "apto-7", Get("resident_id", ""))
	require.Equal(t, "warn", Get("logging_level", ""))
}

func TestValidatorsNormalizeValues(t *testing.T) {
	setupEnv(t)
	t.Setenv("CONDOVIEW_PAGE_SIZE", "5000")
	t.Setenv("CONDOVIEW_ROLE", "Superuser")
	t.Setenv("CONDOVIEW_DEBUG", "yes")
	t.Setenv("CONDOVIEW_API_URL", "not a url")
	t.Setenv("CONDOVIEW_REQUEST_TIMEOUT_SECONDS", "-3")
	Load()

	require.Equal(t, MaxPageSize, GetInt("page_size", 0))
	require.Equal(t, "admin", Get("role", ""))
	require.True(t, GetBool("debug", false))
	require.Equal(t, "http://localhost:8080/api", Get("api_url", ""))
	require.Equal(t, 15, GetInt("request_timeout_seconds", 0))
}

func TestURLValidatorTrimsTrailingSlash(t *testing.T) {
	setupEnv(t)
	t.Setenv("CONDOVIEW_API_URL", "https://condo.example.com/api/")
	Load()

	require.Equal(t, "https://condo.example.com/api", Get("api_url", ""))
}

func TestClientFromGlobal(t *testing.T) {
	setupEnv(t)
	t.Setenv("CONDOVIEW_ROLE", "resident")
	t.Setenv("CONDOVIEW_RESIDENT_ID", "apto-101")
	t.Setenv("CONDOVIEW_SEARCH_DEBOUNCE_MS", "0")
	Load()

	cs, err := ClientFromGlobal()
	require.NoError(t, err)
	require.Equal(t, domain.ResidentScope("apto-101"), cs.Scope)
	require.Equal(t, time.Duration(0), cs.SearchDebounce)
	require.Equal(t, 15*time.Second, cs.RequestTimeout)
	require.Equal(t, 10, cs.PageSize)
}

func TestClientFromGlobalRequiresResidentID(t *testing.T) {
	setupEnv(t)
	t.Setenv("CONDOVIEW_ROLE", "resident")
	Load()

	_, err := ClientFromGlobal()
	require.Error(t, err)
	require.Contains(t, err.Error(), "CONDOVIEW_RESIDENT_ID")
}
