// config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	AppConfig = Config{} // the global carries over between tests otherwise
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigParsesDurations(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "8080"
database:
  host: "localhost"
  port: "3306"
  user: "taller"
  password: "secret"
  dbname: "taller_gnc"
scraper:
  registry_url: "https://example.test/consulta"
  headless: true
  probe_timeout: "40s"
  delay_between_probes: "350ms"
  max_domains_per_run: 200
`)

	require.NoError(t, LoadConfig(path))

	assert.Equal(t, "8080", AppConfig.Server.Port)
	assert.Equal(t, "taller_gnc", AppConfig.Database.DBName)
	assert.Equal(t, 40*time.Second, AppConfig.Scraper.ProbeTimeout)
	assert.Equal(t, 350*time.Millisecond, AppConfig.Scraper.DelayBetweenProbes)
	assert.Equal(t, 200, AppConfig.Scraper.MaxDomainsPerRun)
	assert.True(t, AppConfig.Scraper.Headless)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "8080"
scraper:
  registry_url: "https://example.test/consulta"
`)

	require.NoError(t, LoadConfig(path))

	assert.Equal(t, 40*time.Second, AppConfig.Scraper.ProbeTimeout)
	assert.Equal(t, 350*time.Millisecond, AppConfig.Scraper.DelayBetweenProbes)
	assert.Equal(t, 200, AppConfig.Scraper.MaxDomainsPerRun)
}

func TestLoadConfigEnvOverridesCredentials(t *testing.T) {
	path := writeConfigFile(t, `
database:
  host: "localhost"
  user: "file-user"
  password: "file-pass"
  dbname: "taller_gnc"
`)

	t.Setenv("DB_USER", "env-user")
	t.Setenv("DB_PASSWORD", "env-pass")

	require.NoError(t, LoadConfig(path))

	assert.Equal(t, "env-user", AppConfig.Database.User)
	assert.Equal(t, "env-pass", AppConfig.Database.Password)
	assert.Equal(t, "localhost", AppConfig.Database.Host)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := writeConfigFile(t, `
scraper:
  probe_timeout: "pronto"
`)

	assert.Error(t, LoadConfig(path))
}
