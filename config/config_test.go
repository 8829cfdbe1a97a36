package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnse-connect/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
username: trader
password: secret
account_no: "0001234567"
accounts:
  main: "0001234567"
  deriv: "0007654321"
token_cache_path: /tmp/tokens.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "trader", cfg.Username)
	assert.Equal(t, common.APIBaseURL, cfg.BaseURL)
	assert.Equal(t, common.MarketDataHost, cfg.MarketData.Host)
	assert.Equal(t, common.MarketDataPort, cfg.MarketData.Port)
	assert.Equal(t, "/tmp/tokens.db", cfg.TokenCachePath)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
username: file-user
password: file-pass
`)
	t.Setenv("DNSE_USERNAME", "env-user")
	t.Setenv("DNSE_PASSWORD", "env-pass")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-user", cfg.Username)
	assert.Equal(t, "env-pass", cfg.Password)
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	path := writeConfig(t, `
base_url: https://api.dnse.com.vn
`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigBadURL(t *testing.T) {
	path := writeConfig(t, `
username: trader
password: secret
base_url: not-a-url
`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestResolveAccount(t *testing.T) {
	cfg := &Config{
		AccountNo: "0001234567",
		Accounts:  map[string]string{"deriv": "0007654321"},
	}

	assert.Equal(t, "0001234567", cfg.ResolveAccount(""))
	assert.Equal(t, "0007654321", cfg.ResolveAccount("deriv"))
	assert.Equal(t, "0009999999", cfg.ResolveAccount("0009999999"))
}
