package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvURL, EnvHost, EnvPort, EnvUser, EnvPassword} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "", cfg.BaseURL())
	assert.Equal(t, "", cfg.Username)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	content := `server:
  url: https://teamcity.example.com
username: alice
password: secret
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://teamcity.example.com", cfg.BaseURL())
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("server: [not a map"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	content := `server:
  url: https://from-file.example.com
username: fileuser
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))

	t.Setenv(EnvURL, "https://from-env.example.com")
	t.Setenv(EnvUser, "envuser")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example.com", cfg.BaseURL())
	assert.Equal(t, "envuser", cfg.Username)
}

func TestHostPortBaseURL(t *testing.T) {
	clearEnv(t)

	t.Setenv(EnvHost, "tc.internal")
	t.Setenv(EnvPort, "8111")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://tc.internal:8111", cfg.BaseURL())
}

func TestHostDefaultPort(t *testing.T) {
	clearEnv(t)

	t.Setenv(EnvHost, "tc.internal")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://tc.internal:80", cfg.BaseURL())
}

func TestURLWinsOverHostPort(t *testing.T) {
	clearEnv(t)

	cfg := Config{Server: ServerConfig{URL: "https://tc.example.com", Host: "other", Port: 9999}}
	assert.Equal(t, "https://tc.example.com", cfg.BaseURL())
}

func TestInvalidPortIgnored(t *testing.T) {
	clearEnv(t)

	t.Setenv(EnvHost, "tc.internal")
	t.Setenv(EnvPort, "not-a-number")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://tc.internal:80", cfg.BaseURL())
}
