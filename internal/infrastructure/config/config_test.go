package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file not found")
	})

	t.Run("defaults fill unspecified fields", func(t *testing.T) {
		base := t.TempDir()
		writeConfig(t, base, "server:\n  port: 9000\n")

		cfg, err := Load(base)
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
		assert.Equal(t, "compendium_submissions", cfg.Qdrant.Collection)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		base := t.TempDir()
		writeConfig(t, base, "server: [not a map")

		_, err := Load(base)
		require.Error(t, err)
	})

	t.Run("invalid port rejected", func(t *testing.T) {
		base := t.TempDir()
		writeConfig(t, base, "server:\n  port: 99999\n")

		_, err := Load(base)
		require.Error(t, err)
	})

	t.Run("env var fills embedder key", func(t *testing.T) {
		base := t.TempDir()
		writeConfig(t, base, "server:\n  port: 8420\n")
		t.Setenv("OPENAI_API_KEY", "sk-test")

		cfg, err := Load(base)
		require.NoError(t, err)
		assert.Equal(t, "sk-test", cfg.Embedder.APIKey)
	})

	t.Run("explicit key wins over env var", func(t *testing.T) {
		base := t.TempDir()
		writeConfig(t, base, "embedder:\n  api_key: from-file\n")
		t.Setenv("OPENAI_API_KEY", "from-env")

		cfg, err := Load(base)
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Embedder.APIKey)
	})

	t.Run("auth token env var enables token mode", func(t *testing.T) {
		base := t.TempDir()
		writeConfig(t, base, "server:\n  port: 8420\n")
		t.Setenv("COMPENDIUM_AUTH_TOKEN", "secret")

		cfg, err := Load(base)
		require.NoError(t, err)
		assert.True(t, cfg.Auth.Enabled())
		assert.Equal(t, "secret", cfg.Auth.Token)
	})
}

func TestAuthConfig_Validate(t *testing.T) {
	t.Run("token mode requires a token", func(t *testing.T) {
		c := AuthConfig{Mode: AuthModeToken}
		require.Error(t, c.Validate())
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		c := AuthConfig{Mode: "basic"}
		require.Error(t, c.Validate())
	})

	t.Run("empty mode normalizes to disabled", func(t *testing.T) {
		c := AuthConfig{}
		require.NoError(t, c.Validate())
		assert.Equal(t, AuthModeDisabled, c.Mode)
	})
}

func TestWriteDefault(t *testing.T) {
	base := t.TempDir()

	require.NoError(t, WriteDefault(base))
	assert.True(t, Exists(base))

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, 8420, cfg.Server.Port)

	// Refuses to clobber an existing config.
	require.Error(t, WriteDefault(base))
}

func TestSQLitePath(t *testing.T) {
	cfg := Default()

	assert.Equal(t, filepath.Join("/base", DefaultConfigDir, DefaultDBFile), cfg.SQLitePath("/base"))

	cfg.SQLite.Path = "/custom/db.sqlite"
	assert.Equal(t, "/custom/db.sqlite", cfg.SQLitePath("/base"))
}

func writeConfig(t *testing.T, base, content string) {
	t.Helper()
	dir := filepath.Join(base, DefaultConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0o644))
}
