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
	for _, key := range []string{"FREETRADE_ACCOUNT", "FREETRADE_PROFILE", "BEANCOUNT_ROOT", "BEANCOUNT_DB_PATH", "DEBUG"} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FREETRADE_ACCOUNT=SIPP\nBEANCOUNT_ROOT=/ledger\nDEBUG=true\n"), 0644))

	// godotenv never overrides a variable that is set, even to "".
	for _, key := range []string{"FREETRADE_ACCOUNT", "BEANCOUNT_ROOT", "DEBUG"} {
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "SIPP", cfg.Freetrade.Account)
	assert.Equal(t, "/ledger", cfg.Beancount.Root)
	assert.Equal(t, "", cfg.Beancount.DBPath)
	assert.True(t, cfg.Debug)
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadInvalidDebug(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEBUG", "maybe")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, nil, 0644))

	_, err := Load(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEBUG")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Freetrade: FreetradeConfig{Account: "ISA"},
		Beancount: BeancountConfig{Root: "/ledger"},
	}

	assert.NoError(t, cfg.Validate("freetrade.account", "beancount.root"))

	err := cfg.Validate("beancount.root", "beancount.dbPath", "freetrade.profile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beancount.dbPath, freetrade.profile")

	assert.Error(t, cfg.Validate("nope"))
}
