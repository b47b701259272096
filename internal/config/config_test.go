package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/constants"
)

// clearEnv blanks every variable Load reads and stubs the keyring.
func clearEnv(t *testing.T, keyringValue string) {
	t.Helper()
	for _, key := range []string{
		constants.EnvDatabase, constants.EnvDBConn, constants.EnvUserID, constants.EnvTimezone,
		constants.EnvHTTPAddr, constants.EnvDebug, constants.EnvNotify,
	} {
		t.Setenv(key, "")
	}
	old := lookupKeyring
	lookupKeyring = func() (string, bool) { return keyringValue, keyringValue != "" }
	t.Cleanup(func() { lookupKeyring = old })
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultConfigPath, cfg.Database)
	assert.Equal(t, int64(constants.DefaultUserID), cfg.UserID)
	assert.Equal(t, constants.DefaultTimezone, cfg.Timezone)
	assert.Equal(t, constants.DefaultHTTPAddr, cfg.HTTPAddr)
	assert.False(t, cfg.Debug)
	assert.True(t, cfg.Notify)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t, "")
	t.Setenv(constants.EnvDatabase, "/tmp/h.db")
	t.Setenv(constants.EnvUserID, "42")
	t.Setenv(constants.EnvTimezone, "America/New_York")
	t.Setenv(constants.EnvHTTPAddr, "127.0.0.1:9090")
	t.Setenv(constants.EnvDebug, "true")
	t.Setenv(constants.EnvNotify, "0")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, Config{
		Database: "/tmp/h.db",
		UserID:   42,
		Timezone: "America/New_York",
		HTTPAddr: "127.0.0.1:9090",
		Debug:    true,
		Notify:   false,
	}, cfg)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t, "")
	for _, key := range []string{constants.EnvDatabase, constants.EnvUserID} {
		os.Unsetenv(key)
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("HABITUAL_DB=/data/from-dotenv.db\nHABITUAL_USER_ID=7\n"), 0600))
	t.Cleanup(func() {
		os.Unsetenv(constants.EnvDatabase)
		os.Unsetenv(constants.EnvUserID)
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/data/from-dotenv.db", cfg.Database)
	assert.Equal(t, int64(7), cfg.UserID)
}

func TestLoad_DatabasePrecedence(t *testing.T) {
	t.Run("keyring used when env is empty", func(t *testing.T) {
		clearEnv(t, "postgres://habitual@db/habitual")
		cfg, err := Load(noEnvFile(t))
		require.NoError(t, err)
		assert.Equal(t, "postgres://habitual@db/habitual", cfg.Database)
	})

	t.Run("connection variable beats keyring", func(t *testing.T) {
		clearEnv(t, "postgres://habitual@db/habitual")
		t.Setenv(constants.EnvDBConn, "postgres://other@db/habitual")
		cfg, err := Load(noEnvFile(t))
		require.NoError(t, err)
		assert.Equal(t, "postgres://other@db/habitual", cfg.Database)
	})

	t.Run("database variable beats everything", func(t *testing.T) {
		clearEnv(t, "postgres://habitual@db/habitual")
		t.Setenv(constants.EnvDBConn, "postgres://other@db/habitual")
		t.Setenv(constants.EnvDatabase, "/tmp/local.db")
		cfg, err := Load(noEnvFile(t))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/local.db", cfg.Database)
	})
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero user", key: constants.EnvUserID, value: "0"},
		{name: "unknown timezone", key: constants.EnvTimezone, value: "Mars/Olympus_Mons"},
		{name: "bad address", key: constants.EnvHTTPAddr, value: "not an address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, "")
			t.Setenv(tt.key, tt.value)
			_, err := Load(noEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestExpandPathAndDir(t *testing.T) {
	old := userHomeDir
	userHomeDir = func() (string, error) { return "/home/tester", nil }
	t.Cleanup(func() { userHomeDir = old })

	got, err := ExpandPath("~/.config/habitual/habitual.db")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.config/habitual/habitual.db", got)

	got, err = ExpandPath("/abs/path.db")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path.db", got)

	dir, err := Dir("/data/habitual.db")
	require.NoError(t, err)
	assert.Equal(t, "/data", dir)

	dir, err = Dir("postgres://habitual@db/habitual")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.config/habitual", dir)
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u@h/db"))
	assert.True(t, IsPostgres("postgresql://u@h/db"))
	assert.False(t, IsPostgres("/tmp/habitual.db"))
	assert.False(t, IsPostgres("~/.config/habitual/habitual.db"))
}
