package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "c2VjcmV0LXNlY3JldC1zZWNyZXQtc2VjcmV0LXNlY3JldC1zZWNyZXQtc2VjcmV0LXNlY3JldC0xMjM0NTY3OA=="

const testYAML = `
server:
  address: ":9090"
database:
  host: db.internal
  port: "5433"
  dbname: flyak
  user: flyak
  password: hunter2
auth:
  lifetime: 15
  secret: "` + testSecret + `"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SERVER_ADDRESS", "SERVER_PRODUCTION", "DB_HOST", "DB_PORT", "DB_NAME",
		"DB_USER", "DB_PASSWORD", "JWT_LIFETIME", "JWT_SECRET",
	} {
		if value, ok := os.LookupEnv(name); ok {
			require.NoError(t, os.Unsetenv(name))
			t.Cleanup(func() { _ = os.Setenv(name, value) })
		}
	}
}

func TestGetConfig_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, testYAML)

	cfg, err := GetConfig([]string{"-c", path}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5433", cfg.Database.Port)
	assert.Equal(t, 15, cfg.Auth.Lifetime)
	assert.Equal(t, testSecret, cfg.Auth.Secret)
	assert.Equal(t,
		"host=db.internal user=flyak password=hunter2 dbname=flyak port=5433 sslmode=disable",
		cfg.DSN())
}

func TestGetConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, testYAML)
	t.Setenv("JWT_LIFETIME", "45")
	t.Setenv("DB_HOST", "env-db")

	cfg, err := GetConfig([]string{"-c", path}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.Auth.Lifetime)
	assert.Equal(t, "env-db", cfg.Database.Host)
}

func TestGetConfig_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, testYAML)
	t.Setenv("JWT_LIFETIME", "45")

	cfg, err := GetConfig([]string{
		"-c", path, "-t", "5", "-a", ":7070", "-db-address", "flag-db", "-sk", "b3RoZXI=",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Auth.Lifetime)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "flag-db", cfg.Database.Host)
	assert.Equal(t, "b3RoZXI=", cfg.Auth.Secret)
}

func TestGetConfig_EnvOnlyWhenDefaultFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := GetConfig(nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 60, cfg.Auth.Lifetime)
	assert.Equal(t, testSecret, cfg.Auth.Secret)
}

func TestGetConfig_Errors(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, testYAML)

	tests := []struct {
		name string
		args []string
	}{
		{name: "explicit file missing", args: []string{"-c", filepath.Join(t.TempDir(), "missing.yml")}},
		{name: "lifetime not a number", args: []string{"-c", path, "-t", "soon"}},
		{name: "lifetime zero", args: []string{"-c", path, "-t", "0"}},
		{name: "lifetime negative", args: []string{"-c", path, "-t", "-3"}},
		{name: "unknown flag", args: []string{"-c", path, "-unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetConfig(tt.args, zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := new(Config)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.address")
	assert.Contains(t, err.Error(), "auth.secret")
	assert.Contains(t, err.Error(), "auth.lifetime")

	cfg.Server.Address = ":8080"
	cfg.Auth.Secret = testSecret
	cfg.Auth.Lifetime = 1
	assert.NoError(t, cfg.Validate())
}
