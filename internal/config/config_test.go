package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "us-east-2", cfg.Region)
	assert.Equal(t, "TodoTable", cfg.TableName)
	assert.Equal(t, "LambdaFunction", cfg.FunctionName)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, "todos.json", cfg.DataFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
region = "eu-west-1"
table_name = "FileTable"
backend = "remote"
scan_page_size = 25
request_timeout = "3s"
legacy_function_name_action = true
`)
	t.Setenv("DYNAMODB_TABLE_NAME", "EnvTable")
	t.Setenv("TODO_SCAN_PAGE_SIZE", "50")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "EnvTable", cfg.TableName, "environment overrides the file")
	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, 50, cfg.ScanPageSize)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout.Duration)
	assert.True(t, cfg.LegacyFunctionNameAction)
	assert.Equal(t, "LambdaFunction", cfg.FunctionName, "unset keys keep defaults")
}

func TestLoad_MissingFiles(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err, "missing default file is fine")
	assert.Equal(t, "TodoTable", cfg.TableName)

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err, "explicit file must exist")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown backend", body: `backend = "cloud"`},
		{name: "unknown invoker", body: `invoker = "grpc"`},
		{name: "unknown table backend", body: `table_backend = "redis"`},
		{name: "zero page size", body: `scan_page_size = 0`},
		{name: "bad toml", body: `region = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TODO_TEST_BOOL", "yes-please")
	_, ok := getEnvBool("TODO_TEST_BOOL")
	assert.False(t, ok)

	t.Setenv("TODO_TEST_BOOL", "true")
	v, ok := getEnvBool("TODO_TEST_BOOL")
	assert.True(t, ok)
	assert.True(t, v)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"
	cfg.LogFile = filepath.Join(t.TempDir(), "todo.log")

	logger, err := cfg.Logger()
	require.NoError(t, err)
	logger.Debug("hello")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)

	cfg.LogLevel = "loud"
	_, err = cfg.Logger()
	assert.Error(t, err)
}
