package ddlreflect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, getDefaultConfig(), config)
	assert.Equal(t, "mysql", config.Dialect)
	assert.Equal(t, "stop-at-first-index", config.Reflect.ScanMode)
	assert.Equal(t, "yaml", config.Output.Format)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("DDLREFLECT_TEST_OUT", "/tmp/schema-out")

	path := writeConfig(t, `
dialect: postgres
reflect:
  scan_mode: ALL
  validate: true
  tables:
    include: ["app.*"]
    exclude: ["*_tmp"]
output:
  format: JSON
  dir: ${DDLREFLECT_TEST_OUT}/tables
`)

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "postgres", config.Dialect)
	assert.Equal(t, "all", config.Reflect.ScanMode)
	assert.True(t, config.Reflect.Validate)
	assert.Equal(t, []string{"app.*"}, config.Reflect.Tables.Include)
	assert.Equal(t, []string{"*_tmp"}, config.Reflect.Tables.Exclude)
	assert.Equal(t, "json", config.Output.Format)
	assert.Equal(t, "/tmp/schema-out/tables", config.Output.Dir)
	assert.False(t, config.Output.Pretty)
}

func TestLoadConfigDotEnv(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("DDLREFLECT_TEST_FORMAT") })

	path := writeConfig(t, "output:\n  format: ${DDLREFLECT_TEST_FORMAT}\n")
	assert.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte("DDLREFLECT_TEST_FORMAT=xml\n"), 0o644))

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "xml", config.Output.Format)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid dialect", "dialect: oracle\n"},
		{"invalid scan mode", "reflect:\n  scan_mode: sometimes\n"},
		{"invalid format", "output:\n  format: csv\n"},
		{"invalid pattern", "reflect:\n  tables:\n    include: [\"[\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.IsError(t, err, ErrConfigValidation)
		})
	}
}

func TestLoadConfigUnknownField(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "dialect: mysql\nunknown_field: 1\n"))
	assert.Error(t, err)
	assert.NotIsError(t, err, ErrConfigValidation)
}

func TestConfigIncludesTable(t *testing.T) {
	config := getDefaultConfig()
	config.Reflect.Tables = TablePatterns{
		Include: []string{"app.*", "audit"},
		Exclude: []string{"*_tmp"},
	}

	tests := []struct {
		name     string
		table    *Table
		expected bool
	}{
		{"schema pattern", NewTable("users", "app"), true},
		{"exact name", NewTable("audit", ""), true},
		{"excluded", NewTable("users_tmp", "app"), false},
		{"not included", NewTable("users", "other"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, config.IncludesTable(tt.table))
		})
	}
}

func TestMatchWildcard(t *testing.T) {
	assert.True(t, MatchWildcard("*", "anything"))
	assert.True(t, MatchWildcard("user*", "users"))
	assert.False(t, MatchWildcard("user", "users"))
	assert.True(t, MatchWildcard("users", "users"))
	assert.False(t, MatchWildcard("[*", "users"))
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input    string
		expected Dialect
	}{
		{"mysql", DialectMySQL},
		{"MariaDB", DialectMariaDB},
		{"postgresql", DialectPostgres},
		{"pgsql", DialectPostgres},
		{"sqlite3", DialectSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dialect, err := ParseDialect(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, dialect)
		})
	}

	_, err := ParseDialect("oracle")
	assert.IsError(t, err, ErrUnsupportedDialect)
}
