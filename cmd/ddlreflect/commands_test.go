package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/fatih/color"

	"github.com/shibukawa/ddlreflect"
	"github.com/shibukawa/ddlreflect/testhelper"
)

const schemaSQL = `CREATE TABLE users (
  id INTEGER NOT NULL AUTO_INCREMENT,
  name VARCHAR(255) DEFAULT 'anon',
  PRIMARY KEY (id)
);
CREATE TABLE orders (
  id BIGINT NOT NULL,
  PRIMARY KEY (id)
);
`

type testContext struct {
	*Context
	dir    string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestContext(t *testing.T) *testContext {
	t.Helper()

	color.NoColor = true

	dir := t.TempDir()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	return &testContext{
		Context: &Context{
			Config: filepath.Join(dir, "ddlreflect.yaml"),
			Stdin:  strings.NewReader(""),
			Stdout: stdout,
			Stderr: stderr,
		},
		dir:    dir,
		stdout: stdout,
		stderr: stderr,
	}
}

func TestReflectCmd(t *testing.T) {
	t.Run("first table to stdout", func(t *testing.T) {
		tc := newTestContext(t)
		input := testhelper.WriteFile(t, tc.dir, "schema.sql", schemaSQL)

		cmd := &ReflectCmd{Input: input}
		assert.NoError(t, cmd.Run(tc.Context))

		assert.Contains(t, tc.stdout.String(), "generator: ddlreflect")
		assert.Contains(t, tc.stdout.String(), "name: users")
		assert.NotContains(t, tc.stdout.String(), "name: orders")
	})

	t.Run("all tables into files", func(t *testing.T) {
		tc := newTestContext(t)
		input := testhelper.WriteFile(t, tc.dir, "schema.sql", schemaSQL)
		out := filepath.Join(tc.dir, "schema")

		cmd := &ReflectCmd{Input: input, All: true, Format: "json", Output: out}
		assert.NoError(t, cmd.Run(tc.Context))

		assert.True(t, fileExists(filepath.Join(out, "users.json")))
		assert.True(t, fileExists(filepath.Join(out, "orders.json")))
		assert.Contains(t, tc.stderr.String(), "Wrote ")
		assert.Equal(t, "", tc.stdout.String())
	})

	t.Run("stdin", func(t *testing.T) {
		tc := newTestContext(t)
		tc.Stdin = strings.NewReader("CREATE TABLE notes (body TEXT)")

		cmd := &ReflectCmd{Input: "-", Format: "xml"}
		assert.NoError(t, cmd.Run(tc.Context))
		assert.Contains(t, tc.stdout.String(), `<table name="notes"`)
	})

	t.Run("missing input", func(t *testing.T) {
		tc := newTestContext(t)

		cmd := &ReflectCmd{Input: filepath.Join(tc.dir, "missing.sql")}
		assert.IsError(t, cmd.Run(tc.Context), ErrInputFileNotExist)
	})

	t.Run("no create table", func(t *testing.T) {
		tc := newTestContext(t)
		input := testhelper.WriteFile(t, tc.dir, "schema.sql", "DROP TABLE users;")

		cmd := &ReflectCmd{Input: input}
		assert.IsError(t, cmd.Run(tc.Context), ddlreflect.ErrNoCreateTableFound)
	})

	t.Run("unsupported format", func(t *testing.T) {
		tc := newTestContext(t)
		input := testhelper.WriteFile(t, tc.dir, "schema.sql", schemaSQL)

		cmd := &ReflectCmd{Input: input, Format: "csv"}
		assert.IsError(t, cmd.Run(tc.Context), ddlreflect.ErrUnsupportedFormat)
	})

	t.Run("excluded by config", func(t *testing.T) {
		tc := newTestContext(t)
		input := testhelper.WriteFile(t, tc.dir, "schema.sql", schemaSQL)
		testhelper.WriteFile(t, tc.dir, "ddlreflect.yaml", testhelper.TrimIndent(t, `
			reflect:
			  tables:
			    exclude: ["users"]
			`))

		cmd := &ReflectCmd{Input: input}
		assert.IsError(t, cmd.Run(tc.Context), ErrNoTablesSelected)
	})

	t.Run("validation problems", func(t *testing.T) {
		tc := newTestContext(t)
		input := testhelper.WriteFile(t, tc.dir, "schema.sql", "CREATE TABLE notes (body TEXT, KEY (body))")

		cmd := &ReflectCmd{Input: input, Validate: true}
		assert.IsError(t, cmd.Run(tc.Context), ErrValidationFailed)
		assert.Contains(t, tc.stderr.String(), "notes: ")
		assert.Contains(t, tc.stdout.String(), "name: notes")
	})

	t.Run("dialect problems", func(t *testing.T) {
		tc := newTestContext(t)
		input := testhelper.WriteFile(t, tc.dir, "schema.sql", schemaSQL)
		testhelper.WriteFile(t, tc.dir, "ddlreflect.yaml", "dialect: postgres\n")

		cmd := &ReflectCmd{Input: input, Validate: true}
		assert.IsError(t, cmd.Run(tc.Context), ErrValidationFailed)
		assert.Contains(t, tc.stderr.String(), "AUTO_INCREMENT on column 'id' in postgres")
	})

	t.Run("verbose trace", func(t *testing.T) {
		tc := newTestContext(t)
		tc.Verbose = true
		input := testhelper.WriteFile(t, tc.dir, "schema.sql", schemaSQL)

		cmd := &ReflectCmd{Input: input}
		assert.NoError(t, cmd.Run(tc.Context))
		assert.Contains(t, tc.stderr.String(), "reflecting table users")
	})
}

func TestTypesCmd(t *testing.T) {
	tc := newTestContext(t)
	input := testhelper.WriteFile(t, tc.dir, "schema.sql", schemaSQL)

	cmd := &TypesCmd{Input: input, Dialect: "postgres"}
	assert.NoError(t, cmd.Run(tc.Context))

	lines := strings.Split(strings.TrimSpace(tc.stdout.String()), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "users", lines[0])
	assert.Contains(t, lines[1], "ID")
	assert.Contains(t, lines[1], "int64")
	assert.Contains(t, lines[1], "pk,not null")
	assert.Contains(t, lines[2], "*string")

	bad := &TypesCmd{Input: input, Dialect: "oracle"}
	assert.IsError(t, bad.Run(tc.Context), ddlreflect.ErrUnsupportedDialect)
}

func TestShowCmd(t *testing.T) {
	tc := newTestContext(t)
	input := testhelper.WriteFile(t, tc.dir, "schema.sql", schemaSQL)
	out := filepath.Join(tc.dir, "schema")

	assert.NoError(t, (&ReflectCmd{Input: input, All: true, Output: out}).Run(tc.Context))

	entries, err := os.ReadDir(out)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(entries))

	tc.stdout.Reset()

	cmd := &ShowCmd{Dir: out, Validate: true}
	assert.NoError(t, cmd.Run(tc.Context))
	assert.Equal(t, "orders (1 columns, 1 indexes)\nusers (2 columns, 1 indexes)\n", tc.stdout.String())
}

func TestVersionCmd(t *testing.T) {
	tc := newTestContext(t)

	assert.NoError(t, (&VersionCmd{}).Run(tc.Context))
	assert.Equal(t, "ddlreflect v0.1.0\n", tc.stdout.String())
}
