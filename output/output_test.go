package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/ddlreflect"
	"github.com/shibukawa/ddlreflect/reflection"
	"github.com/shibukawa/ddlreflect/typemap"
)

const usersDDL = `CREATE TABLE users (
  id INTEGER NOT NULL AUTO_INCREMENT,
  name VARCHAR(255) DEFAULT 'anon' COMMENT 'display name',
  status ENUM('active','banned') NOT NULL,
  onlyname,
  PRIMARY KEY (id),
  KEY idx_name (name(10) DESC)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const ordersDDL = `CREATE TABLE app.orders (
  id BIGINT UNSIGNED NOT NULL,
  user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
  PRIMARY KEY (id)
)`

func reflectTables(t *testing.T) []*ddlreflect.Table {
	t.Helper()

	reflector := reflection.NewReflector(reflection.Options{ScanMode: reflection.ScanAll})

	tables, err := reflector.ReflectAll(usersDDL + ";\n" + ordersDDL + ";")
	require.NoError(t, err)
	require.Len(t, tables, 2)

	return tables
}

// withoutSQL clears the per-element SQL, which documents do not carry.
func withoutSQL(table *ddlreflect.Table) *ddlreflect.Table {
	for _, col := range table.ColumnList() {
		col.SQL = ""
	}

	for _, idx := range table.IndexList() {
		idx.SQL = ""
	}

	return table
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"yaml", FormatYAML},
		{"YML", FormatYAML},
		{" json ", FormatJSON},
		{"Xml", FormatXML},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}

	_, err := ParseFormat("csv")
	require.ErrorIs(t, err, ddlreflect.ErrUnsupportedFormat)
}

func TestFileRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON, FormatXML} {
		t.Run(string(format), func(t *testing.T) {
			tables := reflectTables(t)
			dir := t.TempDir()

			writer := NewWriter(format)
			writer.SchemaAware = true

			paths, err := writer.WriteFiles(dir, tables)
			require.NoError(t, err)
			assert.Equal(t, []string{
				filepath.Join(dir, "global", "users"+format.Extension()),
				filepath.Join(dir, "app", "orders"+format.Extension()),
			}, paths)

			loaded, err := LoadTablesFromDir(dir)
			require.NoError(t, err)
			require.Len(t, loaded, 2)

			// sorted by qualified name
			assert.Equal(t, "app.orders", loaded[0].QualifiedName())
			assert.Equal(t, withoutSQL(tables[1]), loaded[0])
			assert.Equal(t, withoutSQL(tables[0]), loaded[1])
		})
	}
}

func TestRoundTripKeepsReflectedDetails(t *testing.T) {
	tables := reflectTables(t)
	dir := t.TempDir()

	paths, err := NewWriter(FormatYAML).WriteFiles(dir, tables[:1])
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dir, "users.yaml"), paths[0])

	users, err := LoadTableFromFile(paths[0])
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"ENGINE": "InnoDB", "CHARSET": "utf8mb4"}, users.Options)
	assert.Len(t, users.Skipped, 1)
	assert.Equal(t, "onlyname", users.Skipped[0].Fragment)

	name, ok := users.Column("name")
	require.True(t, ok)
	assert.Equal(t, "'anon'", name.DefaultValue())
	assert.Equal(t, "display name", name.Comment)

	status, ok := users.Column("status")
	require.True(t, ok)
	assert.Equal(t, []string{"active", "banned"}, status.EnumValues)

	idx, ok := users.Index("idx_name")
	require.True(t, ok)
	require.Len(t, idx.Keys, 1)
	assert.Equal(t, ddlreflect.Desc, idx.Keys[0].Order)
	require.NotNil(t, idx.Keys[0].Length)
	assert.Equal(t, 10, *idx.Keys[0].Length)
}

func TestWriteBundle(t *testing.T) {
	tables := reflectTables(t)

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer

		writer := NewWriter(FormatYAML)
		writer.Metadata.Source = "schema.sql"

		require.NoError(t, writer.Write(&buf, tables))
		assert.Contains(t, buf.String(), "generator: ddlreflect")
		assert.Contains(t, buf.String(), "source: schema.sql")
		assert.Contains(t, buf.String(), "tables:")
	})

	t.Run("json with fields", func(t *testing.T) {
		mapper, err := typemap.NewTypeMapper(ddlreflect.DialectMySQL)
		require.NoError(t, err)

		var buf bytes.Buffer

		writer := NewWriter(FormatJSON)
		writer.Mapper = mapper

		require.NoError(t, writer.Write(&buf, tables))

		var bundle Bundle
		require.NoError(t, json.Unmarshal(buf.Bytes(), &bundle))
		require.Len(t, bundle.Tables, 2)
		assert.Equal(t, "ddlreflect", bundle.Metadata.Generator)
		assert.Equal(t, "users", bundle.Tables[0].Name)
		require.Len(t, bundle.Tables[0].Fields, 3)
		assert.Equal(t, "ID", bundle.Tables[0].Fields[0].Name)
		assert.True(t, bundle.Tables[0].Fields[0].PrimaryKey)
	})

	t.Run("compact json", func(t *testing.T) {
		var buf bytes.Buffer

		writer := NewWriter(FormatJSON)
		writer.Pretty = false

		require.NoError(t, writer.Write(&buf, tables))
		assert.NotContains(t, buf.String(), "\n  ")
	})

	t.Run("xml", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, NewWriter(FormatXML).Write(&buf, tables))
		assert.Contains(t, buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`)

		metadata, docs, err := decodeXML(&buf)
		require.NoError(t, err)
		assert.Equal(t, "ddlreflect", metadata.Generator)
		require.Len(t, docs, 2)
		assert.Equal(t, "app", docs[1].Schema)
		assert.Equal(t, "CASCADE", docs[1].Columns[1].OnDelete)
		assert.Equal(t, []string{"id"}, docs[1].Columns[1].ColumnReferences)
	})
}

func TestUnsupportedFormat(t *testing.T) {
	tables := reflectTables(t)
	writer := &Writer{Format: "csv"}

	err := writer.Write(&bytes.Buffer{}, tables)
	require.ErrorIs(t, err, ddlreflect.ErrUnsupportedFormat)

	err = writer.WriteTable(&bytes.Buffer{}, tables[0])
	require.ErrorIs(t, err, ddlreflect.ErrUnsupportedFormat)
}

func TestLoadTablesFromDirIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# schema"), 0o644))

	_, err := NewWriter(FormatYAML).WriteFiles(dir, reflectTables(t)[:1])
	require.NoError(t, err)

	tables, err := LoadTablesFromDir(dir)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "users", tables[0].Name)
}

func TestLoadTableFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTableFromFile(filepath.Join(dir, "users.csv"))
	require.ErrorIs(t, err, ddlreflect.ErrUnsupportedFormat)

	_, err = LoadTableFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	broken := filepath.Join(dir, "broken.xml")
	require.NoError(t, os.WriteFile(broken, []byte("<other/>"), 0o644))

	_, err = LoadTableFromFile(broken)
	require.Error(t, err)
}
