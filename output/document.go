// Package output serializes reflected tables as YAML, JSON or XML and loads
// YAML/JSON documents back.
package output

import (
	"github.com/shibukawa/ddlreflect"
	"github.com/shibukawa/ddlreflect/typemap"
)

// Metadata describes where a document came from.
type Metadata struct {
	Generator string `json:"generator" yaml:"generator"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	Dialect   string `json:"dialect,omitempty" yaml:"dialect,omitempty"`
}

// TableDocument is the serialized form of a ddlreflect.Table.
type TableDocument struct {
	Name        string                       `json:"name" yaml:"name"`
	Schema      string                       `json:"schema,omitempty" yaml:"schema,omitempty"`
	Fingerprint string                       `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Options     map[string]string            `json:"options,omitempty" yaml:"options,omitempty"`
	Columns     []*ddlreflect.Column         `json:"columns" yaml:"columns"`
	Indexes     []*ddlreflect.Index          `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Fields      []typemap.Field              `json:"fields,omitempty" yaml:"fields,omitempty"`
	Skipped     []ddlreflect.SkippedFragment `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	SQL         string                       `json:"sql,omitempty" yaml:"sql,omitempty"`
}

// Document wraps a single table, one per file.
type Document struct {
	Metadata Metadata      `json:"metadata" yaml:"metadata"`
	Table    TableDocument `json:"table" yaml:"table"`
}

// Bundle wraps several tables written to one stream.
type Bundle struct {
	Metadata Metadata        `json:"metadata" yaml:"metadata"`
	Tables   []TableDocument `json:"tables" yaml:"tables"`
}

// NewTableDocument converts table. Fields are filled only when mapper is non-nil.
func NewTableDocument(table *ddlreflect.Table, mapper typemap.TypeMapper) TableDocument {
	doc := TableDocument{
		Name:        table.Name,
		Schema:      table.Schema,
		Fingerprint: table.Fingerprint,
		Options:     table.Options,
		Columns:     table.ColumnList(),
		Indexes:     table.IndexList(),
		Skipped:     table.Skipped,
		SQL:         table.SQL,
	}

	if mapper != nil {
		doc.Fields = typemap.Describe(mapper, table)
	}

	return doc
}

// Table rebuilds the reflected table.
func (d TableDocument) Table() *ddlreflect.Table {
	table := ddlreflect.NewTable(d.Name, d.Schema)
	table.Fingerprint = d.Fingerprint
	table.Options = d.Options
	table.Skipped = d.Skipped
	table.SQL = d.SQL

	for _, col := range d.Columns {
		table.AddColumn(col)
	}

	for _, idx := range d.Indexes {
		table.AddIndex(idx)
	}

	return table
}
