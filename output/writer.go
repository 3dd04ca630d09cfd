package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/shibukawa/ddlreflect"
	"github.com/shibukawa/ddlreflect/typemap"
)

const (
	generatorName = "ddlreflect"
	globalSchema  = "global"
)

// Writer serializes reflected tables.
type Writer struct {
	Format Format
	// Pretty indents JSON and XML output. YAML is always indented.
	Pretty bool
	// SchemaAware makes WriteFiles place tables in one directory per schema.
	SchemaAware bool
	Metadata    Metadata
	// Mapper adds portable field descriptions to each table when set.
	Mapper typemap.TypeMapper
}

// NewWriter creates a pretty-printing writer for format.
func NewWriter(format Format) *Writer {
	return &Writer{
		Format:   format,
		Pretty:   true,
		Metadata: Metadata{Generator: generatorName},
	}
}

// Write serializes all tables as one bundle.
func (w *Writer) Write(out io.Writer, tables []*ddlreflect.Table) error {
	bundle := Bundle{
		Metadata: w.metadata(),
		Tables:   make([]TableDocument, 0, len(tables)),
	}

	for _, table := range tables {
		bundle.Tables = append(bundle.Tables, NewTableDocument(table, w.Mapper))
	}

	switch w.Format {
	case FormatYAML:
		return encodeYAML(out, bundle)
	case FormatJSON:
		return encodeJSON(out, bundle, w.Pretty)
	case FormatXML:
		return encodeXML(out, bundle.Metadata, bundle.Tables, w.Pretty)
	default:
		return fmt.Errorf("%w: %q", ddlreflect.ErrUnsupportedFormat, w.Format)
	}
}

// WriteTable serializes a single table document.
func (w *Writer) WriteTable(out io.Writer, table *ddlreflect.Table) error {
	doc := Document{
		Metadata: w.metadata(),
		Table:    NewTableDocument(table, w.Mapper),
	}

	switch w.Format {
	case FormatYAML:
		return encodeYAML(out, doc)
	case FormatJSON:
		return encodeJSON(out, doc, w.Pretty)
	case FormatXML:
		return encodeXML(out, doc.Metadata, []TableDocument{doc.Table}, w.Pretty)
	default:
		return fmt.Errorf("%w: %q", ddlreflect.ErrUnsupportedFormat, w.Format)
	}
}

// WriteFiles writes one file per table below dir and returns the written paths.
func (w *Writer) WriteFiles(dir string, tables []*ddlreflect.Table) ([]string, error) {
	paths := make([]string, 0, len(tables))

	for _, table := range tables {
		path := filepath.Join(w.tableDir(dir, table), table.Name+w.Format.Extension())

		if err := w.writeFile(path, table); err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func (w *Writer) writeFile(path string, table *ddlreflect.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := w.WriteTable(file, table); err != nil {
		return fmt.Errorf("failed to write table %s: %w", table.QualifiedName(), err)
	}

	return nil
}

// tableDir returns dir/<schema>; tables without a schema go to "global".
func (w *Writer) tableDir(dir string, table *ddlreflect.Table) string {
	if !w.SchemaAware {
		return dir
	}

	if table.Schema == "" {
		return filepath.Join(dir, globalSchema)
	}

	return filepath.Join(dir, table.Schema)
}

func (w *Writer) metadata() Metadata {
	metadata := w.Metadata
	if metadata.Generator == "" {
		metadata.Generator = generatorName
	}

	return metadata
}

func encodeYAML(out io.Writer, value any) error {
	encoder := yaml.NewEncoder(out, yaml.IndentSequence(true))
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}

func encodeJSON(out io.Writer, value any, pretty bool) error {
	encoder := json.NewEncoder(out)
	if pretty {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
