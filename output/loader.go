package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/shibukawa/ddlreflect"
)

// LoadTableFromFile loads a single-table document written by Writer.WriteTable.
// The format is chosen from the file extension.
func LoadTableFromFile(path string) (*ddlreflect.Table, error) {
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc Document

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatXML:
		var tables []TableDocument

		doc.Metadata, tables, err = decodeXML(bytes.NewReader(data))
		if err == nil && len(tables) != 1 {
			err = fmt.Errorf("expected one table, found %d", len(tables))
		}

		if err == nil {
			doc.Table = tables[0]
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return doc.Table.Table(), nil
}

// LoadTablesFromDir loads every table document below dir, sorted by qualified name.
// Files with other extensions are ignored.
func LoadTablesFromDir(dir string) ([]*ddlreflect.Table, error) {
	var tables []*ddlreflect.Table

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		if _, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err != nil {
			return nil
		}

		table, err := LoadTableFromFile(path)
		if err != nil {
			return err
		}

		tables = append(tables, table)

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(tables, func(a, b *ddlreflect.Table) int {
		return strings.Compare(a.QualifiedName(), b.QualifiedName())
	})

	return tables, nil
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
