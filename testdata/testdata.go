// Package testdata embeds DDL scripts shared by package tests.
package testdata

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed schemas/*.sql
var Schemas embed.FS

// SchemaNames returns the embedded script names without extension, sorted.
func SchemaNames() ([]string, error) {
	entries, err := fs.ReadDir(Schemas, "schemas")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}

	return names, nil
}

// Schema returns the script stored as schemas/<name>.sql.
func Schema(name string) (string, error) {
	data, err := fs.ReadFile(Schemas, "schemas/"+name+".sql")
	if err != nil {
		return "", err
	}

	return string(data), nil
}
