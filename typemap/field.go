package typemap

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shibukawa/ddlreflect"
)

// initialisms are kept upper-cased in field names.
var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uuid": "UUID",
	"ip":   "IP",
	"json": "JSON",
	"html": "HTML",
	"api":  "API",
}

// Field describes how a column is exposed by generated code.
type Field struct {
	Column     string `json:"column" yaml:"column"`
	Name       string `json:"name" yaml:"name"`
	DBType     string `json:"dbType" yaml:"dbType"`
	Type       string `json:"type" yaml:"type"`
	GoType     string `json:"goType" yaml:"goType"`
	Nullable   bool   `json:"nullable" yaml:"nullable"`
	PrimaryKey bool   `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty"`
}

// Describe maps every column of table in declaration order.
func Describe(mapper TypeMapper, table *ddlreflect.Table) []Field {
	columns := table.ColumnList()
	fields := make([]Field, 0, len(columns))

	for _, col := range columns {
		portable := MapColumn(mapper, col)
		primaryKey := table.IsPrimaryKeyColumn(col.Name)
		nullable := col.Nullable && !primaryKey

		fields = append(fields, Field{
			Column:     col.Name,
			Name:       FieldName(col.Name),
			DBType:     col.TypeString(),
			Type:       portable,
			GoType:     GoType(portable, nullable),
			Nullable:   nullable,
			PrimaryKey: primaryKey,
		})
	}

	return fields
}

// FieldName converts a column name to an exported Go field name: "user_id" -> "UserID".
func FieldName(column string) string {
	parts := strings.FieldsFunc(column, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	caser := cases.Title(language.English)

	for i, part := range parts {
		if initialism, ok := initialisms[strings.ToLower(part)]; ok {
			parts[i] = initialism
			continue
		}

		parts[i] = caser.String(part)
	}

	return strings.Join(parts, "")
}

// GoType returns the Go type used for a portable type.
func GoType(portable string, nullable bool) string {
	var goType string

	switch portable {
	case TypeInt:
		goType = "int64"
	case TypeFloat:
		goType = "float64"
	case TypeDecimal:
		goType = "decimal.Decimal"
	case TypeBool:
		goType = "bool"
	case TypeDate, TypeTime, TypeDateTime:
		goType = "time.Time"
	case TypeJSON:
		goType = "json.RawMessage"
	case TypeBinary:
		return "[]byte"
	case TypeArray:
		return "[]any"
	default:
		goType = "string"
	}

	if nullable {
		return "*" + goType
	}

	return goType
}
