// Package typemap maps reflected column datatypes to portable type names for
// code generators and ORM mappers.
package typemap

import (
	"regexp"
	"strings"

	"github.com/shibukawa/ddlreflect"
)

// Portable types
const (
	TypeString   = "string"
	TypeInt      = "int"
	TypeFloat    = "float"
	TypeDecimal  = "decimal"
	TypeBool     = "bool"
	TypeDate     = "date"
	TypeTime     = "time"
	TypeDateTime = "datetime"
	TypeJSON     = "json"
	TypeArray    = "array"
	TypeBinary   = "binary"
)

// TypeMapper maps a dialect specific type, e.g. "varchar(255)", to a portable type.
type TypeMapper interface {
	MapType(dbType string) string
}

// NewTypeMapper creates a new type mapper for the specified dialect
func NewTypeMapper(dialect ddlreflect.Dialect) (TypeMapper, error) {
	switch dialect {
	case ddlreflect.DialectMySQL, ddlreflect.DialectMariaDB:
		return NewMySQLTypeMapper(), nil
	case ddlreflect.DialectPostgres:
		return NewPostgreSQLTypeMapper(), nil
	case ddlreflect.DialectSQLite:
		return NewSQLiteTypeMapper(), nil
	default:
		return nil, ddlreflect.ErrUnsupportedDialect
	}
}

// MapColumn maps a reflected column, including its arguments and UNSIGNED flag.
func MapColumn(mapper TypeMapper, col *ddlreflect.Column) string {
	dbType := col.TypeString()
	if col.Unsigned {
		dbType += " unsigned"
	}

	return mapper.MapType(dbType)
}

// baseType strips type arguments: "numeric(10,2)" -> "numeric".
func baseType(normalized string) string {
	base, _, _ := strings.Cut(normalized, "(")
	return strings.TrimSpace(base)
}

// MySQLTypeMapper handles MySQL and MariaDB type mapping
type MySQLTypeMapper struct {
	typeMap map[string]string
}

var mysqlBoolean = regexp.MustCompile(`^tinyint\s*\(\s*1\s*\)`)

// NewMySQLTypeMapper creates a new MySQL type mapper
func NewMySQLTypeMapper() *MySQLTypeMapper {
	return &MySQLTypeMapper{
		typeMap: map[string]string{
			"int":       TypeInt,
			"integer":   TypeInt,
			"bigint":    TypeInt,
			"smallint":  TypeInt,
			"tinyint":   TypeInt,
			"mediumint": TypeInt,
			"serial":    TypeInt,
			"year":      TypeInt,

			"varchar":    TypeString,
			"char":       TypeString,
			"text":       TypeString,
			"tinytext":   TypeString,
			"mediumtext": TypeString,
			"longtext":   TypeString,
			"enum":       TypeString,
			"set":        TypeString,

			"decimal":          TypeDecimal,
			"numeric":          TypeDecimal,
			"float":            TypeFloat,
			"double":           TypeFloat,
			"double precision": TypeFloat,
			"real":             TypeFloat,

			"boolean": TypeBool,
			"bool":    TypeBool,

			"date":      TypeDate,
			"time":      TypeTime,
			"datetime":  TypeDateTime,
			"timestamp": TypeDateTime,

			"json": TypeJSON,

			"blob":       TypeBinary,
			"tinyblob":   TypeBinary,
			"mediumblob": TypeBinary,
			"longblob":   TypeBinary,
			"binary":     TypeBinary,
			"varbinary":  TypeBinary,
		},
	}
}

// MapType maps a MySQL type to a portable type
func (m *MySQLTypeMapper) MapType(dbType string) string {
	normalized := strings.ToLower(strings.TrimSpace(dbType))

	// tinyint(1) is MySQL's boolean
	if mysqlBoolean.MatchString(normalized) {
		return TypeBool
	}

	normalized = strings.TrimSpace(strings.TrimSuffix(normalized, "zerofill"))
	normalized = strings.TrimSpace(strings.TrimSuffix(normalized, "unsigned"))

	if mapped, ok := m.typeMap[baseType(normalized)]; ok {
		return mapped
	}

	return TypeString
}

// PostgreSQLTypeMapper handles PostgreSQL type mapping
type PostgreSQLTypeMapper struct {
	typeMap map[string]string
}

// NewPostgreSQLTypeMapper creates a new PostgreSQL type mapper
func NewPostgreSQLTypeMapper() *PostgreSQLTypeMapper {
	return &PostgreSQLTypeMapper{
		typeMap: map[string]string{
			"integer":     TypeInt,
			"int":         TypeInt,
			"int4":        TypeInt,
			"bigint":      TypeInt,
			"int8":        TypeInt,
			"smallint":    TypeInt,
			"int2":        TypeInt,
			"serial":      TypeInt,
			"bigserial":   TypeInt,
			"smallserial": TypeInt,

			"text":              TypeString,
			"varchar":           TypeString,
			"character":         TypeString,
			"character varying": TypeString,
			"char":              TypeString,
			"bpchar":            TypeString,
			"uuid":              TypeString,
			"inet":              TypeString,
			"cidr":              TypeString,
			"interval":          TypeString,

			"numeric":          TypeDecimal,
			"decimal":          TypeDecimal,
			"real":             TypeFloat,
			"float4":           TypeFloat,
			"double":           TypeFloat,
			"double precision": TypeFloat,
			"float8":           TypeFloat,
			"float":            TypeFloat,

			"boolean": TypeBool,
			"bool":    TypeBool,

			"date":        TypeDate,
			"time":        TypeTime,
			"timetz":      TypeTime,
			"timestamp":   TypeDateTime,
			"timestamptz": TypeDateTime,

			"json":  TypeJSON,
			"jsonb": TypeJSON,

			"bytea": TypeBinary,
		},
	}
}

// MapType maps a PostgreSQL type to a portable type
func (m *PostgreSQLTypeMapper) MapType(dbType string) string {
	normalized := strings.ToLower(strings.TrimSpace(dbType))

	if strings.HasSuffix(normalized, "[]") {
		return TypeArray
	}

	if mapped, ok := m.typeMap[baseType(normalized)]; ok {
		return mapped
	}

	return TypeString
}

// SQLiteTypeMapper handles SQLite type mapping
type SQLiteTypeMapper struct {
	typeMap map[string]string
}

// NewSQLiteTypeMapper creates a new SQLite type mapper
func NewSQLiteTypeMapper() *SQLiteTypeMapper {
	return &SQLiteTypeMapper{
		typeMap: map[string]string{
			"integer":  TypeInt,
			"int":      TypeInt,
			"bigint":   TypeInt,
			"smallint": TypeInt,
			"tinyint":  TypeInt,

			"text":      TypeString,
			"varchar":   TypeString,
			"char":      TypeString,
			"character": TypeString,
			"clob":      TypeString,
			"nchar":     TypeString,
			"nvarchar":  TypeString,

			"real":    TypeFloat,
			"double":  TypeFloat,
			"float":   TypeFloat,
			"numeric": TypeDecimal,
			"decimal": TypeDecimal,

			"boolean": TypeBool,
			"bool":    TypeBool,

			"date":      TypeDate,
			"time":      TypeTime,
			"datetime":  TypeDateTime,
			"timestamp": TypeDateTime,

			"blob": TypeBinary,
		},
	}
}

// MapType maps a SQLite type to a portable type
func (m *SQLiteTypeMapper) MapType(dbType string) string {
	normalized := strings.ToLower(strings.TrimSpace(dbType))
	if normalized == "" {
		return TypeString
	}

	base := baseType(normalized)
	if mapped, ok := m.typeMap[base]; ok {
		return mapped
	}

	// Compound spellings such as "unsigned big int"
	for _, word := range strings.Fields(base) {
		if mapped, ok := m.typeMap[word]; ok {
			return mapped
		}
	}

	return TypeString
}
