package ddlreflect

import "strings"

// Dialect represents the SQL dialect used to interpret reflected datatypes.
// The reflection itself is dialect independent; downstream mapping is not.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
	DialectMariaDB  Dialect = "mariadb"
)

// ParseDialect normalizes common spellings of a dialect name.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql":
		return DialectMySQL, nil
	case "mariadb":
		return DialectMariaDB, nil
	case "postgres", "postgresql", "pgsql":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", ErrUnsupportedDialect
	}
}
