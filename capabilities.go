package ddlreflect

import "fmt"

// Feature represents DB-specific DDL feature flags
type Feature int

const (
	FeatureUnsigned          Feature = iota + 1 // UNSIGNED numeric columns
	FeatureZerofill                             // ZEROFILL display padding
	FeatureAutoIncrement                        // AUTO_INCREMENT spelling
	FeatureEnum                                 // inline ENUM(...) column types
	FeatureIndexPrefixLength                    // KEY (col(n))
	FeatureTableOptions                         // ENGINE=..., CHARSET=... after the body
)

func (f Feature) String() string {
	switch f {
	case FeatureUnsigned:
		return "UNSIGNED"
	case FeatureZerofill:
		return "ZEROFILL"
	case FeatureAutoIncrement:
		return "AUTO_INCREMENT"
	case FeatureEnum:
		return "ENUM"
	case FeatureIndexPrefixLength:
		return "index prefix length"
	case FeatureTableOptions:
		return "table options"
	default:
		return fmt.Sprintf("Feature(%d)", int(f))
	}
}

// Capabilities defines which DDL features are accepted by each dialect
var Capabilities = map[Dialect]map[Feature]bool{
	DialectMySQL: {
		FeatureUnsigned:          true,
		FeatureZerofill:          true,
		FeatureAutoIncrement:     true,
		FeatureEnum:              true,
		FeatureIndexPrefixLength: true,
		FeatureTableOptions:      true,
	},
	DialectMariaDB: {
		FeatureUnsigned:          true,
		FeatureZerofill:          true,
		FeatureAutoIncrement:     true,
		FeatureEnum:              true,
		FeatureIndexPrefixLength: true,
		FeatureTableOptions:      true,
	},
	DialectPostgres: {},
	DialectSQLite: {
		// type names are free-form, so INT UNSIGNED is accepted as an INTEGER affinity
		FeatureUnsigned:     true,
		FeatureTableOptions: true,
	},
}

// Supports reports whether the dialect accepts the feature.
func (d Dialect) Supports(feature Feature) bool {
	return Capabilities[d][feature]
}

// CheckDialect reports reflected attributes the dialect cannot express.
// The returned errors wrap ErrDialectFeature.
func (t *Table) CheckDialect(dialect Dialect) []error {
	var errs []error

	unsupported := func(feature Feature, format string, args ...any) {
		if !dialect.Supports(feature) {
			errs = append(errs, fmt.Errorf("%w: %s %s in %s", ErrDialectFeature, feature, fmt.Sprintf(format, args...), dialect))
		}
	}

	for _, col := range t.ColumnList() {
		if col.Unsigned {
			unsupported(FeatureUnsigned, "on column '%s'", col.Name)
		}

		if col.Zerofill {
			unsupported(FeatureZerofill, "on column '%s'", col.Name)
		}

		if col.AutoIncrement {
			unsupported(FeatureAutoIncrement, "on column '%s'", col.Name)
		}

		if col.Datatype == "ENUM" {
			unsupported(FeatureEnum, "on column '%s'", col.Name)
		}
	}

	for _, idx := range t.IndexList() {
		for _, key := range idx.Keys {
			if key.Length != nil {
				unsupported(FeatureIndexPrefixLength, "on index '%s' key '%s'", idx.Name, key.Name)
			}
		}
	}

	if len(t.Options) > 0 {
		unsupported(FeatureTableOptions, "on table '%s'", t.QualifiedName())
	}

	return errs
}
