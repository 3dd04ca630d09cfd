package ddlreflect

import (
	"fmt"

	"github.com/shibukawa/ddlreflect/datatype"
)

// IndexKind classifies an index definition.
type IndexKind string

const (
	IndexPrimary IndexKind = "PRIMARY"
	IndexUnique  IndexKind = "UNIQUE"
	IndexPlain   IndexKind = "INDEX"
)

// SortOrder is the order of a single index key.
type SortOrder string

const (
	Asc  SortOrder = "ASC"
	Desc SortOrder = "DESC"
)

// Column is a reflected column definition
type Column struct {
	Name     string `json:"name" yaml:"name"`         // Column name
	Datatype string `json:"datatype" yaml:"datatype"` // Upper-cased base type name, without arguments
	Length   *int   `json:"length,omitempty" yaml:"length,omitempty"`
	Scale    *int   `json:"scale,omitempty" yaml:"scale,omitempty"`
	Nullable bool   `json:"nullable" yaml:"nullable"`
	// Default is nil when no default was declared or when DEFAULT NULL was used.
	Default          *string  `json:"default,omitempty" yaml:"default,omitempty"`
	AutoIncrement    bool     `json:"autoIncrement,omitempty" yaml:"autoIncrement,omitempty"`
	Unsigned         bool     `json:"unsigned,omitempty" yaml:"unsigned,omitempty"`
	Zerofill         bool     `json:"zerofill,omitempty" yaml:"zerofill,omitempty"`
	Binary           bool     `json:"binary,omitempty" yaml:"binary,omitempty"`
	Constraint       string   `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	ForeignKey       string   `json:"foreignKey,omitempty" yaml:"foreignKey,omitempty"`
	TableReference   string   `json:"tableReference,omitempty" yaml:"tableReference,omitempty"`
	ColumnReferences []string `json:"columnReferences,omitempty" yaml:"columnReferences,omitempty"`
	OnDelete         string   `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
	OnUpdate         string   `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty"`
	Comment          string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	EnumValues       []string `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
	// Attributes keeps words the reflector did not interpret (e.g. PRIMARY KEY written inline).
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	SQL        string   `json:"-" yaml:"-"`
}

// HasDefault reports whether a default value was declared.
func (c *Column) HasDefault() bool {
	return c.Default != nil
}

// DefaultValue returns the normalized default or an empty string.
func (c *Column) DefaultValue() string {
	if c.Default == nil {
		return ""
	}

	return *c.Default
}

// Spec returns the catalog entry for the column datatype.
func (c *Column) Spec() (datatype.Spec, bool) {
	return datatype.Lookup(c.Datatype)
}

// TypeString renders the datatype with its arguments, e.g. DECIMAL(10,2).
func (c *Column) TypeString() string {
	switch {
	case c.Length != nil && c.Scale != nil:
		return fmt.Sprintf("%s(%d,%d)", c.Datatype, *c.Length, *c.Scale)
	case c.Length != nil:
		return fmt.Sprintf("%s(%d)", c.Datatype, *c.Length)
	default:
		return c.Datatype
	}
}

// IndexKey is one ordered key of an index
type IndexKey struct {
	Name   string    `json:"name" yaml:"name"`
	Length *int      `json:"length,omitempty" yaml:"length,omitempty"` // Prefix length
	Order  SortOrder `json:"order" yaml:"order"`
}

// Index is a reflected PRIMARY KEY, UNIQUE or plain index definition
type Index struct {
	Name string     `json:"name" yaml:"name"`
	Kind IndexKind  `json:"kind" yaml:"kind"`
	Keys []IndexKey `json:"keys" yaml:"keys"`
	// Constraint is the name given by a leading CONSTRAINT clause, kept as an opaque attribute.
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	// Trailing holds the text after the key list of FOREIGN KEY / EXCLUDE definitions.
	Trailing string `json:"trailing,omitempty" yaml:"trailing,omitempty"`
	SQL      string `json:"-" yaml:"-"`
}

// KeyNames returns the column names of the keys in index order.
func (i *Index) KeyNames() []string {
	names := make([]string, len(i.Keys))
	for n, key := range i.Keys {
		names[n] = key.Name
	}

	return names
}

// IsUnique reports whether the index enforces uniqueness.
func (i *Index) IsUnique() bool {
	return i.Kind == IndexPrimary || i.Kind == IndexUnique
}

// SkippedFragment records a body element that produced neither an index nor a column.
type SkippedFragment struct {
	Fragment string `json:"fragment" yaml:"fragment"`
	Reason   string `json:"reason" yaml:"reason"`
}

// Table is the reflected description of one CREATE TABLE statement.
// Columns and indexes keep their declaration order; redefinitions overwrite in place.
type Table struct {
	Name        string            `json:"name" yaml:"name"`
	Schema      string            `json:"schema,omitempty" yaml:"schema,omitempty"`
	Options     map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
	SQL         string            `json:"sql" yaml:"sql"`
	Fingerprint string            `json:"fingerprint" yaml:"fingerprint"`
	Skipped     []SkippedFragment `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	columns     map[string]*Column
	columnOrder []string
	indexes     map[string]*Index
	indexOrder  []string
}

// NewTable creates an empty table.
func NewTable(name, schema string) *Table {
	return &Table{
		Name:    name,
		Schema:  schema,
		columns: make(map[string]*Column),
		indexes: make(map[string]*Index),
	}
}

// QualifiedName returns schema.name or name.
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}

	return t.Schema + "." + t.Name
}

// AddColumn stores the column under its name. A later column with the same name replaces
// the earlier definition but keeps its position.
func (t *Table) AddColumn(col *Column) {
	if t.columns == nil {
		t.columns = make(map[string]*Column)
	}

	if _, exists := t.columns[col.Name]; !exists {
		t.columnOrder = append(t.columnOrder, col.Name)
	}

	t.columns[col.Name] = col
}

// AddIndex stores the index under its name with the same overwrite rule as AddColumn.
func (t *Table) AddIndex(idx *Index) {
	if t.indexes == nil {
		t.indexes = make(map[string]*Index)
	}

	if _, exists := t.indexes[idx.Name]; !exists {
		t.indexOrder = append(t.indexOrder, idx.Name)
	}

	t.indexes[idx.Name] = idx
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	col, ok := t.columns[name]
	return col, ok
}

// ColumnList returns columns in declaration order.
func (t *Table) ColumnList() []*Column {
	result := make([]*Column, 0, len(t.columnOrder))
	for _, name := range t.columnOrder {
		result = append(result, t.columns[name])
	}

	return result
}

// ColumnNames returns column names in declaration order.
func (t *Table) ColumnNames() []string {
	return append([]string(nil), t.columnOrder...)
}

// Index returns the index with the given name.
func (t *Table) Index(name string) (*Index, bool) {
	idx, ok := t.indexes[name]
	return idx, ok
}

// IndexList returns indexes in declaration order.
func (t *Table) IndexList() []*Index {
	result := make([]*Index, 0, len(t.indexOrder))
	for _, name := range t.indexOrder {
		result = append(result, t.indexes[name])
	}

	return result
}

// PrimaryKey returns the first PRIMARY index, if any.
func (t *Table) PrimaryKey() (*Index, bool) {
	for _, idx := range t.IndexList() {
		if idx.Kind == IndexPrimary {
			return idx, true
		}
	}

	return nil, false
}

// IsPrimaryKeyColumn reports whether the column takes part in the primary key.
func (t *Table) IsPrimaryKeyColumn(name string) bool {
	pk, ok := t.PrimaryKey()
	if !ok {
		return false
	}

	for _, key := range pk.Keys {
		if key.Name == name {
			return true
		}
	}

	return false
}

// Validate cross-checks indexes and columns against the datatype catalog.
// The returned errors wrap ErrUnknownIndexColumn, ErrKeyLengthPolicy or ErrAttributeNotAllowed.
func (t *Table) Validate() []error {
	var errs []error

	for _, col := range t.ColumnList() {
		spec, known := col.Spec()
		if !known {
			continue
		}

		if col.AutoIncrement && !spec.AutoIncrement {
			errs = append(errs, fmt.Errorf("%w: AUTO_INCREMENT on %s column '%s'", ErrAttributeNotAllowed, col.Datatype, col.Name))
		}

		if col.Binary && !spec.BinaryModifier {
			errs = append(errs, fmt.Errorf("%w: BINARY on %s column '%s'", ErrAttributeNotAllowed, col.Datatype, col.Name))
		}

		if col.Unsigned && !col.Zerofill && !spec.Unsigned {
			errs = append(errs, fmt.Errorf("%w: UNSIGNED on %s column '%s'", ErrAttributeNotAllowed, col.Datatype, col.Name))
		}

		if col.Zerofill && !spec.Zerofill {
			errs = append(errs, fmt.Errorf("%w: ZEROFILL on %s column '%s'", ErrAttributeNotAllowed, col.Datatype, col.Name))
		}
	}

	for _, idx := range t.IndexList() {
		for _, key := range idx.Keys {
			col, ok := t.columns[key.Name]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: index '%s' key '%s'", ErrUnknownIndexColumn, idx.Name, key.Name))
				continue
			}

			spec, known := col.Spec()
			if !known {
				continue
			}

			switch {
			case key.Length != nil && !spec.AllowsKeyLength():
				errs = append(errs, fmt.Errorf("%w: index '%s' key '%s' (%s)", ErrKeyLengthPolicy, idx.Name, key.Name, col.Datatype))
			case key.Length == nil && spec.KeyLength == datatype.KeyLengthRequired && idx.Kind != IndexPrimary:
				errs = append(errs, fmt.Errorf("%w: index '%s' key '%s' requires a prefix length (%s)", ErrKeyLengthPolicy, idx.Name, key.Name, col.Datatype))
			}
		}
	}

	return errs
}

// String renders a short human readable summary.
func (t *Table) String() string {
	return fmt.Sprintf("%s (%d columns, %d indexes)", t.QualifiedName(), len(t.columnOrder), len(t.indexOrder))
}
