// Package datatype holds the static catalog of supported column datatypes.
//
// Every entry describes how a datatype constrains its column: which constant
// class its default values belong to, which MySQL modifiers it accepts, and
// whether index keys over it may carry a prefix length.
package datatype

import (
	"sort"
	"strings"
)

// ConstantClass is the category used to normalize default value literals.
type ConstantClass int

const (
	ClassUnknown ConstantClass = iota
	ClassBoolean
	ClassInteger
	ClassFloat
	ClassDecimal
	ClassCharacter
	ClassBinary
)

func (c ConstantClass) String() string {
	switch c {
	case ClassBoolean:
		return "boolean"
	case ClassInteger:
		return "integer"
	case ClassFloat:
		return "float"
	case ClassDecimal:
		return "decimal"
	case ClassCharacter:
		return "character"
	case ClassBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether quoted defaults of this class should be unquoted.
func (c ConstantClass) IsNumeric() bool {
	return c == ClassInteger || c == ClassFloat || c == ClassDecimal
}

// KeyLengthPolicy tells whether an index key over the datatype may specify a prefix length.
type KeyLengthPolicy int

const (
	KeyLengthDisallowed KeyLengthPolicy = iota
	KeyLengthOptional
	KeyLengthRequired
)

func (p KeyLengthPolicy) String() string {
	switch p {
	case KeyLengthOptional:
		return "optional"
	case KeyLengthRequired:
		return "required"
	default:
		return "disallowed"
	}
}

// Spec describes a single datatype. Values are never mutated after package initialization.
type Spec struct {
	Name           string
	Class          ConstantClass
	AutoIncrement  bool // AUTO_INCREMENT allowed
	BinaryModifier bool // BINARY attribute allowed
	Unsigned       bool // UNSIGNED allowed
	Zerofill       bool // ZEROFILL allowed
	KeyLength      KeyLengthPolicy
	SizeArity      int // number of (length[,scale]) arguments accepted
	// Maximum display widths for integer types, signed and unsigned.
	SignedWidth   int
	UnsignedWidth int
}

// AllowsKeyLength reports whether index keys over this type may specify a prefix length.
func (s Spec) AllowsKeyLength() bool {
	return s.KeyLength != KeyLengthDisallowed
}

var catalog = map[string]Spec{
	"BOOLEAN":   {Class: ClassBoolean},
	"TINYINT":   {Class: ClassInteger, AutoIncrement: true, Unsigned: true, Zerofill: true, SizeArity: 1, SignedWidth: 4, UnsignedWidth: 4},
	"SMALLINT":  {Class: ClassInteger, AutoIncrement: true, Unsigned: true, Zerofill: true, SizeArity: 1, SignedWidth: 6, UnsignedWidth: 6},
	"MEDIUMINT": {Class: ClassInteger, AutoIncrement: true, Unsigned: true, Zerofill: true, SizeArity: 1, SignedWidth: 8, UnsignedWidth: 9},
	"INTEGER":   {Class: ClassInteger, AutoIncrement: true, Unsigned: true, Zerofill: true, SizeArity: 1, SignedWidth: 11, UnsignedWidth: 11},
	"INT":       {Class: ClassInteger, AutoIncrement: true, Unsigned: true, Zerofill: true, SizeArity: 1, SignedWidth: 11, UnsignedWidth: 11},
	"SERIAL":    {Class: ClassInteger, AutoIncrement: true, Unsigned: true, Zerofill: true, SizeArity: 1, SignedWidth: 11, UnsignedWidth: 11},
	"BIGINT":    {Class: ClassInteger, AutoIncrement: true, Unsigned: true, Zerofill: true, SizeArity: 1, SignedWidth: 20, UnsignedWidth: 21},

	"FLOAT":            {Class: ClassFloat, Unsigned: true, Zerofill: true, SizeArity: 2},
	"DOUBLE PRECISION": {Class: ClassFloat, Unsigned: true, Zerofill: true, SizeArity: 2},
	"DECIMAL":          {Class: ClassDecimal, Unsigned: true, Zerofill: true, SizeArity: 2},
	"NUMERIC":          {Class: ClassDecimal, Unsigned: true, Zerofill: true, SizeArity: 2},

	"CHAR":      {Class: ClassCharacter, BinaryModifier: true, KeyLength: KeyLengthOptional, SizeArity: 1},
	"VARCHAR":   {Class: ClassCharacter, BinaryModifier: true, KeyLength: KeyLengthOptional, SizeArity: 1},
	"BINARY":    {Class: ClassBinary, KeyLength: KeyLengthOptional, SizeArity: 1},
	"VARBINARY": {Class: ClassBinary, KeyLength: KeyLengthOptional, SizeArity: 1},

	"TINYTEXT":   {Class: ClassCharacter, KeyLength: KeyLengthRequired},
	"TEXT":       {Class: ClassCharacter, KeyLength: KeyLengthRequired},
	"MEDIUMTEXT": {Class: ClassCharacter, KeyLength: KeyLengthRequired},
	"LONGTEXT":   {Class: ClassCharacter, KeyLength: KeyLengthRequired},
	"TINYBLOB":   {Class: ClassBinary, KeyLength: KeyLengthRequired},
	"BLOB":       {Class: ClassBinary, KeyLength: KeyLengthRequired},
	"MEDIUMBLOB": {Class: ClassBinary, KeyLength: KeyLengthRequired},
	"LONGBLOB":   {Class: ClassBinary, KeyLength: KeyLengthRequired},

	// Temporal and enumerated types share the integer constant class with MySQL's legacy behaviour.
	"ENUM":      {Class: ClassInteger, Zerofill: true},
	"DATETIME":  {Class: ClassInteger, Zerofill: true},
	"DATE":      {Class: ClassInteger, Zerofill: true},
	"TIMESTAMP": {Class: ClassInteger, Zerofill: true},
}

// aliases maps canonicalized spellings produced by the column reflector back to catalog names.
var aliases = map[string]string{
	"DOUBLE": "DOUBLE PRECISION",
}

func init() {
	for name, spec := range catalog {
		spec.Name = name
		catalog[name] = spec
	}
}

// Lookup returns the spec registered under the exact upper-cased name.
func Lookup(name string) (Spec, bool) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	spec, ok := catalog[name]

	return spec, ok
}

// LookupFold is Lookup after upper-casing and trimming the name.
func LookupFold(name string) (Spec, bool) {
	return Lookup(strings.ToUpper(strings.TrimSpace(name)))
}

// ClassOf returns the constant class of the datatype or ClassUnknown.
func ClassOf(name string) ConstantClass {
	spec, ok := Lookup(name)
	if !ok {
		return ClassUnknown
	}

	return spec.Class
}

// Names returns all catalog names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
