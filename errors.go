package ddlreflect

import "errors"

// Common errors used throughout the ddlreflect packages
var (
	// Lexer errors

	// ErrUnterminatedLiteral indicates a quoted string constant was not closed before the end of input.
	ErrUnterminatedLiteral = errors.New("unterminated string literal")

	// Reflection errors

	// ErrMalformedIndex indicates an index keyword was detected but the definition shape was invalid.
	ErrMalformedIndex = errors.New("malformed index definition")
	// ErrMalformedColumn indicates a column fragment lacked a name or a datatype.
	ErrMalformedColumn = errors.New("malformed column definition")
	// ErrNoCreateTableFound indicates no statement matched the CREATE TABLE shape.
	ErrNoCreateTableFound = errors.New("no CREATE TABLE statement found")

	// Consistency errors

	// ErrUnknownIndexColumn indicates an index key references a column the table does not define.
	ErrUnknownIndexColumn = errors.New("index key references unknown column")
	// ErrKeyLengthPolicy indicates an index key prefix length violates the datatype key length policy.
	ErrKeyLengthPolicy = errors.New("index key length not allowed for datatype")
	// ErrAttributeNotAllowed indicates a column attribute is not supported by its datatype.
	ErrAttributeNotAllowed = errors.New("attribute not allowed for datatype")
	// ErrDialectFeature indicates a reflected attribute the target dialect cannot express.
	ErrDialectFeature = errors.New("feature not supported by dialect")

	// Configuration and output errors

	ErrConfigValidation   = errors.New("configuration validation failed")
	ErrUnsupportedFormat  = errors.New("unsupported output format")
	ErrUnsupportedDialect = errors.New("unsupported dialect")
)
