package reflection

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shibukawa/ddlreflect"
	"github.com/shibukawa/ddlreflect/datatype"
	"github.com/shibukawa/ddlreflect/lexer"
)

// columnPhrases joins multi-word keywords so a definition can be split on spaces.
var columnPhrases = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bNOT NULL\b`), "NOT_NULL"},
	{regexp.MustCompile(`(?i)\bDOUBLE PRECISION\b`), "DOUBLE"},
	{regexp.MustCompile(`(?i)\bON DELETE\b`), "ONDELETE"},
	{regexp.MustCompile(`(?i)\bON UPDATE\b`), "ONUPDATE"},
	{regexp.MustCompile(`(?i)\bSET DEFAULT\b`), "SETDEFAULT"},
	{regexp.MustCompile(`(?i)\bSET NULL\b`), "SETNULL"},
	{regexp.MustCompile(`(?i)\bNO ACTION\b`), "NOACTION"},
	{regexp.MustCompile(`(?i)\bFOREIGN KEY\b`), "FOREIGN_KEY"},
}

// referentialActions maps joined action keywords back to their SQL spelling.
var referentialActions = map[string]string{
	"SETDEFAULT": "SET DEFAULT",
	"SETNULL":    "SET NULL",
	"NOACTION":   "NO ACTION",
}

// valueKeywords consume the word that follows them.
var valueKeywords = map[string]bool{
	"REFERENCES":  true,
	"CONSTRAINT":  true,
	"FOREIGN_KEY": true,
	"ONDELETE":    true,
	"ONUPDATE":    true,
	"DEFAULT":     true,
	"COMMENT":     true,
}

var (
	numericPrefix  = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)
	decimalLiteral = regexp.MustCompile(`^[+-]?((\d+\.\d*)|(\d*\.\d+)|(\d+))$`)
	booleanLiteral = regexp.MustCompile(`(?i)^(true|false)$`)
)

// ParseColumn reflects one column definition of a normalized CREATE TABLE body.
// Placeholders in fragment are restored through tokens.
//
// The result is Failed with ErrMalformedColumn when the fragment lacks a name or a datatype.
// Every other irregularity is coerced on a best-effort basis.
func ParseColumn(tokens *lexer.ConstantTokens, fragment string) ColumnResult {
	definition := fragment
	for _, phrase := range columnPhrases {
		definition = phrase.pattern.ReplaceAllString(definition, phrase.replacement)
	}

	words := strings.Fields(definition)
	if len(words) < 2 {
		return ColumnResult{
			Outcome: Failed,
			Err:     fmt.Errorf("%w: name and datatype required in %q", ddlreflect.ErrMalformedColumn, tokens.RestoreAll(fragment)),
		}
	}

	col := &ddlreflect.Column{
		Name:     tokens.RestoreIdentifier(words[0]),
		Nullable: true,
		SQL:      tokens.RestoreAll(fragment),
	}

	values, rest := collectValues(words[2:])
	applyValues(tokens, col, values)

	flags := make(map[string]bool, len(rest))
	for _, word := range rest {
		flags[strings.ToUpper(word)] = true
	}

	applyFlags(col, flags)

	for _, word := range rest {
		if !isFlag(strings.ToUpper(word)) {
			col.Attributes = append(col.Attributes, tokens.RestoreAll(word))
		}
	}

	parseDatatype(tokens, col, strings.ToUpper(words[1]))
	normalizeDefault(col)

	if col.Zerofill {
		col.Unsigned = true
	}

	return ColumnResult{Outcome: Parsed, Column: col}
}

// collectValues extracts keyword/value pairs. The first occurrence of a keyword wins.
func collectValues(words []string) (map[string]string, []string) {
	values := make(map[string]string)
	rest := make([]string, 0, len(words))

	for i := 0; i < len(words); i++ {
		keyword := strings.ToUpper(words[i])
		if valueKeywords[keyword] && i+1 < len(words) {
			if _, exists := values[keyword]; !exists {
				values[keyword] = words[i+1]
			}

			i++

			continue
		}

		rest = append(rest, words[i])
	}

	return values, rest
}

func applyValues(tokens *lexer.ConstantTokens, col *ddlreflect.Column, values map[string]string) {
	if reference, ok := values["REFERENCES"]; ok {
		table, columns, _ := strings.Cut(reference, "(")
		col.TableReference = tokens.RestoreIdentifier(table)

		columns = strings.TrimSuffix(columns, ")")
		if columns != "" {
			for _, name := range strings.Split(columns, ",") {
				col.ColumnReferences = append(col.ColumnReferences, tokens.RestoreIdentifier(strings.TrimSpace(name)))
			}
		}
	}

	if constraint, ok := values["CONSTRAINT"]; ok {
		col.Constraint = tokens.RestoreIdentifier(constraint)
	}

	if foreignKey, ok := values["FOREIGN_KEY"]; ok {
		col.ForeignKey = tokens.RestoreIdentifier(foreignKey)
	}

	if action, ok := values["ONDELETE"]; ok {
		col.OnDelete = referentialAction(tokens.Restore(action))
	}

	if action, ok := values["ONUPDATE"]; ok {
		col.OnUpdate = referentialAction(tokens.Restore(action))
	}

	if comment, ok := values["COMMENT"]; ok {
		col.Comment = unquote(tokens.Restore(comment))
	}

	if value, ok := values["DEFAULT"]; ok {
		restored := tokens.Restore(value)
		if !strings.EqualFold(restored, "NULL") {
			col.Default = &restored
		}
	}
}

func referentialAction(action string) string {
	if spelled, ok := referentialActions[strings.ToUpper(action)]; ok {
		return spelled
	}

	return action
}

// attributeFlags in processing order; NULL after NOT_NULL so an explicit NULL wins.
var attributeFlags = []string{"AUTO_INCREMENT", "BINARY", "NOT_NULL", "NULL", "UNSIGNED", "ZEROFILL"}

func isFlag(word string) bool {
	for _, flag := range attributeFlags {
		if word == flag {
			return true
		}
	}

	return false
}

func applyFlags(col *ddlreflect.Column, flags map[string]bool) {
	for _, flag := range attributeFlags {
		if !flags[flag] {
			continue
		}

		switch flag {
		case "AUTO_INCREMENT":
			col.AutoIncrement = true
		case "BINARY":
			col.Binary = true
		case "NOT_NULL":
			col.Nullable = false
		case "NULL":
			col.Nullable = true
		case "UNSIGNED":
			col.Unsigned = true
		case "ZEROFILL":
			col.Zerofill = true
		}
	}
}

// parseDatatype splits e.g. DECIMAL(10,2) into the base name and its arguments.
func parseDatatype(tokens *lexer.ConstantTokens, col *ddlreflect.Column, token string) {
	base, args, hasArgs := strings.Cut(token, "(")
	col.Datatype = base

	if !hasArgs {
		return
	}

	args = strings.TrimSuffix(args, ")")

	if base == "ENUM" || base == "SET" {
		for _, value := range lexer.SplitElements(args) {
			if value != "" {
				col.EnumValues = append(col.EnumValues, unquote(tokens.Restore(value)))
			}
		}

		return
	}

	parts := strings.Split(args, ",")

	if length, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
		col.Length = &length
	}

	if len(parts) == 2 {
		if scale, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			col.Scale = &scale
		}
	}
}

// normalizeDefault coerces the default literal to the constant class of the datatype.
func normalizeDefault(col *ddlreflect.Column) {
	if col.Default == nil {
		return
	}

	spec, known := col.Spec()
	if !known {
		return
	}

	value := *col.Default

	if spec.Class.IsNumeric() && isQuoted(value) {
		value = strings.TrimSpace(unquote(value))
		if value == "" {
			value = "0"
		}
	}

	switch spec.Class {
	case datatype.ClassBoolean:
		value = booleanDefault(strings.TrimSpace(unquote(value)))
	case datatype.ClassInteger:
		number := leadingNumber(value)
		if spec.Name == "BIGINT" || (spec.Name == "INTEGER" && col.Unsigned) {
			value = number.Truncate(0).String()
		} else {
			value = strconv.FormatInt(number.IntPart(), 10)
		}
	case datatype.ClassDecimal:
		if !decimalLiteral.MatchString(value) {
			value = leadingNumber(value).String()
		}
	case datatype.ClassFloat:
		value = leadingNumber(value).String()
	case datatype.ClassCharacter, datatype.ClassBinary:
		value = singleQuoted(value)
	}

	col.Default = &value
}

func booleanDefault(value string) string {
	if booleanLiteral.MatchString(value) {
		if strings.EqualFold(value, "true") {
			return "1"
		}

		return "0"
	}

	if numericPrefix.MatchString(value) && leadingNumber(value).IsZero() {
		return "0"
	}

	return "1"
}

// leadingNumber parses the numeric prefix of value; no prefix yields zero.
func leadingNumber(value string) decimal.Decimal {
	prefix := numericPrefix.FindString(strings.TrimSpace(value))
	if prefix == "" {
		return decimal.Zero
	}

	prefix = strings.TrimPrefix(prefix, "+")
	if strings.HasPrefix(prefix, ".") {
		prefix = "0" + prefix
	} else if strings.HasPrefix(prefix, "-.") {
		prefix = "-0" + prefix[1:]
	}

	number, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}

	return number
}

// singleQuoted renders value as a single-quoted SQL string constant.
func singleQuoted(value string) string {
	switch {
	case strings.HasPrefix(value, "'") && isQuoted(value):
		return value
	case strings.HasPrefix(value, `"`) && isQuoted(value):
		inner := value[1 : len(value)-1]
		inner = strings.NewReplacer(`""`, `"`, `\"`, `"`).Replace(inner)

		return "'" + strings.ReplaceAll(inner, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	}
}

func isQuoted(value string) bool {
	if len(value) < 2 {
		return false
	}

	delimiter := value[0]

	return (delimiter == '\'' || delimiter == '"') && value[len(value)-1] == delimiter
}

// unquote strips the delimiters of a quoted literal and collapses doubled delimiters.
func unquote(value string) string {
	if !isQuoted(value) {
		return value
	}

	delimiter := value[:1]

	return strings.ReplaceAll(value[1:len(value)-1], delimiter+delimiter, delimiter)
}
