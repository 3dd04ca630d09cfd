// Package reflection turns normalized CREATE TABLE statements into ddlreflect.Table values.
//
// Every body element is offered to ParseIndex first and to ParseColumn when it is
// not an index. Index errors abort the statement; column failures are recorded in
// Table.Skipped and reflection goes on.
package reflection

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/shibukawa/ddlreflect"
	"github.com/shibukawa/ddlreflect/lexer"
)

var (
	createTableHeader = regexp.MustCompile(`(?i)^CREATE TABLE (?:IF NOT EXISTS )?(\w[\w\-]*(?:\.\w[\w\-]*)?)(?: (\w+ \w+ \w+))?\(`)
	optionAssign      = regexp.MustCompile(` ?= ?`)
	characterSet      = regexp.MustCompile(`(?i)\bCHARACTER SET\b`)
)

// valuedOptions take the following word as value when written without '='.
var valuedOptions = map[string]bool{
	"CHARSET": true,
	"COLLATE": true,
}

const skippedAfterIndex = "not scanned after the first index"

// Reflector reflects CREATE TABLE statements. It holds no mutable state and is
// safe for concurrent use.
type Reflector struct {
	opts Options
}

// NewReflector creates a Reflector. Without options it stops scanning a table body
// at the first index.
func NewReflector(opts ...Options) *Reflector {
	r := &Reflector{}
	if len(opts) > 0 {
		r.opts = opts[0]
	}

	return r
}

// ReflectTable reflects the first CREATE TABLE statement of script with default options.
func ReflectTable(script string) (*ddlreflect.Table, error) {
	return NewReflector().Reflect(script)
}

// Reflect returns the first CREATE TABLE statement of script.
// Other statements are skipped. ErrNoCreateTableFound is returned when none matches.
func (r *Reflector) Reflect(script string) (*ddlreflect.Table, error) {
	tokens := lexer.NewConstantTokens()

	statements, err := lexer.SplitStatements(tokens, script)
	if err != nil {
		return nil, err
	}

	for i, statement := range statements {
		result := r.ParseCreateTable(tokens, statement)

		switch result.Outcome {
		case Parsed:
			return result.Table, nil
		case Failed:
			return nil, fmt.Errorf("statement %d: %w", i+1, result.Err)
		case NotRecognized:
			r.opts.logf("statement %d is not a CREATE TABLE", i+1)
		}
	}

	return nil, ddlreflect.ErrNoCreateTableFound
}

// ReflectAll returns every CREATE TABLE statement of script in order.
func (r *Reflector) ReflectAll(script string) ([]*ddlreflect.Table, error) {
	tokens := lexer.NewConstantTokens()

	statements, err := lexer.SplitStatements(tokens, script)
	if err != nil {
		return nil, err
	}

	var tables []*ddlreflect.Table

	for i, statement := range statements {
		result := r.ParseCreateTable(tokens, statement)

		switch result.Outcome {
		case Parsed:
			tables = append(tables, result.Table)
		case Failed:
			return nil, fmt.Errorf("statement %d: %w", i+1, result.Err)
		case NotRecognized:
			r.opts.logf("statement %d is not a CREATE TABLE", i+1)
		}
	}

	if len(tables) == 0 {
		return nil, ddlreflect.ErrNoCreateTableFound
	}

	return tables, nil
}

// ParseCreateTable reflects a single normalized statement whose placeholders are held by tokens.
// Statements without a non-empty parenthesized body are NotRecognized.
func (r *Reflector) ParseCreateTable(tokens *lexer.ConstantTokens, statement string) TableResult {
	match := createTableHeader.FindStringSubmatchIndex(statement)
	if match == nil {
		return TableResult{Outcome: NotRecognized}
	}

	open := match[1] - 1

	closing := lexer.MatchingParen(statement, open)
	if closing < 0 {
		return TableResult{Outcome: NotRecognized}
	}

	body := statement[open+1 : closing]
	if strings.TrimSpace(body) == "" {
		return TableResult{Outcome: NotRecognized}
	}

	schema, name, qualified := strings.Cut(statement[match[2]:match[3]], ".")
	if !qualified {
		schema, name = "", schema
	}

	table := ddlreflect.NewTable(tokens.RestoreIdentifier(name), tokens.RestoreIdentifier(schema))
	table.SQL = tokens.RestoreAll(statement)
	table.Fingerprint = fmt.Sprintf("%016x", xxh3.HashString(table.SQL))
	table.Options = parseTableOptions(tokens, strings.TrimSpace(statement[closing+1:]))

	r.opts.logf("reflecting table %s", table.QualifiedName())

	elements := lexer.SplitElements(body)

	for n, element := range elements {
		idx := ParseIndex(tokens, element)

		switch idx.Outcome {
		case Failed:
			return TableResult{Outcome: Failed, Err: fmt.Errorf("table %s: %w", table.QualifiedName(), idx.Err)}
		case Parsed:
			table.AddIndex(idx.Index)
			r.opts.logf("  index %s (%s)", idx.Index.Name, idx.Index.Kind)

			if r.opts.ScanMode == ScanStopAtFirstIndex {
				for _, remaining := range elements[n+1:] {
					table.Skipped = append(table.Skipped, ddlreflect.SkippedFragment{
						Fragment: tokens.RestoreAll(remaining),
						Reason:   skippedAfterIndex,
					})
				}

				if n+1 < len(elements) {
					r.opts.logf("  stopped at first index, %d element(s) left", len(elements)-n-1)
				}

				return TableResult{Outcome: Parsed, Table: table}
			}

			continue
		case NotRecognized:
		}

		col := ParseColumn(tokens, element)
		if col.Outcome != Parsed {
			table.Skipped = append(table.Skipped, ddlreflect.SkippedFragment{
				Fragment: tokens.RestoreAll(element),
				Reason:   col.Err.Error(),
			})
			r.opts.logf("  skipped %q: %v", element, col.Err)

			continue
		}

		table.AddColumn(col.Column)
		r.opts.logf("  column %s %s", col.Column.Name, col.Column.TypeString())
	}

	return TableResult{Outcome: Parsed, Table: table}
}

// parseTableOptions reads trailing options such as "ENGINE=InnoDB DEFAULT CHARSET=utf8".
// Keys are upper-cased; a leading DEFAULT is ignored.
func parseTableOptions(tokens *lexer.ConstantTokens, trailing string) map[string]string {
	if trailing == "" {
		return nil
	}

	trailing = optionAssign.ReplaceAllString(trailing, "=")
	trailing = characterSet.ReplaceAllString(trailing, "CHARSET")

	words := strings.Fields(trailing)
	options := make(map[string]string, len(words))

	for i := 0; i < len(words); i++ {
		if strings.EqualFold(words[i], "DEFAULT") {
			continue
		}

		key, value, found := strings.Cut(words[i], "=")
		key = strings.ToUpper(key)

		if !found && valuedOptions[key] && i+1 < len(words) {
			i++
			value = words[i]
		}

		options[key] = unquote(tokens.Restore(value))
	}

	if len(options) == 0 {
		return nil
	}

	return options
}
