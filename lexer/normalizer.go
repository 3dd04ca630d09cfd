// Package lexer prepares raw DDL text for reflection.
//
// Quoted string constants are replaced by ___<n>___ placeholders so that the
// later stages can split on spaces, commas and semicolons without tracking
// quote state. The placeholder map lives in a caller-owned ConstantTokens.
package lexer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shibukawa/ddlreflect"
)

var (
	lineBreaks         = regexp.MustCompile(`\r?\n|\r`)
	blockComments      = regexp.MustCompile(`(?s)/\*.*?\*/`)
	whiteSpaces        = regexp.MustCompile(`\s+`)
	spaceBeforePunct   = regexp.MustCompile(` *([(),;])`)
	spaceAfterPunct    = regexp.MustCompile(`([(,;]) *`)
	closingParenBefore = regexp.MustCompile(`(\))([a-zA-Z0-9_])`)
)

// scanner walks one input string rune by rune
type scanner struct {
	input    []rune
	position int
	current  rune
	tokens   *ConstantTokens
}

func (s *scanner) readChar() {
	if s.position >= len(s.input) {
		s.current = 0
		s.position++
		return
	}

	s.current = s.input[s.position]
	s.position++
}

func (s *scanner) peekChar() rune {
	if s.position >= len(s.input) {
		return 0
	}

	return s.input[s.position]
}

func (s *scanner) eof() bool {
	return s.position > len(s.input)
}

// ExtractConstants replaces every quoted string constant of input with a placeholder
// registered in tokens and returns the trimmed result.
//
// Outside quotes, '#' or '--' ends the scan: the rest of input is discarded.
// Inside quotes a backslash escapes the following character and a doubled
// delimiter stands for itself; both are kept verbatim in the stored literal.
// A /* */ comment is copied without quote interpretation and may stay open
// across calls sharing the same tokens.
func ExtractConstants(tokens *ConstantTokens, input string) (string, error) {
	if tokens == nil {
		tokens = NewConstantTokens()
	}

	s := &scanner{input: []rune(input), tokens: tokens}
	s.readChar()

	var output strings.Builder

	for !s.eof() {
		if tokens.inBlockComment {
			s.copyComment(&output)
			continue
		}

		switch {
		case s.current == '\'' || s.current == '"':
			literal, err := s.readLiteral(s.current)
			if err != nil {
				return "", fmt.Errorf("%w in %q", err, input)
			}

			output.WriteString(tokens.add(literal))
		case s.current == '#', s.current == '-' && s.peekChar() == '-':
			return strings.TrimSpace(output.String()), nil
		case s.current == '/' && s.peekChar() == '*':
			output.WriteString("/*")
			s.readChar()
			s.readChar()

			tokens.inBlockComment = true
		default:
			output.WriteRune(s.current)
			s.readChar()
		}
	}

	return strings.TrimSpace(output.String()), nil
}

// copyComment copies block comment text until the closing */ or the end of input.
func (s *scanner) copyComment(output *strings.Builder) {
	for !s.eof() {
		if s.current == '*' && s.peekChar() == '/' {
			output.WriteString("*/")
			s.readChar()
			s.readChar()

			s.tokens.inBlockComment = false

			return
		}

		output.WriteRune(s.current)
		s.readChar()
	}
}

// readLiteral reads a quoted constant including both delimiters.
func (s *scanner) readLiteral(delimiter rune) (string, error) {
	var builder strings.Builder

	builder.WriteRune(delimiter)
	s.readChar()

	for !s.eof() {
		switch {
		case s.current == '\\':
			builder.WriteRune(s.current)
			s.readChar()

			if !s.eof() {
				builder.WriteRune(s.current)
				s.readChar()
			}
		case s.current == delimiter && s.peekChar() == delimiter:
			builder.WriteRune(delimiter)
			builder.WriteRune(delimiter)
			s.readChar()
			s.readChar()
		case s.current == delimiter:
			builder.WriteRune(delimiter)
			s.readChar()

			return builder.String(), nil
		default:
			builder.WriteRune(s.current)
			s.readChar()
		}
	}

	return "", fmt.Errorf("%w: %c", ddlreflect.ErrUnterminatedLiteral, delimiter)
}

// StripBlockComments removes /* ... */ comments (non-greedy, spanning lines).
func StripBlockComments(sql string) string {
	return blockComments.ReplaceAllString(sql, "")
}

// NormalizeSyntax collapses whitespace, drops backtick quoting and normalizes
// spacing around parentheses, commas and semicolons.
func NormalizeSyntax(sql string) string {
	sql = whiteSpaces.ReplaceAllString(sql, " ")
	sql = strings.ReplaceAll(sql, "`", "")
	sql = spaceBeforePunct.ReplaceAllString(sql, "$1")
	sql = spaceAfterPunct.ReplaceAllString(sql, "$1")
	sql = closingParenBefore.ReplaceAllString(sql, "$1 $2")

	return sql
}

// Normalize runs the full lexical pipeline over script and returns one
// constant-tokenized, comment free line.
//
// Lines are tokenized one by one, so a line comment never hides the rest of
// the script and a '--' inside a literal is not mistaken for a comment.
// A string literal may therefore not span lines.
func Normalize(tokens *ConstantTokens, script string) (string, error) {
	if tokens == nil {
		tokens = NewConstantTokens()
	}

	lines := lineBreaks.Split(script, -1)
	parts := make([]string, 0, len(lines))

	for _, line := range lines {
		line, err := ExtractConstants(tokens, line)
		if err != nil {
			return "", err
		}

		if line != "" {
			parts = append(parts, line)
		}
	}

	sql := strings.Join(parts, " ")
	sql = StripBlockComments(sql)
	sql = NormalizeSyntax(sql)

	return strings.TrimSpace(sql), nil
}

// SplitStatements normalizes script and splits it into statements.
// Statements still contain placeholders; restore them through tokens.
func SplitStatements(tokens *ConstantTokens, script string) ([]string, error) {
	sql, err := Normalize(tokens, script)
	if err != nil {
		return nil, err
	}

	sql = strings.TrimSuffix(sql, ";")

	statements := make([]string, 0, 4)

	for _, statement := range strings.Split(sql, ";") {
		statement = strings.TrimSpace(statement)
		if statement != "" {
			statements = append(statements, statement)
		}
	}

	return statements, nil
}
