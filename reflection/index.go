package reflection

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shibukawa/ddlreflect"
	"github.com/shibukawa/ddlreflect/lexer"
)

var (
	// Alternatives are tried left to right, so longer phrases come first.
	indexKeyword = regexp.MustCompile(`(?i)^(?:CONSTRAINT ([^ (]+) )?(PRIMARY KEY|KEY|FOREIGN KEY|UNIQUE INDEX|UNIQUE KEY|INDEX|UNIQUE|EXCLUDE)\b`)
	prefixLength = regexp.MustCompile(`^(.+)\((\d+)\)$`)
)

// ParseIndex reflects one index definition of a normalized CREATE TABLE body.
//
// Fragments that do not start with an index keyword are NotRecognized. A fragment that
// starts with one but does not have the shape <keyword>[ name](<keys>) is Failed with
// ErrMalformedIndex. Text after the key list is accepted only for FOREIGN KEY and EXCLUDE.
func ParseIndex(tokens *lexer.ConstantTokens, fragment string) IndexResult {
	match := indexKeyword.FindStringSubmatchIndex(fragment)
	if match == nil {
		return IndexResult{Outcome: NotRecognized}
	}

	phrase := strings.ToUpper(fragment[match[4]:match[5]])
	source := tokens.RestoreAll(fragment)

	malformed := func(reason string) IndexResult {
		return IndexResult{
			Outcome: Failed,
			Err:     fmt.Errorf("%w: %s in %q", ddlreflect.ErrMalformedIndex, reason, source),
		}
	}

	rest := fragment[match[1]:]

	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return malformed("missing key list")
	}

	name := strings.TrimSpace(rest[:open])
	if strings.Contains(name, " ") {
		return malformed("unexpected words before key list")
	}

	closing := lexer.MatchingParen(rest, open)
	if closing < 0 {
		return malformed("unbalanced key list")
	}

	trailing := strings.TrimSpace(rest[closing+1:])
	if trailing != "" && phrase != "FOREIGN KEY" && phrase != "EXCLUDE" {
		return malformed("unexpected text after key list")
	}

	idx := &ddlreflect.Index{
		Kind:     indexKind(phrase),
		Trailing: tokens.RestoreAll(trailing),
		SQL:      source,
	}

	if match[2] >= 0 {
		idx.Constraint = tokens.RestoreIdentifier(fragment[match[2]:match[3]])
	}

	for _, element := range lexer.SplitElements(rest[open+1 : closing]) {
		key, ok := parseIndexKey(tokens, element, idx.Kind)
		if !ok {
			return malformed("empty key")
		}

		idx.Keys = append(idx.Keys, key)
	}

	if name != "" {
		idx.Name = tokens.RestoreIdentifier(name)
	} else {
		idx.Name = strings.Join(idx.KeyNames(), "_")
	}

	return IndexResult{Outcome: Parsed, Index: idx}
}

func indexKind(phrase string) ddlreflect.IndexKind {
	switch {
	case strings.Contains(phrase, "PRIMARY"):
		return ddlreflect.IndexPrimary
	case strings.Contains(phrase, "UNIQUE"):
		return ddlreflect.IndexUnique
	default:
		return ddlreflect.IndexPlain
	}
}

// parseIndexKey reads "name", "name ASC|DESC" or, outside primary keys, "name(length)".
func parseIndexKey(tokens *lexer.ConstantTokens, element string, kind ddlreflect.IndexKind) (ddlreflect.IndexKey, bool) {
	key := ddlreflect.IndexKey{Name: element, Order: ddlreflect.Asc}

	if name, order, found := strings.Cut(element, " "); found {
		switch strings.ToUpper(order) {
		case "ASC":
			key.Name = name
		case "DESC":
			key.Name = name
			key.Order = ddlreflect.Desc
		}
	}

	if kind != ddlreflect.IndexPrimary {
		if m := prefixLength.FindStringSubmatch(key.Name); m != nil {
			if length, err := strconv.Atoi(m[2]); err == nil && length > 0 {
				key.Name = m[1]
				key.Length = &length
			}
		}
	}

	key.Name = tokens.RestoreIdentifier(key.Name)

	return key, key.Name != ""
}
