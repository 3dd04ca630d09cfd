package lexer

import "strings"

// SplitElements splits a comma separated list whose enclosing parentheses were
// already removed. Commas nested inside parentheses do not split, so
// "a,b(c,d),e" yields ["a", "b(c,d)", "e"]. The last element is always emitted,
// even when empty.
//
// The list must not contain quoted literals; run it through ExtractConstants first.
func SplitElements(list string) []string {
	elements := make([]string, 0, 8)
	depth := 0

	var element strings.Builder

	for _, char := range list {
		switch {
		case char == ',' && depth == 0:
			elements = append(elements, strings.TrimSpace(element.String()))
			element.Reset()
		case char == '(':
			depth++
			element.WriteRune(char)
		case char == ')':
			if depth > 0 {
				depth--
			}

			element.WriteRune(char)
		default:
			element.WriteRune(char)
		}
	}

	return append(elements, strings.TrimSpace(element.String()))
}

// MatchingParen returns the index of the parenthesis closing the one at open,
// or -1 when s[open] is not '(' or the parenthesis is never closed.
func MatchingParen(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '(' {
		return -1
	}

	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
