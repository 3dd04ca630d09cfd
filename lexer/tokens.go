package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`___\d+___`)

// ConstantTokens maps placeholders to the quoted literals they replaced.
// One value is owned by a single reflection run and must not be shared between
// unrelated inputs; it is not safe for concurrent use.
type ConstantTokens struct {
	count    int
	literals map[string]string

	// set while a /* ... */ comment is still open at the end of a scanned line
	inBlockComment bool
}

// NewConstantTokens creates an empty token context.
func NewConstantTokens() *ConstantTokens {
	return &ConstantTokens{
		literals: make(map[string]string),
	}
}

// add stores literal (delimiters included) under a fresh placeholder.
func (c *ConstantTokens) add(literal string) string {
	if c.literals == nil {
		c.literals = make(map[string]string)
	}

	token := fmt.Sprintf("___%d___", c.count)
	c.count++
	c.literals[token] = literal

	return token
}

// Lookup returns the literal stored for token.
func (c *ConstantTokens) Lookup(token string) (string, bool) {
	if c == nil {
		return "", false
	}

	literal, ok := c.literals[token]

	return literal, ok
}

// Restore returns the literal for a placeholder word, or the word itself.
func (c *ConstantTokens) Restore(word string) string {
	if literal, ok := c.Lookup(word); ok {
		return literal
	}

	return word
}

// RestoreAll replaces every known placeholder inside text.
func (c *ConstantTokens) RestoreAll(text string) string {
	if c == nil || len(c.literals) == 0 {
		return text
	}

	return placeholderPattern.ReplaceAllStringFunc(text, c.Restore)
}

// RestoreIdentifier restores a placeholder and strips double-quote identifier delimiters.
// Single-quoted literals are returned unchanged because they are not identifiers.
func (c *ConstantTokens) RestoreIdentifier(word string) string {
	restored := c.Restore(word)
	if len(restored) >= 2 && restored[0] == '"' && restored[len(restored)-1] == '"' {
		return strings.ReplaceAll(restored[1:len(restored)-1], `""`, `"`)
	}

	return restored
}

// Len returns the number of literals extracted so far.
func (c *ConstantTokens) Len() int {
	if c == nil {
		return 0
	}

	return len(c.literals)
}

// Literals returns the stored literals in extraction order.
func (c *ConstantTokens) Literals() []string {
	if c == nil {
		return nil
	}

	result := make([]string, 0, len(c.literals))
	for n := range c.count {
		if literal, ok := c.literals[fmt.Sprintf("___%d___", n)]; ok {
			result = append(result, literal)
		}
	}

	return result
}
