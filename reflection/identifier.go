package reflection

import "strings"

const maxIdentifierLength = 30

// SafeIdentifier shortens identifier so that identifier+suffix fits in 30 characters.
// Underscores are removed from the right first, keeping the first one, then the
// identifier is truncated.
func SafeIdentifier(identifier, suffix string) string {
	maxLength := max(maxIdentifierLength-len(suffix), 0)

	for len(identifier) > maxLength {
		first := strings.IndexByte(identifier, '_')
		last := strings.LastIndexByte(identifier, '_')

		if first < 0 || first == last {
			break
		}

		identifier = identifier[:last] + identifier[last+1:]
	}

	if len(identifier) > maxLength {
		identifier = identifier[:maxLength]
	}

	return identifier + suffix
}
