package reflection

import (
	"fmt"
	"strings"

	"github.com/shibukawa/ddlreflect"
)

// ScanMode controls how table body elements are visited after an index was found.
type ScanMode int

const (
	// ScanStopAtFirstIndex stops visiting body elements once the first index is recorded.
	// Columns declared after that index are reported in Table.Skipped.
	ScanStopAtFirstIndex ScanMode = iota
	// ScanAll visits every body element.
	ScanAll
)

func (m ScanMode) String() string {
	if m == ScanAll {
		return "all"
	}

	return "stop-at-first-index"
}

// ParseScanMode converts a configuration value into a ScanMode.
// An empty string selects ScanStopAtFirstIndex.
func ParseScanMode(value string) (ScanMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "stop-at-first-index", "first-index":
		return ScanStopAtFirstIndex, nil
	case "all":
		return ScanAll, nil
	default:
		return ScanStopAtFirstIndex, fmt.Errorf("%w: unknown scan mode %q", ddlreflect.ErrConfigValidation, value)
	}
}

// Options configures a Reflector.
type Options struct {
	ScanMode ScanMode
	// Verbose toggles per-element trace output.
	Verbose bool
	// Logger, when non-nil, receives verbose trace output.
	Logger func(format string, args ...any)
}

func (o Options) logf(format string, args ...any) {
	if !o.Verbose || o.Logger == nil {
		return
	}

	o.Logger(format, args...)
}
