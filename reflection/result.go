package reflection

import "github.com/shibukawa/ddlreflect"

// Outcome tags the result of a single reflector.
type Outcome int

const (
	// NotRecognized means the fragment is not the kind of definition the reflector handles.
	NotRecognized Outcome = iota
	// Parsed means the fragment was reflected successfully.
	Parsed
	// Failed means the fragment was recognized but its shape is invalid.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case Failed:
		return "failed"
	default:
		return "not recognized"
	}
}

// ColumnResult is returned by ParseColumn.
type ColumnResult struct {
	Outcome Outcome
	Column  *ddlreflect.Column
	Err     error
}

// IndexResult is returned by ParseIndex.
type IndexResult struct {
	Outcome Outcome
	Index   *ddlreflect.Index
	Err     error
}

// TableResult is returned by Reflector.ParseCreateTable.
type TableResult struct {
	Outcome Outcome
	Table   *ddlreflect.Table
	Err     error
}
