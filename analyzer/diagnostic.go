package analyzer

import "fmt"

// MaxDiagnostics is the number of diagnostics the analyzer will collect
// before silently dropping the rest. Semantic errors are never fatal on
// their own — the analyzer keeps going so it can surface as many distinct
// problems as possible in one pass, up to this cap.
const MaxDiagnostics = 100

// Diagnostic is a single analyzer-reported problem.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}
