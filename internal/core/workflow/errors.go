package workflow

import "fmt"

// AnalysisError reports a mined-pattern inconsistency: an unresolvable
// owner, a step-construction failure, or similar.
type AnalysisError struct {
	Msg string
	Err error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("workflow analysis: %s: %v", e.Msg, e.Err)
	}
	return "workflow analysis: " + e.Msg
}

func (e *AnalysisError) Unwrap() error { return e.Err }
