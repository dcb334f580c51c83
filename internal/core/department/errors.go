package department

import "fmt"

// AnalysisError reports invalid input to the department analysis entry point
// or an unexpected internal failure, carrying the root cause when there is
// one.
type AnalysisError struct {
	Msg string
	Err error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("department analysis: %s: %v", e.Msg, e.Err)
	}
	return "department analysis: " + e.Msg
}

func (e *AnalysisError) Unwrap() error { return e.Err }
