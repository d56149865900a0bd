package query

// Result is the outcome of one natural language to SQL conversion. SQL is
// empty when extraction failed or the upstream call failed; Explanation is
// always populated, with a diagnostic message on failure.
type Result struct {
	SQL         string   `json:"sql"`
	Explanation string   `json:"explanation"`
	Confidence  float64  `json:"confidence,omitempty"`
	Assumptions []string `json:"assumptions,omitempty"`
}

// DefaultExplanation is used when the model response carries no explanation
// section.
const DefaultExplanation = "No explanation provided."

// HasSQL reports whether the conversion produced a usable query.
func (x *Result) HasSQL() bool {
	return x != nil && x.SQL != ""
}

// Failure builds a result that carries only a diagnostic explanation.
func Failure(explanation string) *Result {
	return &Result{Explanation: explanation}
}
