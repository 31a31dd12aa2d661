package findings

// Classification and action values a triage stage assigns to a finding.
// Matching is case-insensitive; these are the canonical spellings.
const (
	ClassificationTrueBug = "True Bug"
	ActionFix             = "Fix"
)

// Finding is one scan result item. It is immutable once produced by the
// scan stage; scanner-specific metadata is passed through opaquely.
type Finding struct {
	Key             string `json:"key,omitempty"`
	RuleID          string `json:"rule_id,omitempty"`
	Title           string `json:"title,omitempty"`
	Classification  string `json:"classification"`
	Action          string `json:"action"`
	RuleDescription string `json:"rule_description"`
	Severity        string `json:"severity,omitempty"`
	Scanner         string `json:"scanner,omitempty"`

	FilePath  string `json:"file_path,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`

	CodeSnippet string `json:"code_snippet,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// RuleQuery is the deduplicated downstream query derived from a batch of
// findings. It is built once per workflow run and never mutated afterwards.
type RuleQuery struct {
	Query       []string `json:"query"`
	Limit       int      `json:"limit"`
	CombineMode string   `json:"combine_mode"`
}

// CombineModeOr requests that query terms are OR-combined by the search side.
const CombineModeOr = "OR"

// IsEmpty reports whether the query carries no terms.
func (q RuleQuery) IsEmpty() bool {
	return len(q.Query) == 0
}

// FixTarget groups the qualifying findings of a single file. Targets keep
// the first-seen file order of the input batch.
type FixTarget struct {
	FilePath string    `json:"file_path"`
	Findings []Finding `json:"findings"`
}
