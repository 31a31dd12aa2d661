package findings

import "strings"

// DefaultLimit is the result limit used when the caller does not supply one.
const DefaultLimit = 5

// Extract builds a RuleQuery from a batch of findings. The filter pipeline is
// fixed: keep findings classified as a true bug, among those keep the ones
// marked for fixing, drop empty rule descriptions, then deduplicate by exact
// string equality keeping the first occurrence's position.
//
// Extract is a pure function: it never modifies the input and yields the same
// query for the same batch, regardless of how often it runs.
func Extract(items []Finding, limit int) RuleQuery {
	if limit <= 0 {
		limit = DefaultLimit
	}

	seen := make(map[string]struct{})
	var query []string

	for _, finding := range items {
		if !strings.EqualFold(finding.Classification, ClassificationTrueBug) {
			continue
		}
		if !strings.EqualFold(finding.Action, ActionFix) {
			continue
		}
		description := finding.RuleDescription
		if strings.TrimSpace(description) == "" {
			continue
		}
		if _, ok := seen[description]; ok {
			continue
		}
		seen[description] = struct{}{}
		query = append(query, description)
	}

	return RuleQuery{
		Query:       query,
		Limit:       limit,
		CombineMode: CombineModeOr,
	}
}

// Qualifying returns the findings that pass the classification and action
// filters, in input order. These are the findings a fixer should work on.
func Qualifying(items []Finding) []Finding {
	var kept []Finding
	for _, finding := range items {
		if !strings.EqualFold(finding.Classification, ClassificationTrueBug) {
			continue
		}
		if !strings.EqualFold(finding.Action, ActionFix) {
			continue
		}
		kept = append(kept, finding)
	}
	return kept
}

// GroupByFile buckets the qualifying findings per file, preserving the
// first-seen order of files. Findings without a file path are skipped since
// the fix stage has nothing to patch for them.
func GroupByFile(items []Finding) []FixTarget {
	index := make(map[string]int)
	var targets []FixTarget

	for _, finding := range Qualifying(items) {
		if finding.FilePath == "" {
			continue
		}
		i, ok := index[finding.FilePath]
		if !ok {
			i = len(targets)
			index[finding.FilePath] = i
			targets = append(targets, FixTarget{FilePath: finding.FilePath})
		}
		targets[i].Findings = append(targets[i].Findings, finding)
	}

	return targets
}
