package correlation

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/fixflow-sec/fixflow/internal/findings"
)

// Pair links a finding from the current run with the earlier finding it was
// matched to.
type Pair struct {
	Current  findings.Finding
	Previous findings.Finding
}

// Diff is the outcome of correlating two finding sets. Persistent findings
// appear in both runs, New only in the current one, Resolved only in the
// previous one.
type Diff struct {
	Persistent []Pair
	New        []findings.Finding
	Resolved   []findings.Finding
}

// matcher decides whether two findings identify the same issue at one
// correlation precision.
type matcher func(a, b findings.Finding) bool

// The stages run from strongest to weakest evidence. A finding matched at an
// earlier stage is excluded from the later ones, so line drift between runs
// only degrades the match precision instead of duplicating the finding.
var stages = []matcher{
	func(a, b findings.Finding) bool {
		return sameRule(a, b) && a.StartLine == b.StartLine && a.EndLine == b.EndLine &&
			fingerprintsMatch(a, b)
	},
	func(a, b findings.Finding) bool {
		return sameRule(a, b) && fingerprintsMatch(a, b)
	},
	func(a, b findings.Finding) bool {
		return sameRule(a, b) && a.StartLine == b.StartLine && a.EndLine == b.EndLine
	},
	func(a, b findings.Finding) bool {
		return sameRule(a, b) && a.StartLine == b.StartLine
	},
}

// sameRule requires the identifying triple to be present and equal. Findings
// without a scanner or rule identifier are never correlated.
func sameRule(a, b findings.Finding) bool {
	if a.Scanner == "" || a.RuleID == "" || b.Scanner == "" || b.RuleID == "" {
		return false
	}
	return a.Scanner == b.Scanner && a.RuleID == b.RuleID && a.FilePath == b.FilePath
}

func fingerprintsMatch(a, b findings.Finding) bool {
	fa, fb := Fingerprint(a), Fingerprint(b)
	return fa != "" && fa == fb
}

// Fingerprint returns a stable hash of the finding's code snippet, or an
// empty string when the finding carries none. Leading and trailing blank
// space is ignored so reformatting alone does not break correlation.
func Fingerprint(f findings.Finding) string {
	snippet := strings.TrimSpace(f.CodeSnippet)
	if snippet == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(snippet))
	return fmt.Sprintf("%x", sum[:])
}

// DiffFindings correlates the current run's findings against a previous
// run's. Matching is one to one per stage: every previous finding claims at
// most one current finding and vice versa.
func DiffFindings(current, previous []findings.Finding) *Diff {
	diff := &Diff{}

	matchedCurrent := make(map[int]bool)
	matchedPrevious := make(map[int]bool)

	for _, match := range stages {
		for pi, prev := range previous {
			if matchedPrevious[pi] {
				continue
			}
			for ci, cur := range current {
				if matchedCurrent[ci] {
					continue
				}
				if match(cur, prev) {
					diff.Persistent = append(diff.Persistent, Pair{Current: cur, Previous: prev})
					matchedCurrent[ci] = true
					matchedPrevious[pi] = true
					break
				}
			}
		}
	}

	for ci, cur := range current {
		if !matchedCurrent[ci] {
			diff.New = append(diff.New, cur)
		}
	}
	for pi, prev := range previous {
		if !matchedPrevious[pi] {
			diff.Resolved = append(diff.Resolved, prev)
		}
	}
	return diff
}
