package sarif

import (
	"fmt"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/fixflow-sec/fixflow/internal/findings"
	"github.com/fixflow-sec/fixflow/internal/workflow"
)

const informationURI = "https://github.com/fixflow-sec/fixflow"

// FromReport converts the findings of a workflow report into a SARIF 2.1.0
// report, one result per finding.
func FromReport(report *workflow.Report) (*sarif.Report, error) {
	if report.ScanResults == nil {
		return nil, fmt.Errorf("report %q has no scan results to convert", report.RunID)
	}

	sarifReport, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, err
	}

	run := sarif.NewRunWithInformationURI(report.Configuration.Scanner, informationURI)
	seenRules := make(map[string]struct{})

	for _, finding := range report.ScanResults.Findings {
		ruleID := finding.RuleID
		if ruleID == "" {
			ruleID = finding.Key
		}
		if ruleID == "" {
			ruleID = "finding"
		}

		if _, ok := seenRules[ruleID]; !ok {
			seenRules[ruleID] = struct{}{}
			rule := run.AddRule(ruleID)
			if finding.RuleDescription != "" {
				rule.WithDescription(finding.RuleDescription)
			}
		}

		result := run.CreateResultForRule(ruleID).
			WithLevel(severityToLevel(finding.Severity)).
			WithMessage(sarif.NewTextMessage(resultMessage(finding)))

		if finding.FilePath != "" {
			region := sarif.NewSimpleRegion(finding.StartLine, endLine(finding))
			result.AddLocation(
				sarif.NewLocationWithPhysicalLocation(
					sarif.NewPhysicalLocation().
						WithArtifactLocation(sarif.NewSimpleArtifactLocation(finding.FilePath)).
						WithRegion(region),
				),
			)
		}
	}

	sarifReport.AddRun(run)
	return sarifReport, nil
}

func endLine(finding findings.Finding) int {
	if finding.EndLine >= finding.StartLine {
		return finding.EndLine
	}
	return finding.StartLine
}

func resultMessage(finding findings.Finding) string {
	if finding.Title != "" {
		return finding.Title
	}
	if finding.RuleDescription != "" {
		return finding.RuleDescription
	}
	return finding.Classification
}

// severityToLevel maps scanner severities to the SARIF level vocabulary.
func severityToLevel(severity string) string {
	switch strings.ToLower(severity) {
	case "critical", "high", "blocker":
		return "error"
	case "medium", "major":
		return "warning"
	case "low", "minor", "info":
		return "note"
	default:
		return "warning"
	}
}
