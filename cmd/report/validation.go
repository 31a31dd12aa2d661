package report

import "fmt"

const (
	formatJSON  = "json"
	formatSarif = "sarif"
)

// validateReportArgs validates the arguments provided to the report command.
func validateReportArgs(options *ReportOptions) error {
	if options.InputFile == "" {
		return fmt.Errorf("the 'input' flag must be specified")
	}
	if options.Format != formatJSON && options.Format != formatSarif {
		return fmt.Errorf("unknown format %q, supported: %s, %s", options.Format, formatJSON, formatSarif)
	}
	return nil
}
