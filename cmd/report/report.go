package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fixflow-sec/fixflow/internal/reportstore"
	"github.com/fixflow-sec/fixflow/internal/sarif"
	"github.com/fixflow-sec/fixflow/internal/workflow"
	"github.com/fixflow-sec/fixflow/pkg/shared"
	"github.com/fixflow-sec/fixflow/pkg/shared/config"
	"github.com/fixflow-sec/fixflow/pkg/shared/logger"
)

// ReportOptions holds the arguments for the report command.
type ReportOptions struct {
	InputFile  string
	Format     string
	OutputPath string
}

var (
	AppConfig     *config.Config
	reportOptions ReportOptions
)

// ReportCmd represents the report command.
var ReportCmd = &cobra.Command{
	Use:                   "report --input/-i PATH [--format json|sarif] [--output/-o PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Summarizes a stored workflow report or converts it to SARIF",
	Example: `  # Print a summary of a stored report
  fixflow report -i ~/.fixflow/results/fixflow-report-bearer-2024-06-01T10:00:00Z.json

  # Convert the findings of a report to SARIF 2.1.0
  fixflow report -i report.json --format sarif -o findings.sarif`,
	RunE: runReportCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runReportCommand executes the report command.
func runReportCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-report")

	if err := validateReportArgs(&reportOptions); err != nil {
		logger.Error("invalid report arguments", "error", err)
		return err
	}

	stored, err := reportstore.Read(reportOptions.InputFile)
	if err != nil {
		logger.Error("failed to read report", "error", err)
		return err
	}

	switch reportOptions.Format {
	case formatSarif:
		return writeSarif(stored)
	default:
		printSummary(stored)
	}
	return nil
}

// writeSarif converts the report findings and writes them to the output path
// or stdout.
func writeSarif(stored *workflow.Report) error {
	converted, err := sarif.FromReport(stored)
	if err != nil {
		return err
	}
	if reportOptions.OutputPath != "" {
		return converted.WriteFile(reportOptions.OutputPath)
	}
	return converted.PrettyWrite(os.Stdout)
}

// printSummary prints a human-oriented digest of the run.
func printSummary(stored *workflow.Report) {
	fmt.Printf("Run:        %s\n", stored.RunID)
	fmt.Printf("Timestamp:  %s\n", stored.Timestamp)
	fmt.Printf("Mode:       %s\n", stored.ProcessingMode)
	fmt.Printf("Status:     %s\n", stored.Status)
	if stored.Error != "" {
		fmt.Printf("Error:      %s\n", stored.Error)
	}
	if stored.ScanResults != nil {
		fmt.Printf("Findings:   %d\n", len(stored.ScanResults.Findings))
	}
	fmt.Printf("Rules:      %d\n", len(stored.RuleDescriptions))
	fmt.Printf("RAG docs:   %d\n", len(stored.RagSearchResults))
	fixed := 0
	for _, result := range stored.FixResults {
		if result.Fixed {
			fixed++
		}
	}
	fmt.Printf("Fixed:      %d/%d targets\n", fixed, len(stored.FixResults))
	for _, warning := range stored.Warnings {
		fmt.Printf("Warning:    %s\n", warning)
	}
	metrics, _ := json.Marshal(stored.PerformanceMetrics)
	fmt.Printf("Metrics:    %s\n", metrics)
}

// Initialize flags for the report command.
func init() {
	ReportCmd.Flags().StringVarP(&reportOptions.InputFile, "input", "i", "", "Path to a stored workflow report.")
	ReportCmd.Flags().StringVarP(&reportOptions.Format, "format", "f", "json", "Output format: json (summary) or sarif.")
	ReportCmd.Flags().StringVarP(&reportOptions.OutputPath, "output", "o", "", "Path to write the converted report to. Defaults to stdout.")
	ReportCmd.Flags().BoolP("help", "h", false, "Show help for the report command.")
}
