package diff

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fixflow-sec/fixflow/internal/correlation"
	"github.com/fixflow-sec/fixflow/internal/findings"
	"github.com/fixflow-sec/fixflow/internal/reportstore"
	"github.com/fixflow-sec/fixflow/internal/workflow"
	"github.com/fixflow-sec/fixflow/pkg/shared"
	"github.com/fixflow-sec/fixflow/pkg/shared/config"
	"github.com/fixflow-sec/fixflow/pkg/shared/logger"
)

// DiffOptions holds the arguments for the diff command.
type DiffOptions struct {
	CurrentFile  string
	PreviousFile string
}

var (
	AppConfig   *config.Config
	diffOptions DiffOptions
)

// DiffCmd represents the diff command.
var DiffCmd = &cobra.Command{
	Use:                   "diff --current/-c PATH --previous/-p PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Correlates the findings of two stored reports",
	Example: `  # Show which findings are new, persistent, or resolved between two runs
  fixflow diff -p results/fixflow-report-bearer-2024-06-01T10:00:00Z.json \
    -c results/fixflow-report-bearer-2024-06-02T10:00:00Z.json`,
	RunE: runDiffCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runDiffCommand executes the diff command.
func runDiffCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-diff")

	if err := validateDiffArgs(&diffOptions); err != nil {
		logger.Error("invalid diff arguments", "error", err)
		return err
	}

	current, err := loadFindings(diffOptions.CurrentFile)
	if err != nil {
		logger.Error("failed to read current report", "error", err)
		return err
	}
	previous, err := loadFindings(diffOptions.PreviousFile)
	if err != nil {
		logger.Error("failed to read previous report", "error", err)
		return err
	}

	result := correlation.DiffFindings(current, previous)
	printDiff(result)
	return nil
}

// loadFindings reads a stored report and returns its finding set.
func loadFindings(path string) ([]findings.Finding, error) {
	stored, err := reportstore.Read(path)
	if err != nil {
		return nil, err
	}
	return scanFindings(stored, path)
}

func scanFindings(stored *workflow.Report, path string) ([]findings.Finding, error) {
	if stored.ScanResults == nil {
		return nil, fmt.Errorf("report %q has no scan results to correlate", path)
	}
	return stored.ScanResults.Findings, nil
}

// printDiff prints a human-oriented digest of the correlation.
func printDiff(result *correlation.Diff) {
	fmt.Printf("Persistent: %d\n", len(result.Persistent))
	fmt.Printf("New:        %d\n", len(result.New))
	fmt.Printf("Resolved:   %d\n", len(result.Resolved))
	for _, item := range result.New {
		fmt.Printf("  + %s %s %s:%d\n", item.Scanner, item.RuleID, item.FilePath, item.StartLine)
	}
	for _, item := range result.Resolved {
		fmt.Printf("  - %s %s %s:%d\n", item.Scanner, item.RuleID, item.FilePath, item.StartLine)
	}
}

// Initialize flags for the diff command.
func init() {
	DiffCmd.Flags().StringVarP(&diffOptions.CurrentFile, "current", "c", "", "Path to the newer stored workflow report.")
	DiffCmd.Flags().StringVarP(&diffOptions.PreviousFile, "previous", "p", "", "Path to the older stored workflow report.")
	DiffCmd.Flags().BoolP("help", "h", false, "Show help for the diff command.")
}
