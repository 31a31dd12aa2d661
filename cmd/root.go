package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fixflow-sec/fixflow/cmd/diff"
	"github.com/fixflow-sec/fixflow/cmd/report"
	"github.com/fixflow-sec/fixflow/cmd/run"
	"github.com/fixflow-sec/fixflow/cmd/upload"
	"github.com/fixflow-sec/fixflow/cmd/version"
	"github.com/fixflow-sec/fixflow/pkg/shared/config"
	sharederrors "github.com/fixflow-sec/fixflow/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "fixflow [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Fixflow orchestrates a scan, enrich, and fix remediation pipeline.",
		Long: `Fixflow is a workflow orchestrator that scans source code for security
	and quality issues, optionally enriches the findings through a RAG knowledge
	lookup, and drives an LLM-based fixer to patch the flagged files.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(run.RunCmd)
	rootCmd.AddCommand(report.ReportCmd)
	rootCmd.AddCommand(diff.DiffCmd)
	rootCmd.AddCommand(upload.UploadCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

func Execute() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		var cmdErr *sharederrors.CommandError
		if errors.As(err, &cmdErr) {
			os.Exit(cmdErr.ExitCode)
		}
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	run.Init(AppConfig)
	report.Init(AppConfig)
	diff.Init(AppConfig)
	upload.Init(AppConfig)
}
