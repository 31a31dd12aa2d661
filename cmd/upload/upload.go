package upload

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fixflow-sec/fixflow/internal/uploader"
	"github.com/fixflow-sec/fixflow/pkg/shared"
	"github.com/fixflow-sec/fixflow/pkg/shared/config"
	"github.com/fixflow-sec/fixflow/pkg/shared/files"
	"github.com/fixflow-sec/fixflow/pkg/shared/logger"
)

// UploadOptions holds the arguments for the upload command.
type UploadOptions struct {
	InputFile string
	Bucket    string
	Region    string
	Prefix    string
}

var (
	AppConfig     *config.Config
	uploadOptions UploadOptions
)

// UploadCmd represents the upload command.
var UploadCmd = &cobra.Command{
	Use:                   "upload --input/-i PATH --bucket/-b BUCKET [--region REGION] [--prefix PREFIX]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Uploads a stored workflow report to an S3 bucket",
	Example: `  # Upload a report for external collection
  fixflow upload -i ~/.fixflow/results/fixflow-report-bearer-2024-06-01T10:00:00Z.json -b remediation-reports --region eu-west-2`,
	RunE: runUploadCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runUploadCommand executes the upload command.
func runUploadCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-upload")

	if uploadOptions.InputFile == "" {
		return fmt.Errorf("the 'input' flag must be specified")
	}
	if uploadOptions.Bucket == "" {
		return fmt.Errorf("the 'bucket' flag must be specified")
	}
	if err := files.ValidatePath(uploadOptions.InputFile); err != nil {
		return fmt.Errorf("report file is not usable: %w", err)
	}

	u := uploader.New(uploadOptions.Bucket, uploadOptions.Region, logger)
	location, err := u.Upload(uploadOptions.InputFile, uploadOptions.Prefix)
	if err != nil {
		logger.Error("upload command failed", "error", err)
		return err
	}

	logger.Info("upload command completed successfully", "location", location)
	return nil
}

// Initialize flags for the upload command.
func init() {
	UploadCmd.Flags().StringVarP(&uploadOptions.InputFile, "input", "i", "", "Path to a stored workflow report.")
	UploadCmd.Flags().StringVarP(&uploadOptions.Bucket, "bucket", "b", "", "Target S3 bucket.")
	UploadCmd.Flags().StringVar(&uploadOptions.Region, "region", "eu-west-2", "AWS region of the bucket.")
	UploadCmd.Flags().StringVar(&uploadOptions.Prefix, "prefix", "", "Key prefix for the uploaded object.")
	UploadCmd.Flags().BoolP("help", "h", false, "Show help for the upload command.")
}
