package reportstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/fixflow-sec/fixflow/internal/workflow"
	"github.com/fixflow-sec/fixflow/pkg/shared/config"
	"github.com/fixflow-sec/fixflow/pkg/shared/files"
)

// Store persists workflow reports as JSON files under the results folder.
type Store struct {
	folder string
	logger hclog.Logger
}

// New creates a store writing to the configured results folder.
func New(cfg *config.Config, logger hclog.Logger) *Store {
	return &Store{
		folder: cfg.Workflow.ResultsFolder,
		logger: logger,
	}
}

// generateName builds a timestamped report file name for the run.
func generateName(report *workflow.Report) string {
	startTime := report.Timestamp.UTC().Format(time.RFC3339)
	return fmt.Sprintf("fixflow-report-%s-%s.json", report.Configuration.Scanner, startTime)
}

// Write persists the report and returns the file path. The report is
// write-once: an existing file is never amended, each run gets its own file.
func (s *Store) Write(report *workflow.Report) (string, error) {
	expanded, err := files.ExpandPath(s.folder)
	if err != nil {
		return "", fmt.Errorf("failed to expand results folder: %w", err)
	}
	if err := files.CreateFolderIfNotExists(expanded); err != nil {
		return "", err
	}

	outputFile := filepath.Join(expanded, generateName(report))
	file, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("failed creating report file: %w", err)
	}
	defer file.Close()

	datawriter := bufio.NewWriter(file)
	defer datawriter.Flush()

	resultJson, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if _, err := datawriter.Write(resultJson); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	s.logger.Info("report saved to file", "path", outputFile)
	return outputFile, nil
}

// Read loads a previously written report from disk.
func Read(path string) (*workflow.Report, error) {
	if err := files.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report workflow.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report %q: %w", path, err)
	}
	return &report, nil
}
