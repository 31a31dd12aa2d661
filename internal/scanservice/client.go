package scanservice

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/fixflow-sec/fixflow/internal/findings"
	"github.com/fixflow-sec/fixflow/pkg/shared/config"
	"github.com/fixflow-sec/fixflow/pkg/shared/httpclient"
)

// StatusSuccess is the status value a healthy scan response carries.
const StatusSuccess = "success"

// Client is a thin request/response adapter to the external scan service.
type Client struct {
	httpc *resty.Client
	url   string
}

// New creates a scan service client configured from the global HTTP settings.
func New(cfg *config.Config, logger hclog.Logger) *Client {
	httpc := httpclient.InitializeRestyClient(logger, cfg)
	httpc.SetBaseURL(cfg.Services.Scan.BaseURL)

	return &Client{
		httpc: httpc,
		url:   cfg.Services.Scan.BaseURL,
	}
}

type scanRequest struct {
	ProjectPath string `json:"project_path"`
	ScannerType string `json:"scanner_type"`
}

// Result is the scan service response for a single project scan.
type Result struct {
	ProjectName   string             `json:"project_name,omitempty"`
	ProjectPath   string             `json:"project_path,omitempty"`
	ScannerType   string             `json:"scanner_type,omitempty"`
	Status        string             `json:"status"`
	IssuesCount   int                `json:"issues_count"`
	Findings      []findings.Finding `json:"findings"`
	ExecutionTime float64            `json:"execution_time,omitempty"`
	ErrorMessage  string             `json:"error_message,omitempty"`
}

// Scan runs the given scanner over the project and returns the complete
// finding set. A non-200 response or a non-success status is an error.
func (c *Client) Scan(ctx context.Context, projectPath, scannerType string) (*Result, error) {
	var r Result
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(scanRequest{
			ProjectPath: projectPath,
			ScannerType: scannerType,
		}).
		SetResult(&r).
		Post("/api/v1/scan/single")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on scanning project %q: %s", resp.StatusCode(), projectPath, resp.String())
	}
	if r.Status != StatusSuccess {
		return nil, fmt.Errorf("scan of %q finished with status %q: %s", projectPath, r.Status, r.ErrorMessage)
	}
	return &r, nil
}

// Health checks the scan service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.httpc.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("scan service at %s is not healthy: %d", c.url, resp.StatusCode())
	}
	return nil
}
