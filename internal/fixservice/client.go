package fixservice

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/fixflow-sec/fixflow/internal/findings"
	"github.com/fixflow-sec/fixflow/internal/ragservice"
	"github.com/fixflow-sec/fixflow/pkg/shared/config"
	"github.com/fixflow-sec/fixflow/pkg/shared/httpclient"
)

// Request describes one fix invocation: a target file, the qualifying
// findings inside it, and optional RAG context for the fixer prompt.
type Request struct {
	Target       string                `json:"target"`
	TemplateType string                `json:"template_type"`
	Findings     []findings.Finding    `json:"findings"`
	RagContext   []ragservice.Document `json:"rag_context,omitempty"`
}

// Result is the fix service response for one target.
type Result struct {
	Target  string `json:"target"`
	Fixed   bool   `json:"fixed"`
	Details string `json:"details,omitempty"`
}

// Client is a thin request/response adapter to the external fix service.
type Client struct {
	httpc *resty.Client
	url   string
}

// New creates a fix service client configured from the global HTTP settings.
func New(cfg *config.Config, logger hclog.Logger) *Client {
	httpc := httpclient.InitializeRestyClient(logger, cfg)
	httpc.SetBaseURL(cfg.Services.Fix.BaseURL)

	return &Client{
		httpc: httpc,
		url:   cfg.Services.Fix.BaseURL,
	}
}

// Fix asks the service to patch one target. The caller records per-target
// failures; a fix failure never terminates the workflow.
func (c *Client) Fix(ctx context.Context, req Request) (*Result, error) {
	var r Result
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&r).
		Post("/api/v1/fix")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on fixing target %q: %s", resp.StatusCode(), req.Target, resp.String())
	}
	if r.Target == "" {
		r.Target = req.Target
	}
	return &r, nil
}

// Health checks the fix service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.httpc.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("fix service at %s is not healthy: %d", c.url, resp.StatusCode())
	}
	return nil
}
