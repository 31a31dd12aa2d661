package ragservice

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

// Document is one knowledge base entry returned by a search.
type Document struct {
	ID         string                 `json:"id,omitempty"`
	Content    string                 `json:"content"`
	Similarity float64                `json:"similarity_score,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// PrepareHandle is the opaque acknowledgement of a warm-up call. Its only
// observable contract is that a subsequent search may be faster; it is not a
// correctness dependency.
type PrepareHandle struct {
	Collection string `json:"collection,omitempty"`
	Warmed     bool   `json:"warmed"`
}

// Client is a thin request/response adapter to the external RAG service.
type Client struct {
	httpc *resty.Client
	url   string
}

// New creates a RAG service client configured from the global HTTP settings.
func New(cfg *config.Config, logger hclog.Logger) *Client {
	httpc := httpclient.InitializeRestyClient(logger, cfg)
	httpc.SetBaseURL(cfg.Services.Rag.BaseURL)

	return &Client{
		httpc: httpc,
		url:   cfg.Services.Rag.BaseURL,
	}
}

type searchResponse struct {
	Documents []Document `json:"documents"`
}

// Search looks up knowledge base documents matching the rule query.
func (c *Client) Search(ctx context.Context, query findings.RuleQuery) ([]Document, error) {
	var r searchResponse
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(query).
		SetResult(&r).
		Post("/api/v1/rag/search")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on rag search: %s", resp.StatusCode(), resp.String())
	}
	return r.Documents, nil
}

type prepareRequest struct {
	ProjectPath string `json:"project_path"`
}

// Prepare asks the service to warm its collections for the project so the
// dependent search issued later in the run has a shorter latency.
func (c *Client) Prepare(ctx context.Context, projectPath string) (*PrepareHandle, error) {
	var r PrepareHandle
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(prepareRequest{ProjectPath: projectPath}).
		SetResult(&r).
		Post("/api/v1/rag/prepare")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on rag prepare: %s", resp.StatusCode(), resp.String())
	}
	return &r, nil
}

// Health checks the RAG service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.httpc.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("rag service at %s is not healthy: %d", c.url, resp.StatusCode())
	}
	return nil
}
