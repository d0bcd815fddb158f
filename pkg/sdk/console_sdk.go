package sdk

import (
	"context"
	"net/http"
	"net/url"
)

// GetState returns the workflow snapshot
func (c *Client) GetState(ctx context.Context) (*ConsoleState, error) {
	return call[ConsoleState](c, ctx, http.MethodGet, "/api/console/state", nil)
}

// Generate drafts a new record and makes it current
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*Record, error) {
	return call[Record](c, ctx, http.MethodPost, "/api/console/generate", req)
}

// ToggleEdit enters or leaves edit mode. Leaving commits the scratch buffer
func (c *Client) ToggleEdit(ctx context.Context) (*EditResponse, error) {
	return call[EditResponse](c, ctx, http.MethodPost, "/api/console/edit", nil)
}

// UpdateScratch replaces the edit buffer
func (c *Client) UpdateScratch(ctx context.Context, scratch *Scratch) (*Scratch, error) {
	return call[Scratch](c, ctx, http.MethodPut, "/api/console/edit", scratch)
}

// Audit self-audits the current record
func (c *Client) Audit(ctx context.Context) (*AuditReport, error) {
	return call[AuditReport](c, ctx, http.MethodPost, "/api/console/audit", nil)
}

// Approve persists the current record as approved
func (c *Client) Approve(ctx context.Context, req *ApproveRequest) (*ApproveResponse, error) {
	return call[ApproveResponse](c, ctx, http.MethodPost, "/api/console/approve", req)
}

// Open makes a local or finder record current
func (c *Client) Open(ctx context.Context, id string) (*Record, error) {
	return call[Record](c, ctx, http.MethodPost, "/api/console/records/"+url.PathEscape(id)+"/open", nil)
}

// Search sets the finder filter and refetches the remote records
func (c *Client) Search(ctx context.Context, filter *Filter) (*FinderResults, error) {
	return call[FinderResults](c, ctx, http.MethodPost, "/api/console/finder/search", filter)
}

// GetResults returns the listing from the last search
func (c *Client) GetResults(ctx context.Context) (*FinderResults, error) {
	return call[FinderResults](c, ctx, http.MethodGet, "/api/console/finder", nil)
}

// GetCatalog returns the brand and domain lists
func (c *Client) GetCatalog(ctx context.Context) (*Catalog, error) {
	return call[Catalog](c, ctx, http.MethodGet, "/api/console/catalog", nil)
}

// GetApprovals lists the approval ledger, newest first
func (c *Client) GetApprovals(ctx context.Context) ([]Approval, error) {
	out, err := call[[]Approval](c, ctx, http.MethodGet, "/api/console/approvals", nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}
