package sdk

import (
	"context"
	"net/http"
)

// GetConnection returns the connected indicator
func (c *Client) GetConnection(ctx context.Context) (*ConnectionStatus, error) {
	return call[ConnectionStatus](c, ctx, http.MethodGet, "/api/connection", nil)
}

// SetConnection sets the store endpoint for this session and re-runs the finder search
func (c *Client) SetConnection(ctx context.Context, endpoint string) (*ConnectionResponse, error) {
	return call[ConnectionResponse](c, ctx, http.MethodPut, "/api/connection", &ConnectionRequest{URL: endpoint})
}
