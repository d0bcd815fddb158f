package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// Client wraps calls to the console API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 180 * time.Second},
	}
}

// ResponseError is a non-success envelope returned by the API
type ResponseError struct {
	Status  api_types.StatusType
	Code    int
	Message string
	Detail  *ErrorDetail
}

func (e *ResponseError) Error() string {
	if e.Detail != nil && e.Detail.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail.Reason)
	}
	return e.Message
}

// request is a single call to the API
type request struct {
	client  *Client
	ctx     context.Context
	method  string
	path    string
	in      any
	out     any
	headers map[string]string
}

// NewRequest prepares a JSON request. in and out may be nil
func (c *Client) NewRequest(ctx context.Context, method, path string, in any, out any) *request {
	return &request{
		client:  c,
		ctx:     ctx,
		method:  method,
		path:    path,
		in:      in,
		out:     out,
		headers: map[string]string{"Content-Type": "application/json"},
	}
}

// WithApiKey authenticates the request with the X-API-KEY header
func (r *request) WithApiKey(key string) *request {
	r.headers["X-API-KEY"] = key
	return r
}

// doJSON performs the request and decodes the envelope into out
func (r *request) doJSON() error {
	// Create request body if input is provided
	var body io.Reader
	if r.in != nil {
		b, err := json.Marshal(r.in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(b)
	}

	// Create the request
	req, err := http.NewRequestWithContext(r.ctx, r.method, r.client.baseURL+r.path, body)
	if err != nil {
		return err
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	// Perform the request
	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Prefer the envelope so callers can inspect the failure
		var failed ApiResponse[json.RawMessage]
		if err := json.Unmarshal(b, &failed); err == nil && failed.Message != "" {
			return &ResponseError{Status: failed.Status, Code: resp.StatusCode, Message: failed.Message, Detail: failed.Error}
		}
		return fmt.Errorf("[BACKEND]: backend '%s %s' failed: %d: %s", r.method, r.path, resp.StatusCode, string(b))
	}

	// If no output expected, return early
	if r.out == nil {
		return nil
	}

	return json.Unmarshal(b, r.out)
}

// call performs an authenticated request and checks the envelope status
func call[T any](c *Client, ctx context.Context, method, path string, in any) (*T, error) {
	var out ApiResponse[T]
	if err := c.NewRequest(ctx, method, path, in, &out).WithApiKey(c.apiKey).doJSON(); err != nil {
		return nil, err
	}

	// Check for success
	switch out.Status {
	case api_types.StatusFail, api_types.StatusError:
		return nil, &ResponseError{Status: out.Status, Code: out.Code, Message: out.Message, Detail: out.Error}
	}

	// On success return data
	return &out.Data, nil
}
