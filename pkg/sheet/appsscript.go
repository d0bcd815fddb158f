package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const appsScriptSource = "apps_script"

// AppsScriptClient talks to a spreadsheet automation web endpoint. The address
// is read from the EndpointSource on every call; without one every call
// degrades to an empty result or a failed outcome
type AppsScriptClient struct {
	endpoint   EndpointSource
	httpClient *http.Client
}

// NewAppsScriptClient creates a client reading its address from endpoint
func NewAppsScriptClient(endpoint EndpointSource) *AppsScriptClient {
	return &AppsScriptClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client
func (c *AppsScriptClient) WithHTTPClient(client *http.Client) *AppsScriptClient {
	c.httpClient = client
	return c
}

// Configured reports whether an endpoint address is set
func (c *AppsScriptClient) Configured() bool {
	return c.address() != ""
}

func (c *AppsScriptClient) address() string {
	if c.endpoint == nil {
		return ""
	}
	return strings.TrimSpace(c.endpoint.Endpoint())
}

// queryResponse is the body returned for action=query
type queryResponse struct {
	Values  [][]any `json:"values"`
	Result  string  `json:"result"`
	Message string  `json:"message"`
}

// Query reads a collection through GET ?action=query
func (c *AppsScriptClient) Query(ctx context.Context, q Query) *QueryResult {
	base := c.address()
	if base == "" {
		return failedQuery(q, appsScriptSource, FailureConfigMissing, "store endpoint is not configured")
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("tab", q.Collection)
	params.Set("brand", q.Brand)
	params.Set("domain", q.Domain)
	params.Set("input", q.Input)

	target := base + "?" + params.Encode()
	if strings.Contains(base, "?") {
		target = base + "&" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return failedQuery(q, appsScriptSource, FailureTransport, err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[SHEET]: Query of '%s' failed: %v", q.Collection, err)
		return failedQuery(q, appsScriptSource, FailureTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("[SHEET]: Query of '%s' returned %d", q.Collection, resp.StatusCode)
		return failedQuery(q, appsScriptSource, FailureStatus, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Printf("[SHEET]: Query of '%s' returned an unreadable body: %v", q.Collection, err)
		return failedQuery(q, appsScriptSource, FailureParse, err.Error())
	}

	if strings.EqualFold(out.Result, "error") {
		return failedQuery(q, appsScriptSource, FailureRejected, out.Message)
	}

	rows := stringRows(out.Values)
	return &QueryResult{
		Records: recordsFromRows(rows, q.Kind),
		Evidence: Evidence{
			Source:       appsScriptSource,
			Tab:          q.Collection,
			RowsReturned: len(rows),
			QueryUsed:    q.Input,
			Timestamp:    time.Now(),
		},
	}
}

// appendPayload is the body posted for action=append
type appendPayload struct {
	Action     string `json:"action"`
	RequestID  string `json:"request_id"`
	Tab        string `json:"tab"`
	ID         string `json:"id"`
	TopicName  string `json:"topic_name"`
	Brand      string `json:"brand"`
	Domain     string `json:"domain"`
	Content    string `json:"content"`
	Summary    string `json:"summary"`
	Keywords   string `json:"keywords"`
	MetaJSON   string `json:"meta_json"`
	Status     string `json:"status"`
	ApprovedBy string `json:"approved_by"`
	ApprovedAt string `json:"approved_at"`
}

// appendResponse is the optional confirmation of an append
type appendResponse struct {
	Result  string `json:"result"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Append posts one record as a text/plain JSON payload. A transport error or a
// non-2xx status is a failure, an explicit {"result":"error"} is a failure, and
// a 2xx without a readable confirmation is accepted as an unconfirmed success
func (c *AppsScriptClient) Append(ctx context.Context, req AppendRequest) Outcome {
	base := c.address()
	if base == "" {
		return failedOutcome(FailureConfigMissing, "store endpoint is not configured")
	}
	if req.Record == nil {
		return failedOutcome(FailureRejected, "no record to append")
	}

	r := req.Record
	payload := appendPayload{
		Action:     "append",
		RequestID:  uuid.NewString(),
		Tab:        req.Collection,
		ID:         r.ID,
		TopicName:  r.TopicName,
		Brand:      r.Brand,
		Domain:     r.Domain,
		Content:    r.Content,
		Summary:    r.Summary,
		Keywords:   r.KeywordsText(),
		MetaJSON:   r.MetaJSON,
		Status:     string(req.Status),
		ApprovedBy: req.ApprovedBy,
		ApprovedAt: req.ApprovedAt.UTC().Format(TimestampLayout),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failedOutcome(FailureParse, err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base, bytes.NewReader(body))
	if err != nil {
		return failedOutcome(FailureTransport, err.Error())
	}
	// text/plain keeps the endpoint reachable without a CORS preflight
	httpReq.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("[SHEET]: Append of '%s' failed: %v", r.ID, err)
		return failedOutcome(FailureTransport, err.Error())
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[SHEET]: Append of '%s' returned %d", r.ID, resp.StatusCode)
		return failedOutcome(FailureStatus, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var out appendResponse
	if err := json.Unmarshal(raw, &out); err != nil || (out.Result == "" && out.Status == "") {
		log.Printf("[SHEET]: Append of '%s' accepted without confirmation", r.ID)
		return Outcome{Success: true, Confirmed: false}
	}

	if strings.EqualFold(out.Result, "error") || strings.EqualFold(out.Status, "error") {
		return failedOutcome(FailureRejected, out.Message)
	}

	return Outcome{Success: true, Confirmed: true}
}
