// Package sheet is the client for the spreadsheet-backed record store. Two
// backends share the Store interface: the Apps Script web endpoint and the
// Google Sheets API.
package sheet

import (
	"context"
	"time"

	"github.com/ethanbaker/hq-console/pkg/record"
)

// TimestampLayout is the approval timestamp format written to the sheet
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Failure is a machine readable marker for a store call that did not succeed
type Failure string

const (
	FailureNone          Failure = ""
	FailureConfigMissing Failure = "config_missing"
	FailureTransport     Failure = "transport"
	FailureStatus        Failure = "http_status"
	FailureParse         Failure = "parse"
	FailureRejected      Failure = "rejected"
)

// Store is the remote record store. Calls never return errors: failures are
// reported through QueryResult.Failure and Outcome so callers can tell "no
// results" from "fetch failed"
type Store interface {
	// Configured reports whether the store has what it needs to make calls
	Configured() bool

	// Query reads records from a collection
	Query(ctx context.Context, q Query) *QueryResult

	// Append writes one approved record to a collection
	Append(ctx context.Context, req AppendRequest) Outcome
}

// Query scopes a read to one collection with optional coarse filters
type Query struct {
	Collection string      `json:"collection"`
	Kind       record.Kind `json:"kind"`
	Brand      string      `json:"brand"`
	Domain     string      `json:"domain"`
	Input      string      `json:"input"`
}

// Evidence describes how a query result was obtained
type Evidence struct {
	Source       string    `json:"source"`
	Tab          string    `json:"tab"`
	RowsReturned int       `json:"rows_returned"`
	QueryUsed    string    `json:"query_used"`
	Timestamp    time.Time `json:"timestamp"`
}

// QueryResult carries the records read and, on failure, a marker and reason
type QueryResult struct {
	Records  []*record.Record `json:"records"`
	Evidence Evidence         `json:"evidence"`
	Failure  Failure          `json:"failure,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}

// Failed reports whether the query did not complete
func (r *QueryResult) Failed() bool {
	return r.Failure != FailureNone
}

func failedQuery(q Query, source string, failure Failure, reason string) *QueryResult {
	return &QueryResult{
		Records: []*record.Record{},
		Evidence: Evidence{
			Source:    source,
			Tab:       q.Collection,
			QueryUsed: q.Input,
			Timestamp: time.Now(),
		},
		Failure: failure,
		Reason:  reason,
	}
}

// AppendRequest is one record plus the approval stamp to write
type AppendRequest struct {
	Collection string         `json:"collection"`
	Record     *record.Record `json:"record"`
	Status     record.Status  `json:"status"`
	ApprovedBy string         `json:"approved_by"`
	ApprovedAt time.Time      `json:"approved_at"`
}

// Outcome is the result of an append. Confirmed is false when the store
// accepted the request without a readable confirmation
type Outcome struct {
	Success   bool    `json:"success"`
	Confirmed bool    `json:"confirmed"`
	Failure   Failure `json:"failure,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

func failedOutcome(failure Failure, reason string) Outcome {
	return Outcome{Success: false, Failure: failure, Reason: reason}
}

// EndpointSource supplies the Apps Script address, re-read on every call
type EndpointSource interface {
	Endpoint() string
}

// StaticEndpoint is a fixed EndpointSource
type StaticEndpoint string

// Endpoint returns the fixed address
func (s StaticEndpoint) Endpoint() string {
	return string(s)
}
