package sdk

import (
	"encoding/json"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   *ErrorDetail         `json:"error,omitempty"` // Optional error details for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a format suitable for JSON responses
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccess(message string) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
	}
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

// NewFailResponse is a rejected request: validation or a state conflict
func NewFailResponse(code int, message string, detail *ErrorDetail) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusFail,
		Code:    code,
		Message: message,
		Error:   detail,
	}
}

// NewErrorResponse is a request that failed while calling out
func NewErrorResponse(code int, message string, detail *ErrorDetail) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   detail,
	}
}

// ErrorDetail tells apart the ways an operation can fail
type ErrorDetail struct {
	Op      string `json:"op,omitempty"`      // Operation that failed (generate, audit, approve)
	Failure string `json:"failure,omitempty"` // Store failure marker (config_missing, transport, ...)
	Quota   bool   `json:"quota,omitempty"`   // Whether the generation provider refused for quota
	Reason  string `json:"reason"`            // Human-readable cause
}

/** Console requests */

// GenerateRequest asks for a new draft
type GenerateRequest struct {
	Kind           string `json:"kind"`
	Brand          string `json:"brand"`
	Domain         string `json:"domain"`
	TopicName      string `json:"topic_name"`
	SourceText     string `json:"source_text"`
	RelatedTopicID string `json:"related_topic_id,omitempty"`
}

// ApproveRequest names the reviewer; empty uses the server default
type ApproveRequest struct {
	Reviewer string `json:"reviewer"`
}

// Filter holds the finder predicates
type Filter struct {
	Kind   string `json:"kind,omitempty"`
	Brand  string `json:"brand,omitempty"`
	Domain string `json:"domain,omitempty"`
	Text   string `json:"text,omitempty"`
}

// Scratch is the edit buffer of the current record
type Scratch struct {
	Content  string `json:"content"`
	Summary  string `json:"summary"`
	Keywords string `json:"keywords"`
	MetaJSON string `json:"meta_json"`
}

/** Console responses */

// Record is a knowledge card or lesson plan
type Record struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	TopicName  string     `json:"topic_name"`
	Brand      string     `json:"brand"`
	Domain     string     `json:"domain"`
	Content    string     `json:"content"`
	Summary    string     `json:"summary"`
	Keywords   []string   `json:"keywords"`
	MetaJSON   string     `json:"meta_json"`
	Status     string     `json:"status"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

// Finding is one checklist item of an audit
type Finding struct {
	Rule   string `json:"rule"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// AuditReport is the stored result of the last self-audit of a record
type AuditReport struct {
	RecordID   string     `json:"record_id"`
	Kind       string     `json:"kind"`
	Text       string     `json:"text,omitempty"`
	Findings   []Finding  `json:"findings,omitempty"`
	Corrected  bool       `json:"corrected"`
	Verdict    string     `json:"verdict,omitempty"`
	MustFix    []string   `json:"must_fix,omitempty"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	AuditedAt  time.Time  `json:"audited_at"`
}

// ConsoleState is a snapshot of the workflow
type ConsoleState struct {
	Current    *Record      `json:"current,omitempty"`
	Editing    bool         `json:"editing"`
	Scratch    *Scratch     `json:"scratch,omitempty"`
	Report     *AuditReport `json:"report,omitempty"`
	Busy       string       `json:"busy,omitempty"`
	Records    []Record     `json:"records"`
	Filter     Filter       `json:"filter"`
	CanEdit    bool         `json:"can_edit"`
	CanAudit   bool         `json:"can_audit"`
	CanApprove bool         `json:"can_approve"`
}

// EditResponse reports the edit mode after a toggle
type EditResponse struct {
	Editing bool `json:"editing"`
}

// ApproveResponse is a successful approval
type ApproveResponse struct {
	Record     Record `json:"record"`
	Collection string `json:"collection"`
	Confirmed  bool   `json:"confirmed"` // False when the store accepted the write without confirming it
}

// Evidence describes one remote query
type Evidence struct {
	Source       string    `json:"source"`
	Tab          string    `json:"tab"`
	RowsReturned int       `json:"rows_returned"`
	QueryUsed    string    `json:"query_used"`
	Timestamp    time.Time `json:"timestamp"`
}

// FinderResults is the merged listing of local and remote records
type FinderResults struct {
	Filter   Filter     `json:"filter"`
	Records  []Record   `json:"records"`
	Evidence []Evidence `json:"evidence"`
	Failure  string     `json:"failure,omitempty"`
	Reason   string     `json:"reason,omitempty"`
}

// Catalog lists the brands and domains to pick from
type Catalog struct {
	Brands  []string `json:"brands"`
	Domains []string `json:"domains"`
}

// Approval is one approval ledger entry
type Approval struct {
	ID         string    `json:"id"`
	RecordID   string    `json:"record_id"`
	Collection string    `json:"collection"`
	Kind       string    `json:"kind"`
	TopicName  string    `json:"topic_name"`
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
	Confirmed  bool      `json:"confirmed"`
}

/** Connection Module DTOs */

// ConnectionRequest sets the store endpoint for this session
type ConnectionRequest struct {
	URL string `json:"url"` // Apps Script web app address; empty clears the session override
}

// ConnectionStatus is the connected indicator
type ConnectionStatus struct {
	Connected bool      `json:"connected"`
	Endpoint  string    `json:"endpoint"`
	Source    string    `json:"source"` // "config", "session" or empty
	CheckedAt time.Time `json:"checked_at"`
}

// ConnectionResponse is returned after changing the endpoint
type ConnectionResponse struct {
	Status  ConnectionStatus `json:"status"`
	Results *FinderResults   `json:"results,omitempty"` // Finder search re-run against the new endpoint
}
