package sheet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedRecord() *record.Record {
	return &record.Record{
		ID:        "ACME-TOPIC-004",
		Kind:      record.KindKnowledgeCard,
		TopicName: "Flip turn",
		Brand:     "ACME",
		Domain:    "Swimming",
		Content:   "#### 一、Intro\nbody",
		Summary:   "summary",
		Keywords:  []string{"turn", "wall"},
		MetaJSON:  `{"brand":"ACME"}`,
		Status:    record.StatusDraft,
	}
}

func TestAppsScriptQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"values":[
			["ACME-TOPIC-001","Streamline","ACME","Swimming","content","summary","glide, kick","{}","已審定","2024-01-01"],
			["","orphan row"],
			["ACME-TOPIC-002","Flip turn","ACME","Swimming","c","s","",null,"草稿"]
		]}`)
	}))
	defer srv.Close()

	client := NewAppsScriptClient(StaticEndpoint(srv.URL))
	result := client.Query(context.Background(), Query{
		Collection: "主題知識卡",
		Kind:       record.KindKnowledgeCard,
		Brand:      "ACME",
		Domain:     "Swimming",
		Input:      "turn",
	})

	require.False(t, result.Failed(), result.Reason)
	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "query", got.URL.Query().Get("action"))
	assert.Equal(t, "主題知識卡", got.URL.Query().Get("tab"))
	assert.Equal(t, "ACME", got.URL.Query().Get("brand"))
	assert.Equal(t, "Swimming", got.URL.Query().Get("domain"))
	assert.Equal(t, "turn", got.URL.Query().Get("input"))

	require.Len(t, result.Records, 2)
	first := result.Records[0]
	assert.Equal(t, "ACME-TOPIC-001", first.ID)
	assert.Equal(t, record.KindKnowledgeCard, first.Kind)
	assert.Equal(t, []string{"glide", "kick"}, first.Keywords)
	assert.Equal(t, record.StatusApproved, first.Status)
	assert.Equal(t, "2024-01-01", first.UpdatedAt)
	assert.Equal(t, record.StatusDraft, result.Records[1].Status)

	assert.Equal(t, appsScriptSource, result.Evidence.Source)
	assert.Equal(t, "主題知識卡", result.Evidence.Tab)
	assert.Equal(t, 3, result.Evidence.RowsReturned)
	assert.Equal(t, "turn", result.Evidence.QueryUsed)
}

func TestAppsScriptQueryFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    Failure
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusForbidden)
			},
			want: FailureStatus,
		},
		{
			name: "parse",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "<html>login</html>")
			},
			want: FailureParse,
		},
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"result":"error","message":"unknown tab"}`)
			},
			want: FailureRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			result := NewAppsScriptClient(StaticEndpoint(srv.URL)).Query(context.Background(), Query{Collection: "tab"})
			assert.True(t, result.Failed())
			assert.Equal(t, tt.want, result.Failure)
			assert.NotNil(t, result.Records)
			assert.Empty(t, result.Records)
		})
	}
}

func TestAppsScriptTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	address := srv.URL
	srv.Close()

	client := NewAppsScriptClient(StaticEndpoint(address))

	result := client.Query(context.Background(), Query{Collection: "tab"})
	assert.Equal(t, FailureTransport, result.Failure)

	outcome := client.Append(context.Background(), AppendRequest{Collection: "tab", Record: approvedRecord()})
	assert.False(t, outcome.Success)
	assert.Equal(t, FailureTransport, outcome.Failure)
}

func TestAppsScriptUnconfigured(t *testing.T) {
	for _, client := range []*AppsScriptClient{NewAppsScriptClient(nil), NewAppsScriptClient(StaticEndpoint("  "))} {
		assert.False(t, client.Configured())

		result := client.Query(context.Background(), Query{Collection: "tab"})
		assert.Equal(t, FailureConfigMissing, result.Failure)

		outcome := client.Append(context.Background(), AppendRequest{Collection: "tab", Record: approvedRecord()})
		assert.False(t, outcome.Success)
		assert.Equal(t, FailureConfigMissing, outcome.Failure)
	}
}

func TestAppsScriptAppend(t *testing.T) {
	var contentType string
	var payload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = io.WriteString(w, `{"result":"success"}`)
	}))
	defer srv.Close()

	approvedAt := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	outcome := NewAppsScriptClient(StaticEndpoint(srv.URL)).Append(context.Background(), AppendRequest{
		Collection: "主題知識卡",
		Record:     approvedRecord(),
		Status:     record.StatusApproved,
		ApprovedBy: "HQ",
		ApprovedAt: approvedAt,
	})

	assert.True(t, outcome.Success)
	assert.True(t, outcome.Confirmed)
	assert.Equal(t, "text/plain;charset=utf-8", contentType)

	assert.Equal(t, "append", payload["action"])
	assert.Equal(t, "主題知識卡", payload["tab"])
	assert.Equal(t, "ACME-TOPIC-004", payload["id"])
	assert.Equal(t, "turn, wall", payload["keywords"])
	assert.Equal(t, "approved", payload["status"])
	assert.Equal(t, "HQ", payload["approved_by"])
	assert.Equal(t, "2024-05-01T08:30:00.000Z", payload["approved_at"])
	assert.NotEmpty(t, payload["request_id"])
}

func TestAppsScriptAppendOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		success   bool
		confirmed bool
		failure   Failure
	}{
		{"confirmed", http.StatusOK, `{"status":"ok"}`, true, true, FailureNone},
		{"empty body", http.StatusOK, ``, true, false, FailureNone},
		{"opaque body", http.StatusOK, `done`, true, false, FailureNone},
		{"explicit error", http.StatusOK, `{"result":"error","message":"locked"}`, false, false, FailureRejected},
		{"server error", http.StatusBadGateway, `bad`, false, false, FailureStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			outcome := NewAppsScriptClient(StaticEndpoint(srv.URL)).Append(context.Background(), AppendRequest{
				Collection: "tab",
				Record:     approvedRecord(),
				Status:     record.StatusApproved,
			})

			assert.Equal(t, tt.success, outcome.Success)
			assert.Equal(t, tt.confirmed, outcome.Confirmed)
			assert.Equal(t, tt.failure, outcome.Failure)
		})
	}
}

func TestAppsScriptReadsEndpointPerCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"values":[]}`)
	}))
	defer srv.Close()

	endpoint := &mutableEndpoint{}
	client := NewAppsScriptClient(endpoint)
	assert.Equal(t, FailureConfigMissing, client.Query(context.Background(), Query{}).Failure)

	endpoint.address = srv.URL
	result := client.Query(context.Background(), Query{})
	assert.False(t, result.Failed())
	assert.Empty(t, result.Records)
}

type mutableEndpoint struct {
	address string
}

func (m *mutableEndpoint) Endpoint() string {
	return m.address
}
