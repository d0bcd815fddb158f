package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/ethanbaker/hq-console/pkg/generation"
	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/ethanbaker/hq-console/pkg/sheet"
)

var fixedNow = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

const testMeta = `{"brand":"ACME","status":"draft"}`

// fakeGenerator drafts a fixed record and returns configured audits
type fakeGenerator struct {
	mu sync.Mutex

	draftErr    error
	auditErr    error
	cardAudit   *generation.CardAudit
	lessonAudit *generation.LessonAudit

	// block, when set, holds every draft until it is closed
	block chan struct{}

	drafts   []generation.DraftRequest
	audits   int
	proposed string
}

func (f *fakeGenerator) draft(ctx context.Context, kind record.Kind, req generation.DraftRequest) (*record.Record, error) {
	f.mu.Lock()
	f.drafts = append(f.drafts, req)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.draftErr != nil {
		return nil, f.draftErr
	}

	id := req.ID
	if f.proposed != "" {
		id = f.proposed
	}

	return &record.Record{
		ID:        id,
		Kind:      kind,
		TopicName: req.TopicName,
		Brand:     req.Brand,
		Domain:    req.Domain,
		Content:   "#### 一、Intro\nBody.\n\n#### 二、Detail\nMore.",
		Summary:   "Summary.",
		Keywords:  []string{"turn", "wall"},
		MetaJSON:  testMeta,
		Status:    record.StatusDraft,
	}, nil
}

func (f *fakeGenerator) DraftKnowledgeCard(ctx context.Context, req generation.DraftRequest) (*record.Record, error) {
	return f.draft(ctx, record.KindKnowledgeCard, req)
}

func (f *fakeGenerator) DraftLessonPlan(ctx context.Context, req generation.DraftRequest) (*record.Record, error) {
	return f.draft(ctx, record.KindLessonPlan, req)
}

func (f *fakeGenerator) AuditKnowledgeCard(ctx context.Context, r *record.Record) (*generation.CardAudit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audits++
	if f.auditErr != nil {
		return nil, f.auditErr
	}
	if f.cardAudit != nil {
		return f.cardAudit, nil
	}
	return &generation.CardAudit{Report: "No problems."}, nil
}

func (f *fakeGenerator) AuditLessonPlan(ctx context.Context, content, meta string) (*generation.LessonAudit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audits++
	if f.auditErr != nil {
		return nil, f.auditErr
	}
	if f.lessonAudit != nil {
		return f.lessonAudit, nil
	}
	return &generation.LessonAudit{Verdict: generation.VerdictNeedsFix, MustFix: []string{}}, nil
}

// fakeStore serves canned rows per collection and records appends
type fakeStore struct {
	mu sync.Mutex

	unconfigured bool
	rows         map[string][]*record.Record
	queryFailure sheet.Failure
	outcome      *sheet.Outcome

	queries []sheet.Query
	appends []sheet.AppendRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string][]*record.Record)}
}

func (s *fakeStore) Configured() bool {
	return !s.unconfigured
}

func (s *fakeStore) Query(ctx context.Context, q sheet.Query) *sheet.QueryResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)

	evidence := sheet.Evidence{Source: "fake", Tab: q.Collection, QueryUsed: q.Input, Timestamp: fixedNow}
	switch {
	case s.unconfigured:
		return &sheet.QueryResult{Records: []*record.Record{}, Evidence: evidence, Failure: sheet.FailureConfigMissing, Reason: "not configured"}
	case s.queryFailure != sheet.FailureNone:
		return &sheet.QueryResult{Records: []*record.Record{}, Evidence: evidence, Failure: s.queryFailure, Reason: "boom"}
	}

	records := make([]*record.Record, 0, len(s.rows[q.Collection]))
	for _, r := range s.rows[q.Collection] {
		records = append(records, r.Clone())
	}
	evidence.RowsReturned = len(records)
	return &sheet.QueryResult{Records: records, Evidence: evidence}
}

func (s *fakeStore) Append(ctx context.Context, req sheet.AppendRequest) sheet.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unconfigured {
		return sheet.Outcome{Failure: sheet.FailureConfigMissing, Reason: "not configured"}
	}
	if s.outcome != nil {
		return *s.outcome
	}

	s.appends = append(s.appends, req)
	stored := req.Record.Clone()
	stored.Status = req.Status
	stored.ApprovedBy = req.ApprovedBy
	s.rows[req.Collection] = append(s.rows[req.Collection], stored)
	return sheet.Outcome{Success: true, Confirmed: true}
}

func (s *fakeStore) queryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func newTestController(gen *fakeGenerator, store *fakeStore, mutate ...func(*Options)) *Controller {
	opts := Options{
		Generator: gen,
		Store:     store,
		Now:       func() time.Time { return fixedNow },
	}
	for _, m := range mutate {
		m(&opts)
	}

	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

func cardRequest() GenerateRequest {
	return GenerateRequest{
		Kind:       record.KindKnowledgeCard,
		Brand:      "ACME",
		Domain:     "Swimming",
		TopicName:  "Flip turn",
		SourceText: "Tuck, rotate, push off.",
	}
}
