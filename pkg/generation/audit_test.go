package generation

import (
	"context"
	"strings"
	"testing"

	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftRecord() *record.Record {
	return &record.Record{
		ID:        "ACME-TOPIC-001",
		Kind:      record.KindKnowledgeCard,
		TopicName: "Flip turn",
		Brand:     "ACME",
		Domain:    "Swimming",
		Content:   cardContent(0),
		Summary:   "Old summary.",
		Keywords:  []string{"old"},
		MetaJSON:  cardMeta,
		Status:    record.StatusDraft,
	}
}

func TestAuditKnowledgeCardCorrection(t *testing.T) {
	corrected := cardContent(3)
	response := mustJSON(map[string]any{
		"report": "Section 3 was not supported by the source.",
		"corrected_json": map[string]any{
			"summary":   "New summary.",
			"content":   corrected,
			"keywords":  []string{"turn", "turn"},
			"meta_json": cardMeta,
		},
	})
	client := newTestClient(&fakeBackend{responses: []string{response}})

	original := draftRecord()
	audit, err := client.AuditKnowledgeCard(context.Background(), original)
	require.NoError(t, err)

	assert.Equal(t, "Section 3 was not supported by the source.", audit.Report)
	require.NotNil(t, audit.Corrected)
	assert.Equal(t, "New summary.", audit.Corrected.Summary)
	assert.Equal(t, []string{"turn"}, audit.Corrected.Keywords)
	assert.Equal(t, record.InsufficientPlaceholder, record.ParseSections(audit.Corrected.Content)[2].Body)
	assert.Equal(t, original.ID, audit.Corrected.ID)

	// The input record is not touched
	assert.Equal(t, "Old summary.", original.Summary)
	assert.Empty(t, record.Failed(audit.Findings))
}

func TestAuditKnowledgeCardFindingsFollowCorrection(t *testing.T) {
	response := mustJSON(map[string]any{
		"report": "meta_json was incomplete.",
		"corrected_json": map[string]any{
			"summary":   "s",
			"content":   cardContent(0),
			"keywords":  []string{},
			"meta_json": cardMeta,
		},
	})
	client := newTestClient(&fakeBackend{responses: []string{response}})

	original := draftRecord()
	original.MetaJSON = `{"brand":"ACME"}`

	audit, err := client.AuditKnowledgeCard(context.Background(), original)
	require.NoError(t, err)
	require.NotNil(t, audit.Corrected)
	assert.Empty(t, record.Failed(audit.Findings))
}

func TestAuditKnowledgeCardWithoutCorrection(t *testing.T) {
	client := newTestClient(&fakeBackend{responses: []string{`{"report":"Looks good."}`}})

	audit, err := client.AuditKnowledgeCard(context.Background(), draftRecord())
	require.NoError(t, err)
	assert.Nil(t, audit.Corrected)
	assert.Equal(t, "Looks good.", audit.Report)
}

func TestAuditKnowledgeCardFailures(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"missing report", `{"corrected_json":null}`},
		{"renumbered correction", mustJSON(map[string]any{
			"report":         "r",
			"corrected_json": map[string]any{"summary": "s", "content": "#### 二、Wrong\nx", "keywords": []string{}, "meta_json": cardMeta},
		})},
		{"meta missing keys", mustJSON(map[string]any{
			"report":         "r",
			"corrected_json": map[string]any{"summary": "s", "content": cardContent(0), "keywords": []string{}, "meta_json": `{"brand":"ACME"}`},
		})},
		{"renamed section", mustJSON(map[string]any{
			"report":         "r",
			"corrected_json": map[string]any{"summary": "s", "content": strings.Replace(cardContent(0), "一、Part 1", "一、RENAMED", 1), "keywords": []string{}, "meta_json": cardMeta},
		})},
		{"unparseable meta", mustJSON(map[string]any{
			"report":         "r",
			"corrected_json": map[string]any{"summary": "s", "content": cardContent(0), "keywords": []string{}, "meta_json": "{oops"},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(&fakeBackend{responses: []string{tt.response}})

			_, err := client.AuditKnowledgeCard(context.Background(), draftRecord())
			var genErr *Error
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, StageAudit, genErr.Stage)
		})
	}
}

func TestAuditKnowledgeCardRequiresContent(t *testing.T) {
	backend := &fakeBackend{}
	r := draftRecord()
	r.Content = ""

	_, err := newTestClient(backend).AuditKnowledgeCard(context.Background(), r)
	assert.Error(t, err)
	assert.Empty(t, backend.prompts)
}

func TestAuditLessonPlanPass(t *testing.T) {
	response := mustJSON(map[string]any{
		"result":      "✅ pass",
		"checklist":   []map[string]any{{"rule": "fidelity", "passed": true}},
		"must_fix":    []string{},
		"quick_notes": "Clean.",
		"approved_fields": map[string]any{
			"approved_by": "Coach Lin",
			"approved_at": "2024-05-01T08:30:00Z",
		},
	})
	client := newTestClient(&fakeBackend{responses: []string{response}})

	audit, err := client.AuditLessonPlan(context.Background(), lessonContent(), lessonMeta)
	require.NoError(t, err)

	assert.Equal(t, VerdictPass, audit.Verdict)
	assert.True(t, audit.Passed())
	assert.Equal(t, "Coach Lin", audit.ApprovedBy)
	require.NotNil(t, audit.ApprovedAt)
	assert.Equal(t, 2024, audit.ApprovedAt.Year())
	assert.Equal(t, "fidelity", audit.Checklist[len(audit.Checklist)-1].Rule)
	assert.Empty(t, audit.MustFix)
}

func TestAuditLessonPlanLocalFailureForcesFail(t *testing.T) {
	content := lessonVariant(60, 3) + "\n---\n\n" + lessonVariant(90, 5)
	response := mustJSON(map[string]any{
		"result":    "pass",
		"checklist": []map[string]any{},
		"must_fix":  []string{"a", "b", "c", "d", "e", "f", "g", "h"},
		"approved_fields": map[string]any{
			"approved_by": "Coach Lin",
		},
	})
	client := newTestClient(&fakeBackend{responses: []string{response}})

	audit, err := client.AuditLessonPlan(context.Background(), content, lessonMeta)
	require.NoError(t, err)

	assert.Equal(t, VerdictFail, audit.Verdict)
	assert.Len(t, audit.MustFix, MaxMustFix)
	assert.Contains(t, audit.MustFix[0], "variant 1 checklist")
	assert.Empty(t, audit.ApprovedBy)
	assert.Nil(t, audit.ApprovedAt)
}

func TestAuditLessonPlanUnknownVerdict(t *testing.T) {
	client := newTestClient(&fakeBackend{responses: []string{`{"result":"maybe","checklist":[],"must_fix":[]}`}})

	_, err := client.AuditLessonPlan(context.Background(), lessonContent(), lessonMeta)
	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StageAudit, genErr.Stage)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		in   string
		want Verdict
		ok   bool
	}{
		{"pass", VerdictPass, true},
		{"✅", VerdictPass, true},
		{"🔁 needs fix", VerdictNeedsFix, true},
		{"NEEDS_FIX", VerdictNeedsFix, true},
		{"❌", VerdictFail, true},
		{"fail", VerdictFail, true},
		{"unknown", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseVerdict(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
