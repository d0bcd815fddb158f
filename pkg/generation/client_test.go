package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardRequest() DraftRequest {
	return DraftRequest{
		ID:         "ACME-TOPIC-001",
		Brand:      "ACME",
		Domain:     "Swimming",
		TopicName:  "Flip turn",
		SourceText: "Tuck, rotate, push off the wall.",
		Tab:        "主題知識卡",
	}
}

func TestDraftKnowledgeCard(t *testing.T) {
	backend := &fakeBackend{responses: []string{draftJSON(cardContent(5), cardMeta)}}
	client := newTestClient(backend)

	r, err := client.DraftKnowledgeCard(context.Background(), cardRequest())
	require.NoError(t, err)

	assert.Equal(t, "ACME-TOPIC-001", r.ID)
	assert.Equal(t, record.KindKnowledgeCard, r.Kind)
	assert.Equal(t, record.StatusDraft, r.Status)
	assert.Equal(t, "Flip turn", r.TopicName)
	assert.Equal(t, []string{"turn", "wall"}, r.Keywords)
	assert.Equal(t, cardMeta, r.MetaJSON)

	sections := record.ParseSections(r.Content)
	require.Len(t, sections, record.KnowledgeCardSections)
	assert.Equal(t, record.InsufficientPlaceholder, sections[4].Body)

	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "Tuck, rotate, push off the wall.")
	assert.Contains(t, backend.prompts[0], "- ID: ACME-TOPIC-001")
	assert.Contains(t, backend.prompts[0], record.InsufficientPlaceholder)
	assert.Equal(t, knowledgeCardSchema, backend.schemas[0])
}

func TestDraftRequiresInputWithoutCalling(t *testing.T) {
	backend := &fakeBackend{}
	client := newTestClient(backend)

	req := cardRequest()
	req.TopicName = "  "
	_, err := client.DraftKnowledgeCard(context.Background(), req)

	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StageGeneration, genErr.Stage)
	assert.Empty(t, backend.prompts)
}

func TestDraftFailsLoudly(t *testing.T) {
	tests := []struct {
		name     string
		response string
		reason   string
	}{
		{"not json", "Sorry, I can't help with that.", "malformed output"},
		{"missing field", `{"topic_name":"x","summary":"s","keywords":[],"meta_json":"{}"}`, `"content"`},
		{"empty content", draftJSON("", cardMeta), "content is empty"},
		{"wrong section count", draftJSON("#### 一、Only\nbody", cardMeta), "sections"},
		{"meta not json", draftJSON(cardContent(0), "{brand"), "meta_json"},
		{"meta wrong keys", draftJSON(cardContent(0), `{"brand":"ACME"}`), "missing keys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(&fakeBackend{responses: []string{tt.response}})

			r, err := client.DraftKnowledgeCard(context.Background(), cardRequest())
			assert.Nil(t, r)

			var genErr *Error
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, StageGeneration, genErr.Stage)
			assert.Contains(t, genErr.Reason, tt.reason)
		})
	}
}

func TestDraftProviderErrors(t *testing.T) {
	client := newTestClient(&fakeBackend{err: errors.Join(ErrQuota, errors.New("429"))})

	_, err := client.DraftKnowledgeCard(context.Background(), cardRequest())
	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.True(t, genErr.Quota)
	assert.ErrorIs(t, err, ErrQuota)

	client = newTestClient(&fakeBackend{err: errors.New("connection reset")})
	_, err = client.DraftKnowledgeCard(context.Background(), cardRequest())
	require.ErrorAs(t, err, &genErr)
	assert.False(t, genErr.Quota)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestDraftLessonPlan(t *testing.T) {
	backend := &fakeBackend{responses: []string{draftJSON(lessonContent(), lessonMeta)}}
	client := newTestClient(backend)

	req := cardRequest()
	req.ID = "ACME-LESSON-001"
	req.Tab = "教案模板"
	req.RelatedTopicID = "ACME-TOPIC-001"

	r, err := client.DraftLessonPlan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, record.KindLessonPlan, r.Kind)
	assert.Len(t, record.SplitVariants(r.Content), record.LessonPlanVariants)
	assert.Contains(t, backend.prompts[0], `topic_id is "ACME-TOPIC-001"`)
	assert.Contains(t, backend.prompts[0], "- Related topic id: ACME-TOPIC-001")
}

func TestDraftLessonPlanRejectsBadChecklist(t *testing.T) {
	content := lessonVariant(60, 4) + "\n---\n\n" + lessonVariant(90, 5)
	client := newTestClient(&fakeBackend{responses: []string{draftJSON(content, lessonMeta)}})

	req := cardRequest()
	req.ID = "ACME-LESSON-001"
	_, err := client.DraftLessonPlan(context.Background(), req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "variant 1 checklist")
}

func TestDraftAcceptsInlineMetaObject(t *testing.T) {
	response := strings.Replace(draftJSON(cardContent(0), "PLACEHOLDER"), `"PLACEHOLDER"`, cardMeta, 1)
	client := newTestClient(&fakeBackend{responses: []string{"```json\n" + response + "\n```"}})

	r, err := client.DraftKnowledgeCard(context.Background(), cardRequest())
	require.NoError(t, err)
	assert.Equal(t, cardMeta, r.MetaJSON)
}

func TestPromptOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir, PromptKnowledgeCardDraft, "Custom card for {{.Brand}} with {{.Sections}} sections"))

	backend := &fakeBackend{responses: []string{draftJSON(cardContent(0), cardMeta)}}
	client, err := New(backend, Options{PromptDir: dir})
	require.NoError(t, err)

	_, err = client.DraftKnowledgeCard(context.Background(), cardRequest())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(backend.prompts[0], "Custom card for ACME with 13 sections"))
}

func TestPromptOverrideMustParse(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir, PromptLessonPlanAudit, "broken {{.Brand"))

	_, err := New(&fakeBackend{}, Options{PromptDir: dir})
	assert.Error(t, err)
}

func TestNewRequiresBackend(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}
