// Package generation drafts and audits knowledge cards and lesson plans by
// sending schema constrained prompts to a generative text provider.
package generation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"text/template"

	"github.com/ethanbaker/hq-console/pkg/record"
)

// Client runs the draft and audit operations over a Backend
type Client struct {
	backend  Backend
	prompts  map[string]*template.Template
	reviewer string
}

// Options configures a Client
type Options struct {
	// PromptDir holds template files overriding the built-in prompts
	PromptDir string

	// Reviewer is the approver identity the lesson plan audit stamps on a pass
	Reviewer string
}

// New creates a Client
func New(backend Backend, opts Options) (*Client, error) {
	if backend == nil {
		return nil, fmt.Errorf("generation backend is required")
	}

	prompts, err := loadPrompts(opts.PromptDir)
	if err != nil {
		return nil, err
	}

	if opts.Reviewer == "" {
		opts.Reviewer = "HQ"
	}

	return &Client{backend: backend, prompts: prompts, reviewer: opts.Reviewer}, nil
}

// DraftRequest is the input of a draft. ID is assigned by the caller
type DraftRequest struct {
	ID             string
	Brand          string
	Domain         string
	TopicName      string
	SourceText     string
	Tab            string
	RelatedTopicID string
}

// draftResponse is the generated shape shared by drafts and corrections
type draftResponse struct {
	TopicName string   `json:"topic_name"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	Keywords  []string `json:"keywords"`
	MetaJSON  metaText `json:"meta_json"`
}

func draftFields(required bool) []Field {
	return []Field{
		{Name: "topic_name", Schema: String("human title"), Required: required},
		{Name: "summary", Schema: String("one or two short paragraphs"), Required: true},
		{Name: "content", Schema: String("numbered markdown sections"), Required: true},
		{Name: "keywords", Schema: Array(String(""), "distinct tags"), Required: true},
		{Name: "meta_json", Schema: String("single-line JSON object"), Required: true},
	}
}

var (
	knowledgeCardSchema = Object(draftFields(true)...).Named("knowledge_card")
	lessonPlanSchema    = Object(draftFields(true)...).Named("lesson_plan")
)

// DraftKnowledgeCard generates a thirteen section knowledge card draft
func (c *Client) DraftKnowledgeCard(ctx context.Context, req DraftRequest) (*record.Record, error) {
	return c.draft(ctx, record.KindKnowledgeCard, PromptKnowledgeCardDraft, knowledgeCardSchema, req)
}

// DraftLessonPlan generates a two variant lesson plan draft, optionally tied to a knowledge card
func (c *Client) DraftLessonPlan(ctx context.Context, req DraftRequest) (*record.Record, error) {
	return c.draft(ctx, record.KindLessonPlan, PromptLessonPlanDraft, lessonPlanSchema, req)
}

func (c *Client) draft(ctx context.Context, kind record.Kind, promptName string, schema *Schema, req DraftRequest) (*record.Record, error) {
	if strings.TrimSpace(req.TopicName) == "" || strings.TrimSpace(req.SourceText) == "" {
		return nil, newError(StageGeneration, nil, "topic name and source text are required")
	}

	data := newPromptData(kind)
	data.Brand = req.Brand
	data.Domain = req.Domain
	data.Tab = req.Tab
	data.RelatedTopicID = req.RelatedTopicID
	data.Reviewer = c.reviewer

	instructions, err := render(c.prompts[promptName], data)
	if err != nil {
		return nil, newError(StageGeneration, err, "prompt")
	}

	prompt := NewPromptBuilder(instructions).
		AddFact("ID", req.ID).
		AddFact("Brand", req.Brand).
		AddFact("Domain", req.Domain).
		AddFact("Topic name", req.TopicName).
		AddFact("Related topic id", req.RelatedTopicID).
		AddSection("Source Text", req.SourceText).
		Build()

	text, err := c.backend.Generate(ctx, prompt, schema)
	if err != nil {
		return nil, newError(StageGeneration, err, "provider request")
	}

	var resp draftResponse
	if err := decodeResponse(text, schema, &resp); err != nil {
		return nil, newError(StageGeneration, err, "malformed output")
	}

	r, err := buildDraft(kind, req, resp)
	if err != nil {
		return nil, newError(StageGeneration, err, "invalid draft")
	}

	log.Printf("[GENERATION]: Drafted %s '%s' (%s)", kind, r.TopicName, r.ID)
	return r, nil
}

// buildDraft turns a response into a draft record, refusing anything that does
// not carry the full structure of its kind
// failedFindings joins the failing findings into one error, or returns nil
func failedFindings(findings []record.Finding) error {
	failed := record.Failed(findings)
	if len(failed) == 0 {
		return nil
	}

	details := make([]string, len(failed))
	for i, f := range failed {
		details[i] = f.Rule + ": " + f.Detail
	}
	return fmt.Errorf("%s", strings.Join(details, "; "))
}

func buildDraft(kind record.Kind, req DraftRequest, resp draftResponse) (*record.Record, error) {
	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return nil, fmt.Errorf("content is empty")
	}
	content = record.FillPlaceholders(content)

	summary := strings.TrimSpace(resp.Summary)
	if summary == "" {
		return nil, fmt.Errorf("summary is empty")
	}

	meta, err := record.CompactMeta(string(resp.MetaJSON))
	if err != nil {
		return nil, err
	}

	if err := failedFindings(record.Inspect(kind, content, meta)); err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(req.TopicName)
	if topic == "" {
		topic = strings.TrimSpace(resp.TopicName)
	}

	return &record.Record{
		ID:        req.ID,
		Kind:      kind,
		TopicName: topic,
		Brand:     req.Brand,
		Domain:    req.Domain,
		Content:   content,
		Summary:   summary,
		Keywords:  record.NormalizeKeywords(resp.Keywords),
		MetaJSON:  meta,
		Status:    record.StatusDraft,
	}, nil
}
