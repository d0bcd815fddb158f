package generation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ethanbaker/hq-console/pkg/record"
)

// MaxMustFix bounds the fix instructions of a lesson plan audit
const MaxMustFix = 7

// CardAudit is the result of a knowledge card self-audit. Corrected is nil when
// the provider returned no correction
type CardAudit struct {
	Report    string           `json:"report"`
	Corrected *record.Record   `json:"corrected,omitempty"`
	Findings  []record.Finding `json:"findings"`
}

type cardAuditResponse struct {
	Report    string         `json:"report"`
	Corrected *draftResponse `json:"corrected_json"`
}

var cardAuditSchema = Object(
	Field{Name: "report", Schema: String("readable audit report"), Required: true},
	Field{Name: "corrected_json", Schema: Object(draftFields(false)...)},
).Named("knowledge_card_audit")

// AuditKnowledgeCard reviews a knowledge card and returns a report plus a
// corrected copy of the record
func (c *Client) AuditKnowledgeCard(ctx context.Context, r *record.Record) (*CardAudit, error) {
	if r == nil || strings.TrimSpace(r.Content) == "" {
		return nil, newError(StageAudit, nil, "record content is empty")
	}

	data := newPromptData(record.KindKnowledgeCard)
	data.Brand = r.Brand
	data.Domain = r.Domain
	data.Reviewer = c.reviewer

	instructions, err := render(c.prompts[PromptKnowledgeCardAudit], data)
	if err != nil {
		return nil, newError(StageAudit, err, "prompt")
	}

	prompt := NewPromptBuilder(instructions).
		AddFact("ID", r.ID).
		AddFact("Topic name", r.TopicName).
		AddFact("Keywords", r.KeywordsText()).
		AddFact("meta_json", r.MetaJSON).
		AddSection("Summary", r.Summary).
		AddSection("Content", r.Content).
		Build()

	text, err := c.backend.Generate(ctx, prompt, cardAuditSchema)
	if err != nil {
		return nil, newError(StageAudit, err, "provider request")
	}

	var resp cardAuditResponse
	if err := decodeResponse(text, cardAuditSchema, &resp); err != nil {
		return nil, newError(StageAudit, err, "malformed output")
	}

	audit := &CardAudit{Report: strings.TrimSpace(resp.Report)}

	inspected := r
	if resp.Corrected != nil && strings.TrimSpace(resp.Corrected.Content) != "" {
		corrected, err := applyCorrection(r, *resp.Corrected)
		if err != nil {
			return nil, newError(StageAudit, err, "invalid correction")
		}
		audit.Corrected = corrected
		inspected = corrected
	}
	audit.Findings = record.InspectKnowledgeCard(inspected.Content, inspected.MetaJSON)

	log.Printf("[GENERATION]: Audited knowledge card %s (corrected: %t)", r.ID, audit.Corrected != nil)
	return audit, nil
}

// applyCorrection copies r with the corrected content, summary, keywords and
// meta_json. The correction must pass the knowledge card inspection and keep
// the section titles of r
func applyCorrection(r *record.Record, resp draftResponse) (*record.Record, error) {
	content := record.FillPlaceholders(strings.TrimSpace(resp.Content))

	meta, err := record.CompactMeta(string(resp.MetaJSON))
	if err != nil {
		return nil, err
	}

	if err := failedFindings(record.InspectKnowledgeCard(content, meta)); err != nil {
		return nil, err
	}
	if err := record.CheckTitles(record.ParseSections(content), record.ParseSections(r.Content)); err != nil {
		return nil, err
	}

	out := r.Clone()
	out.Content = content
	out.MetaJSON = meta
	out.Keywords = record.NormalizeKeywords(resp.Keywords)
	if summary := strings.TrimSpace(resp.Summary); summary != "" {
		out.Summary = summary
	}

	return out, nil
}

// Verdict is the outcome of a lesson plan audit
type Verdict string

const (
	VerdictPass     Verdict = "pass"
	VerdictNeedsFix Verdict = "needs_fix"
	VerdictFail     Verdict = "fail"
)

// ParseVerdict accepts the verdict names and their symbols (✅ 🔁 ❌)
func ParseVerdict(s string) (Verdict, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "pass" || s == "passed" || strings.HasPrefix(s, "✅"):
		return VerdictPass, true
	case s == "needs_fix" || s == "needs fix" || s == "revise" || strings.HasPrefix(s, "🔁"):
		return VerdictNeedsFix, true
	case s == "fail" || s == "failed" || strings.HasPrefix(s, "❌"):
		return VerdictFail, true
	default:
		return "", false
	}
}

// LessonAudit is the result of a lesson plan self-audit. The checklist starts
// with the local structural findings; any failing one forces a fail verdict
type LessonAudit struct {
	Verdict    Verdict          `json:"verdict"`
	Checklist  []record.Finding `json:"checklist"`
	MustFix    []string         `json:"must_fix"`
	QuickNotes string           `json:"quick_notes,omitempty"`
	ApprovedBy string           `json:"approved_by,omitempty"`
	ApprovedAt *time.Time       `json:"approved_at,omitempty"`
}

// Passed reports whether the audit cleared the plan for approval
func (a *LessonAudit) Passed() bool {
	return a != nil && a.Verdict == VerdictPass
}

type lessonAuditResponse struct {
	Result     string           `json:"result"`
	Checklist  []record.Finding `json:"checklist"`
	MustFix    []string         `json:"must_fix"`
	QuickNotes string           `json:"quick_notes"`
	Approved   *struct {
		ApprovedBy string `json:"approved_by"`
		ApprovedAt string `json:"approved_at"`
	} `json:"approved_fields"`
}

var lessonAuditSchema = Object(
	Field{Name: "result", Schema: String("pass, needs_fix or fail"), Required: true},
	Field{Name: "checklist", Schema: Array(Object(
		Field{Name: "rule", Schema: String("rule checked"), Required: true},
		Field{Name: "passed", Schema: Boolean("whether the rule holds"), Required: true},
		Field{Name: "detail", Schema: String("what is wrong")},
	), "one entry per rule"), Required: true},
	Field{Name: "must_fix", Schema: Array(String(""), "imperative fix instructions"), Required: true},
	Field{Name: "quick_notes", Schema: String("short notes")},
	Field{Name: "approved_fields", Schema: Object(
		Field{Name: "approved_by", Schema: String("approver identity")},
		Field{Name: "approved_at", Schema: String("RFC 3339 timestamp")},
	)},
).Named("lesson_plan_audit")

// AuditLessonPlan reviews lesson plan content and meta_json
func (c *Client) AuditLessonPlan(ctx context.Context, content, meta string) (*LessonAudit, error) {
	if strings.TrimSpace(content) == "" {
		return nil, newError(StageAudit, nil, "lesson plan content is empty")
	}

	data := newPromptData(record.KindLessonPlan)
	data.Reviewer = c.reviewer

	instructions, err := render(c.prompts[PromptLessonPlanAudit], data)
	if err != nil {
		return nil, newError(StageAudit, err, "prompt")
	}

	prompt := NewPromptBuilder(instructions).
		AddSection("meta_json", meta).
		AddSection("Content", content).
		Build()

	text, err := c.backend.Generate(ctx, prompt, lessonAuditSchema)
	if err != nil {
		return nil, newError(StageAudit, err, "provider request")
	}

	var resp lessonAuditResponse
	if err := decodeResponse(text, lessonAuditSchema, &resp); err != nil {
		return nil, newError(StageAudit, err, "malformed output")
	}

	verdict, ok := ParseVerdict(resp.Result)
	if !ok {
		return nil, newError(StageAudit, nil, "unknown verdict %q", resp.Result)
	}

	audit := mergeLessonAudit(record.InspectLessonPlan(content, meta), verdict, resp)

	log.Printf("[GENERATION]: Audited lesson plan, verdict %s with %d fixes", audit.Verdict, len(audit.MustFix))
	return audit, nil
}

// mergeLessonAudit combines the local structural findings with the provider's review
func mergeLessonAudit(local []record.Finding, verdict Verdict, resp lessonAuditResponse) *LessonAudit {
	audit := &LessonAudit{
		Verdict:    verdict,
		Checklist:  append(append([]record.Finding{}, local...), resp.Checklist...),
		QuickNotes: strings.TrimSpace(resp.QuickNotes),
	}

	var fixes []string
	for _, f := range record.Failed(local) {
		fixes = append(fixes, fmt.Sprintf("Fix %s: %s", f.Rule, f.Detail))
	}
	if len(fixes) > 0 {
		audit.Verdict = VerdictFail
	}

	for _, fix := range resp.MustFix {
		if fix = strings.TrimSpace(fix); fix != "" {
			fixes = append(fixes, fix)
		}
	}
	if len(fixes) > MaxMustFix {
		fixes = fixes[:MaxMustFix]
	}
	audit.MustFix = fixes
	if audit.MustFix == nil {
		audit.MustFix = []string{}
	}

	if audit.Verdict == VerdictPass && resp.Approved != nil {
		audit.ApprovedBy = strings.TrimSpace(resp.Approved.ApprovedBy)
		if audit.ApprovedBy != "" {
			audit.ApprovedAt = parseApprovedAt(resp.Approved.ApprovedAt)
		}
	}

	return audit
}

func parseApprovedAt(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
