package generation

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/ethanbaker/hq-console/pkg/utils"
)

// PromptBuilder assembles an instruction, ordered facts and named text blocks
type PromptBuilder struct {
	instructions string
	facts        [][2]string
	sections     [][2]string
}

// NewPromptBuilder creates a builder around rendered instructions
func NewPromptBuilder(instructions string) *PromptBuilder {
	return &PromptBuilder{instructions: instructions}
}

// AddFact adds a key-value fact. Empty values are skipped
func (pb *PromptBuilder) AddFact(key, value string) *PromptBuilder {
	if strings.TrimSpace(value) != "" {
		pb.facts = append(pb.facts, [2]string{key, value})
	}
	return pb
}

// AddSection adds a titled block of free text
func (pb *PromptBuilder) AddSection(title, body string) *PromptBuilder {
	pb.sections = append(pb.sections, [2]string{title, body})
	return pb
}

// Build constructs the final prompt
func (pb *PromptBuilder) Build() string {
	parts := []string{pb.instructions}

	if len(pb.facts) > 0 {
		parts = append(parts, "\n## Key Facts:")
		for _, fact := range pb.facts {
			parts = append(parts, fmt.Sprintf("- %s: %s", fact[0], fact[1]))
		}
	}

	for _, section := range pb.sections {
		parts = append(parts, fmt.Sprintf("\n## %s:", section[0]), section[1])
	}

	return strings.Join(parts, "\n")
}

// Prompt template names, also the file names looked up under PROMPT_DIR
const (
	PromptKnowledgeCardDraft = "knowledge_card_draft.tmpl"
	PromptLessonPlanDraft    = "lesson_plan_draft.tmpl"
	PromptKnowledgeCardAudit = "knowledge_card_audit.tmpl"
	PromptLessonPlanAudit    = "lesson_plan_audit.tmpl"
)

const defaultKnowledgeCardDraft = `You are the curriculum editor for {{.Brand}}. Turn the source text into a topic knowledge card in the {{.Domain}} domain.

Rules:
- content has exactly {{.Sections}} sections in order. Each section starts with a heading line of the form "#### 一、Title", numbered {{.FirstNumeral}} to {{.LastNumeral}}.
- Use only facts found in the source text. When the source does not support a section, its body is exactly "{{.Placeholder}}". Never invent content.
- summary is one or two short paragraphs.
- keywords is a list of distinct short tags.
- meta_json is a single-line JSON object (as a string) with exactly the keys: {{.MetaKeys}}. tab is "{{.Tab}}", status is "draft" and media_ids holds media identifiers only, never file names or URLs.`

const defaultLessonPlanDraft = `You are the curriculum editor for {{.Brand}}. Turn the source text into a lesson plan in the {{.Domain}} domain.

Rules:
- content holds two full variants, a shorter and a longer scheduled version, separated by a line containing only "---".
- Each variant has exactly {{.Sections}} sections in order. Each section starts with a heading line of the form "#### 一、Title", numbered {{.FirstNumeral}} to {{.LastNumeral}}.
- Section {{.ChecklistSection}} of each variant is a checklist of exactly {{.ChecklistItems}} items written as "- [ ] item".
- Section {{.MediaSection}} of each variant lists media identifiers only. Never write file names, file_url values or URLs.
- Use only facts found in the source text. When the source does not support a section, its body is exactly "{{.Placeholder}}". Never invent content.
- summary is one or two short paragraphs.
- keywords is a list of distinct short tags.
- meta_json is a single-line JSON object (as a string) with exactly the keys: {{.MetaKeys}}. keyword_policy is an object with exactly the keys: {{.PolicyKeys}}. tab is "{{.Tab}}", status is "draft"{{if .RelatedTopicID}} and topic_id is "{{.RelatedTopicID}}"{{end}}.`

const defaultKnowledgeCardAudit = `You review topic knowledge cards for {{.Brand}}. Check the card below against these rules:
- Structure: exactly {{.Sections}} numbered sections in order, none missing, none renumbered.
- Fidelity: nothing beyond what the card already states is added; unsupported sections read "{{.Placeholder}}".
- Fields: summary is one or two paragraphs, keywords are distinct, meta_json is single-line JSON with exactly the keys: {{.MetaKeys}}.

Return a readable report of every problem found and, in corrected_json, the full corrected card. Keep section headings and their order unchanged.`

const defaultLessonPlanAudit = `You review lesson plans. Check the lesson plan content and meta_json below against these rules:
- Two variants separated by a "---" line, each with exactly {{.Sections}} numbered sections in order.
- Section {{.ChecklistSection}} of each variant has exactly {{.ChecklistItems}} "- [ ]" items.
- Section {{.MediaSection}} of each variant has media identifiers only, no file references.
- meta_json has exactly the keys: {{.MetaKeys}}; keyword_policy has exactly: {{.PolicyKeys}}.

result is "pass", "needs_fix" or "fail". checklist has one entry per rule. must_fix lists at most {{.MaxMustFix}} imperative fix instructions. When the result is pass, fill approved_fields with approved_by "{{.Reviewer}}" and approved_at as an RFC 3339 timestamp.`

var defaultPrompts = map[string]string{
	PromptKnowledgeCardDraft: defaultKnowledgeCardDraft,
	PromptLessonPlanDraft:    defaultLessonPlanDraft,
	PromptKnowledgeCardAudit: defaultKnowledgeCardAudit,
	PromptLessonPlanAudit:    defaultLessonPlanAudit,
}

// promptData is the template input of every prompt
type promptData struct {
	Brand            string
	Domain           string
	Tab              string
	RelatedTopicID   string
	Reviewer         string
	Placeholder      string
	Sections         int
	FirstNumeral     string
	LastNumeral      string
	ChecklistSection int
	ChecklistItems   int
	MediaSection     int
	MaxMustFix       int
	MetaKeys         string
	PolicyKeys       string
}

func newPromptData(kind record.Kind) promptData {
	return promptData{
		Placeholder:      record.InsufficientPlaceholder,
		Sections:         kind.SectionCount(),
		FirstNumeral:     record.Numeral(1),
		LastNumeral:      record.Numeral(kind.SectionCount()),
		ChecklistSection: record.ChecklistSection,
		ChecklistItems:   record.ChecklistItems,
		MediaSection:     record.MediaSection,
		MaxMustFix:       MaxMustFix,
		MetaKeys:         strings.Join(record.MetaKeys(kind), ", "),
		PolicyKeys:       strings.Join(record.KeywordPolicyKeys, ", "),
	}
}

// loadPrompts parses the built-in templates, replacing any that exist as files in dir
func loadPrompts(dir string) (map[string]*template.Template, error) {
	prompts := make(map[string]*template.Template, len(defaultPrompts))

	for name, fallback := range defaultPrompts {
		text := utils.LoadPromptWithFallback(utils.PromptPath(dir, name), fallback)

		tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt %s: %w", name, err)
		}
		prompts[name] = tmpl
	}

	return prompts, nil
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}
