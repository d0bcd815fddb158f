// Package record holds the knowledge card / lesson plan record model and the
// pure rules around it: id assignment, section and meta_json inspection, and
// the finder's filter and merge.
package record

import (
	"slices"
	"strings"
	"time"
)

// Kind discriminates the two record variants
type Kind string

const (
	KindKnowledgeCard Kind = "KNOWLEDGE_CARD"
	KindLessonPlan    Kind = "LESSON_PLAN"
)

// ParseKind parses a kind name, accepting the id tags as aliases
func ParseKind(s string) (Kind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(KindKnowledgeCard), "TOPIC", "KNOWLEDGE", "CARD":
		return KindKnowledgeCard, true
	case string(KindLessonPlan), "LESSON", "PLAN":
		return KindLessonPlan, true
	default:
		return "", false
	}
}

// Tag returns the id tag for the kind (TOPIC or LESSON)
func (k Kind) Tag() string {
	switch k {
	case KindKnowledgeCard:
		return "TOPIC"
	case KindLessonPlan:
		return "LESSON"
	default:
		return ""
	}
}

// SectionCount is the number of labeled content sections for the kind. Lesson
// plans carry two variants of this many sections each
func (k Kind) SectionCount() int {
	switch k {
	case KindKnowledgeCard:
		return KnowledgeCardSections
	case KindLessonPlan:
		return LessonPlanSections
	default:
		return 0
	}
}

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	return k == KindKnowledgeCard || k == KindLessonPlan
}

// KindFromID derives a kind from the legacy id tag convention (-TOPIC- / -LESSON-)
func KindFromID(id string) (Kind, bool) {
	upper := strings.ToUpper(id)
	switch {
	case strings.Contains(upper, "-TOPIC-"):
		return KindKnowledgeCard, true
	case strings.Contains(upper, "-LESSON-"):
		return KindLessonPlan, true
	default:
		return "", false
	}
}

// Status is the lifecycle state of a record. It only moves draft -> approved
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
)

// ParseStatus parses a status label, including the labels used by older sheet rows
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft", "草稿":
		return StatusDraft, true
	case "approved", "已審定":
		return StatusApproved, true
	default:
		return "", false
	}
}

// Record is a knowledge card or lesson plan
type Record struct {
	ID         string     `json:"id"`
	Kind       Kind       `json:"kind"`
	TopicName  string     `json:"topic_name"`
	Brand      string     `json:"brand"`
	Domain     string     `json:"domain"`
	Content    string     `json:"content"`
	Summary    string     `json:"summary"`
	Keywords   []string   `json:"keywords"`
	MetaJSON   string     `json:"meta_json"`
	Status     Status     `json:"status"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	UpdatedAt  string     `json:"updated_at,omitempty"`
}

// EffectiveKind returns the record's kind, falling back to the id tag for
// records that predate the explicit field
func (r *Record) EffectiveKind() Kind {
	if r.Kind.Valid() {
		return r.Kind
	}
	kind, _ := KindFromID(r.ID)
	return kind
}

// IsApproved reports whether the record has been persisted with an approval
func (r *Record) IsApproved() bool {
	return r.Status == StatusApproved
}

// KeywordsText joins the keywords the way they travel on the wire and in the edit buffer
func (r *Record) KeywordsText() string {
	return strings.Join(r.Keywords, ", ")
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	out := *r
	out.Keywords = slices.Clone(r.Keywords)
	if r.ApprovedAt != nil {
		at := *r.ApprovedAt
		out.ApprovedAt = &at
	}
	return &out
}

// ParseKeywords splits comma separated keywords, trimming blanks and dropping
// duplicates (case-insensitive, first occurrence wins)
func ParseKeywords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '，' || r == '\n'
	})
	return NormalizeKeywords(fields)
}

// NormalizeKeywords trims, drops empties and suppresses duplicates while keeping order
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))

	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}

		key := strings.ToLower(keyword)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, keyword)
	}

	return out
}
