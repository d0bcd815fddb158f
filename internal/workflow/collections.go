package workflow

import (
	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/ethanbaker/hq-console/pkg/utils"
)

// Default collection (sheet tab) names
const (
	DefaultKnowledgeCardTab = "主題知識卡"
	DefaultLessonPlanTab    = "教案模板"
)

// Collections maps each record kind to its remote collection
type Collections struct {
	KnowledgeCard string `json:"knowledge_card"`
	LessonPlan    string `json:"lesson_plan"`
}

// DefaultCollections returns the built-in tab names
func DefaultCollections() Collections {
	return Collections{KnowledgeCard: DefaultKnowledgeCardTab, LessonPlan: DefaultLessonPlanTab}
}

// CollectionsFromConfig reads SHEET_TAB_KNOWLEDGE_CARD and SHEET_TAB_LESSON_PLAN
func CollectionsFromConfig(cfg *utils.Config) Collections {
	return Collections{
		KnowledgeCard: cfg.GetWithDefault("SHEET_TAB_KNOWLEDGE_CARD", DefaultKnowledgeCardTab),
		LessonPlan:    cfg.GetWithDefault("SHEET_TAB_LESSON_PLAN", DefaultLessonPlanTab),
	}
}

// For returns the collection of kind
func (c Collections) For(kind record.Kind) string {
	if kind == record.KindLessonPlan {
		return c.LessonPlan
	}
	return c.KnowledgeCard
}
