package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
)

var (
	// KnowledgeCardMetaKeys are the exact keys of a knowledge card meta_json
	KnowledgeCardMetaKeys = []string{
		"brand", "domain", "tab", "topic_name", "topic_type",
		"system_location", "target_audience", "status", "media_ids",
	}

	// LessonPlanMetaKeys are the exact keys of a lesson plan meta_json
	LessonPlanMetaKeys = []string{
		"brand", "domain", "tab", "topic_id", "topic_name",
		"lesson_version", "lesson_type", "status", "media_ids", "keyword_policy",
	}

	// KeywordPolicyKeys are the exact keys of a lesson plan keyword_policy object
	KeywordPolicyKeys = []string{
		"allow_empty", "ai_autofill_when_empty", "max_keywords", "source",
	}
)

// MetaKeys returns the meta_json key set for the kind
func MetaKeys(kind Kind) []string {
	switch kind {
	case KindKnowledgeCard:
		return KnowledgeCardMetaKeys
	case KindLessonPlan:
		return LessonPlanMetaKeys
	default:
		return nil
	}
}

// CompactMeta checks that raw is a JSON object and returns it on a single line
func CompactMeta(raw string) (string, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 {
		return "", fmt.Errorf("meta_json is empty")
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return "", fmt.Errorf("meta_json is not a JSON object: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", fmt.Errorf("meta_json could not be compacted: %w", err)
	}

	return buf.String(), nil
}

// ValidateMeta checks that raw parses and carries exactly the key set of kind
func ValidateMeta(kind Kind, raw string) error {
	var object map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &object); err != nil {
		return fmt.Errorf("meta_json is not a JSON object: %w", err)
	}

	if err := exactKeys(object, MetaKeys(kind)); err != nil {
		return fmt.Errorf("meta_json: %w", err)
	}

	if kind != KindLessonPlan {
		return nil
	}

	var policy map[string]json.RawMessage
	if err := json.Unmarshal(object["keyword_policy"], &policy); err != nil {
		return fmt.Errorf("meta_json: keyword_policy is not an object")
	}
	if err := exactKeys(policy, KeywordPolicyKeys); err != nil {
		return fmt.Errorf("meta_json keyword_policy: %w", err)
	}

	return nil
}

func exactKeys(object map[string]json.RawMessage, want []string) error {
	var missing, extra []string

	for _, key := range want {
		if _, ok := object[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range object {
		if !slices.Contains(want, key) {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)

	switch {
	case len(missing) > 0:
		return fmt.Errorf("missing keys %v", missing)
	case len(extra) > 0:
		return fmt.Errorf("unexpected keys %v", extra)
	}
	return nil
}
