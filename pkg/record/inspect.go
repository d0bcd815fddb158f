package record

import "fmt"

// Finding is the outcome of one structural rule
type Finding struct {
	Rule   string `json:"rule"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Failed filters the findings that did not pass
func Failed(findings []Finding) []Finding {
	var out []Finding
	for _, f := range findings {
		if !f.Passed {
			out = append(out, f)
		}
	}
	return out
}

func check(rule string, err error) Finding {
	if err != nil {
		return Finding{Rule: rule, Passed: false, Detail: err.Error()}
	}
	return Finding{Rule: rule, Passed: true}
}

// InspectKnowledgeCard runs the structural rules of a knowledge card: thirteen
// numbered sections in order and a nine-key meta_json
func InspectKnowledgeCard(content, meta string) []Finding {
	return []Finding{
		check("sections", CheckSequence(ParseSections(content), KnowledgeCardSections)),
		check("meta_json", ValidateMeta(KindKnowledgeCard, meta)),
	}
}

// InspectLessonPlan runs the structural rules of a lesson plan: two variants of
// nine numbered sections, five check boxes in section 8, no raw file reference
// in section 9 and a ten-key meta_json
func InspectLessonPlan(content, meta string) []Finding {
	variants := SplitVariants(content)

	findings := []Finding{
		check("variants", func() error {
			if len(variants) != LessonPlanVariants {
				return fmt.Errorf("expected %d variants separated by %q, found %d", LessonPlanVariants, variantSeparator, len(variants))
			}
			return nil
		}()),
	}

	for i, variant := range variants {
		label := fmt.Sprintf("variant %d", i+1)
		sections := ParseSections(variant)

		if err := CheckSequence(sections, LessonPlanSections); err != nil {
			findings = append(findings, check(label+" sections", err))
			continue
		}
		findings = append(findings, check(label+" sections", nil))

		checklist := sections[ChecklistSection-1]
		findings = append(findings, check(label+" checklist", func() error {
			if n := CountCheckboxes(checklist.Body); n != ChecklistItems {
				return fmt.Errorf("section %d has %d check items, expected %d", ChecklistSection, n, ChecklistItems)
			}
			return nil
		}()))

		media := sections[MediaSection-1]
		findings = append(findings, check(label+" media", func() error {
			if HasFileReference(media.Body) {
				return fmt.Errorf("section %d contains a raw file reference", MediaSection)
			}
			return nil
		}()))
	}

	findings = append(findings, check("meta_json", ValidateMeta(KindLessonPlan, meta)))

	return findings
}

// Inspect dispatches to the inspection for kind
func Inspect(kind Kind, content, meta string) []Finding {
	switch kind {
	case KindLessonPlan:
		return InspectLessonPlan(content, meta)
	default:
		return InspectKnowledgeCard(content, meta)
	}
}
