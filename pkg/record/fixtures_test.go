package record

import (
	"fmt"
	"strings"
)

const (
	cardMeta   = `{"brand":"ACME","domain":"Swimming","tab":"主題知識卡","topic_name":"Flip turn","topic_type":"skill","system_location":"L2","target_audience":"coach","status":"draft","media_ids":[]}`
	lessonMeta = `{"brand":"ACME","domain":"Swimming","tab":"教案模板","topic_id":"ACME-TOPIC-001","topic_name":"Flip turn","lesson_version":"60/90","lesson_type":"skill","status":"draft","media_ids":["IMG-01"],"keyword_policy":{"allow_empty":true,"ai_autofill_when_empty":false,"max_keywords":8,"source":"manual"}}`
)

func cardContent() string {
	var b strings.Builder
	for i := 1; i <= KnowledgeCardSections; i++ {
		fmt.Fprintf(&b, "#### %s、Part %d\nBody of part %d.\n\n", Numeral(i), i, i)
	}
	return b.String()
}

func lessonVariant(minutes int) string {
	var b strings.Builder
	for i := 1; i <= LessonPlanSections; i++ {
		fmt.Fprintf(&b, "#### %s、Section %d (%d min)\n", Numeral(i), i, minutes)
		switch i {
		case ChecklistSection:
			for j := 1; j <= ChecklistItems; j++ {
				fmt.Fprintf(&b, "- [ ] criterion %d\n", j)
			}
		case MediaSection:
			b.WriteString("MEDIA-FLIP-01\n")
		default:
			fmt.Fprintf(&b, "Text %d.\n", i)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func lessonContent() string {
	return lessonVariant(60) + "\n---\n\n" + lessonVariant(90)
}
