package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethanbaker/hq-console/pkg/record"
)

const (
	cardMeta   = `{"brand":"ACME","domain":"Swimming","tab":"主題知識卡","topic_name":"Flip turn","topic_type":"skill","system_location":"L2","target_audience":"coach","status":"draft","media_ids":[]}`
	lessonMeta = `{"brand":"ACME","domain":"Swimming","tab":"教案模板","topic_id":"ACME-TOPIC-001","topic_name":"Flip turn","lesson_version":"60/90","lesson_type":"skill","status":"draft","media_ids":["IMG-01"],"keyword_policy":{"allow_empty":true,"ai_autofill_when_empty":false,"max_keywords":8,"source":"manual"}}`
)

// fakeBackend returns canned responses in order and records every prompt
type fakeBackend struct {
	responses []string
	err       error
	prompts   []string
	schemas   []*Schema
}

func (f *fakeBackend) Generate(ctx context.Context, prompt string, schema *Schema) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("no canned response")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func cardContent(emptySection int) string {
	var b strings.Builder
	for i := 1; i <= record.KnowledgeCardSections; i++ {
		fmt.Fprintf(&b, "#### %s、Part %d\n", record.Numeral(i), i)
		if i != emptySection {
			fmt.Fprintf(&b, "Body of part %d.\n", i)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func lessonVariant(minutes, checkItems int) string {
	var b strings.Builder
	for i := 1; i <= record.LessonPlanSections; i++ {
		fmt.Fprintf(&b, "#### %s、Section %d (%d min)\n", record.Numeral(i), i, minutes)
		switch i {
		case record.ChecklistSection:
			for j := 1; j <= checkItems; j++ {
				fmt.Fprintf(&b, "- [ ] criterion %d\n", j)
			}
		case record.MediaSection:
			b.WriteString("MEDIA-FLIP-01\n")
		default:
			fmt.Fprintf(&b, "Text %d.\n", i)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func lessonContent() string {
	return lessonVariant(60, record.ChecklistItems) + "\n---\n\n" + lessonVariant(90, record.ChecklistItems)
}

func mustJSON(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(out)
}

func draftJSON(content, meta string) string {
	return mustJSON(map[string]any{
		"topic_name": "Flip turn",
		"summary":    "How to turn at the wall.",
		"content":    content,
		"keywords":   []string{"turn", "wall", "Turn", " "},
		"meta_json":  meta,
	})
}

func newTestClient(backend Backend) *Client {
	client, err := New(backend, Options{})
	if err != nil {
		panic(err)
	}
	return client
}
