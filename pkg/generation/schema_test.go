package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestSchemaGenAI(t *testing.T) {
	out := lessonAuditSchema.GenAI()

	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, []string{"result", "checklist", "must_fix"}, out.Required)
	assert.Equal(t, []string{"result", "checklist", "must_fix", "quick_notes", "approved_fields"}, out.PropertyOrdering)

	checklist := out.Properties["checklist"]
	require.NotNil(t, checklist)
	assert.Equal(t, genai.TypeArray, checklist.Type)
	require.NotNil(t, checklist.Items)
	assert.Equal(t, genai.TypeBoolean, checklist.Items.Properties["passed"].Type)
}

func TestSchemaJSONSchema(t *testing.T) {
	out := knowledgeCardSchema.JSONSchema()

	assert.Equal(t, "object", out["type"])
	assert.Equal(t, false, out["additionalProperties"])
	assert.Equal(t, []string{"topic_name", "summary", "content", "keywords", "meta_json"}, out["required"])

	props := out["properties"].(map[string]any)
	keywords := props["keywords"].(map[string]any)
	assert.Equal(t, "array", keywords["type"])
	assert.Equal(t, map[string]any{"type": "string"}, keywords["items"])
}

func TestSchemaNil(t *testing.T) {
	var s *Schema
	assert.Nil(t, s.GenAI())
	assert.Nil(t, s.JSONSchema())
}
