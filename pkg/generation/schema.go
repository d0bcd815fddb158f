package generation

import "google.golang.org/genai"

// SchemaType is a primitive JSON type of a response schema node
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeBoolean SchemaType = "boolean"
	TypeInteger SchemaType = "integer"
)

// Schema is the provider independent output shape sent with every request
type Schema struct {
	Name        string
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Order       []string
	Items       *Schema
	Required    []string
}

// Field is a named property used to build object schemas in order
type Field struct {
	Name     string
	Schema   *Schema
	Required bool
}

// Object builds an object schema whose property order follows fields
func Object(fields ...Field) *Schema {
	s := &Schema{Type: TypeObject, Properties: make(map[string]*Schema, len(fields))}
	for _, f := range fields {
		s.Properties[f.Name] = f.Schema
		s.Order = append(s.Order, f.Name)
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

// String builds a string schema
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// Boolean builds a boolean schema
func Boolean(description string) *Schema {
	return &Schema{Type: TypeBoolean, Description: description}
}

// Array builds an array schema of items
func Array(items *Schema, description string) *Schema {
	return &Schema{Type: TypeArray, Items: items, Description: description}
}

// Named sets the schema name reported to providers that need one
func (s *Schema) Named(name string) *Schema {
	s.Name = name
	return s
}

var genaiTypes = map[SchemaType]genai.Type{
	TypeObject:  genai.TypeObject,
	TypeArray:   genai.TypeArray,
	TypeString:  genai.TypeString,
	TypeBoolean: genai.TypeBoolean,
	TypeInteger: genai.TypeInteger,
}

// GenAI converts the schema for the Gemini API
func (s *Schema) GenAI() *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiTypes[s.Type],
		Description: s.Description,
		Required:    s.Required,
		Items:       s.Items.GenAI(),
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.GenAI()
		}
		out.PropertyOrdering = s.Order
	}

	return out
}

// JSONSchema converts the schema to a JSON Schema document
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}

	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}

	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		out["properties"] = props
		out["additionalProperties"] = false

		required := s.Required
		if required == nil {
			required = []string{}
		}
		out["required"] = required
	}

	return out
}
