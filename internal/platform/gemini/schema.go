package gemini

import (
	"github.com/taskflow-ai/taskflow-api/internal/generation"
	"google.golang.org/genai"
)

// toSchema converts a provider-neutral schema node into a genai.Schema.
// Nullable values are described in the field description and decoded as
// null when the model returns an empty string.
func toSchema(node *generation.SchemaNode) *genai.Schema {
	if node == nil {
		return nil
	}

	s := &genai.Schema{
		Description: node.Description,
		Required:    node.Required,
	}

	switch node.Type {
	case generation.TypeObject:
		s.Type = genai.TypeObject
	case generation.TypeArray:
		s.Type = genai.TypeArray
	default:
		s.Type = genai.TypeString
	}

	// Gemini only accepts "enum" and "date-time" as string formats.
	if node.Format == "date-time" {
		s.Format = node.Format
	}

	if len(node.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(node.Properties))
		for name, prop := range node.Properties {
			s.Properties[name] = toSchema(prop)
		}
	}

	s.Items = toSchema(node.Items)

	return s
}
