package profile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind is the type of a schema node.
type Kind string

const (
	KindObject Kind = "object"
	KindArray  Kind = "array"
	KindString Kind = "string"
)

// Node is one element of the declarative record shape.
type Node struct {
	Kind        Kind
	Description string
	Fields      []Field // object members, in output order
	Items       *Node   // array element
}

// Field is a named object member.
type Field struct {
	Name string
	Node *Node
}

func object(fields ...Field) *Node     { return &Node{Kind: KindObject, Fields: fields} }
func array(items *Node) *Node          { return &Node{Kind: KindArray, Items: items} }
func str(description string) *Node     { return &Node{Kind: KindString, Description: description} }
func field(name string, n *Node) Field { return Field{Name: name, Node: n} }

// profileShape declares the canonical record. It must stay in sync with Profile.
func profileShape() *Node {
	return object(
		field("basics", object(
			field("name", str("Full name of the person.")),
			field("label", str("Professional title or headline, e.g. \"Backend Engineer\".")),
			field("email", str("Email address.")),
			field("linkedin", str("LinkedIn profile URL or handle.")),
			field("github", str("GitHub profile URL or handle.")),
			field("summary", str("Only the 1-2 sentence professional summary. Never skills, projects or experience.")),
		)),
		field("skills", array(object(
			field("name", str("One skill, tool or technology.")),
		))),
		field("projects", array(object(
			field("name", str("Project name.")),
			field("description", str("What the project is or does.")),
			field("technologies", array(str("Technology used in the project."))),
			field("url", str("Explicit absolute URL written in the text, otherwise empty string.")),
		))),
		field("experience", array(object(
			field("role", str("Job title.")),
			field("company", str("Employer name.")),
			field("date", str("Date range as written, e.g. \"Jan 2020 - Present\".")),
			field("description", str("Responsibilities and accomplishments.")),
		))),
		field("education", array(object(
			field("institution", str("School or university.")),
			field("degree", str("Degree or program.")),
			field("date", str("Dates as written.")),
		))),
		field("achievements", array(object(
			field("description", str("One award, honor or notable achievement.")),
		))),
		field("otherSections", array(object(
			field("title", str("Section heading, e.g. \"Certifications\".")),
			field("content", str("Section content as written.")),
		))),
	)
}

// Schema is the process-wide, immutable declaration of the Profile shape.
// It is safe for concurrent use.
type Schema struct {
	root     *Node
	compiled *jsonschema.Schema
}

// NewSchema builds the Profile schema and compiles its JSON Schema validator.
func NewSchema() (*Schema, error) {
	root := profileShape()

	doc, err := json.Marshal(renderJSONSchema(root))
	if err != nil {
		return nil, fmt.Errorf("marshal profile schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("profile.schema.json", bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("add profile schema: %w", err)
	}
	compiled, err := compiler.Compile("profile.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile profile schema: %w", err)
	}
	return &Schema{root: root, compiled: compiled}, nil
}

// MustSchema is NewSchema for callers that treat a broken declaration as fatal.
func MustSchema() *Schema {
	s, err := NewSchema()
	if err != nil {
		panic(err)
	}
	return s
}

// JSONSchema renders the shape as a strict JSON Schema document (a fresh copy per call).
func (s *Schema) JSONSchema() map[string]any {
	return renderJSONSchema(s.root)
}

// GeminiSchema renders the shape in the Gemini responseSchema dialect (a fresh copy per call).
func (s *Schema) GeminiSchema() map[string]any {
	return renderGeminiSchema(s.root)
}

// ValidateValue checks a decoded JSON value against the compiled schema.
func (s *Schema) ValidateValue(v any) error {
	return s.compiled.Validate(v)
}

func renderJSONSchema(n *Node) map[string]any {
	out := map[string]any{"type": string(n.Kind)}
	if n.Description != "" {
		out["description"] = n.Description
	}
	switch n.Kind {
	case KindObject:
		props := make(map[string]any, len(n.Fields))
		required := make([]string, 0, len(n.Fields))
		for _, f := range n.Fields {
			props[f.Name] = renderJSONSchema(f.Node)
			required = append(required, f.Name)
		}
		out["properties"] = props
		out["required"] = required
		out["additionalProperties"] = false
	case KindArray:
		out["items"] = renderJSONSchema(n.Items)
	}
	return out
}

func renderGeminiSchema(n *Node) map[string]any {
	var typ string
	switch n.Kind {
	case KindObject:
		typ = "OBJECT"
	case KindArray:
		typ = "ARRAY"
	default:
		typ = "STRING"
	}
	out := map[string]any{"type": typ}
	if n.Description != "" {
		out["description"] = n.Description
	}
	switch n.Kind {
	case KindObject:
		props := make(map[string]any, len(n.Fields))
		names := make([]string, 0, len(n.Fields))
		for _, f := range n.Fields {
			props[f.Name] = renderGeminiSchema(f.Node)
			names = append(names, f.Name)
		}
		out["properties"] = props
		out["required"] = names
		out["propertyOrdering"] = append([]string(nil), names...)
	case KindArray:
		out["items"] = renderGeminiSchema(n.Items)
	}
	return out
}
