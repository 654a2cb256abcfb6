package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Descriptor describes one auxiliary creative tool the dashboard can surface.
// The keyword set drives relevance matching; the rest is display metadata.
type Descriptor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Href        string   `json:"href"`
	Keywords    []string `json:"keywords"`
	Features    []string `json:"features,omitempty"`
}

// Catalog is the immutable set of tool descriptors loaded at process start.
type Catalog struct {
	tools     []Descriptor
	defaultID string
}

const catalogSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["default_tool", "tools"],
  "properties": {
    "default_tool": {"type": "string", "minLength": 1},
    "tools": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name", "keywords"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "href": {"type": "string"},
          "keywords": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
          "features": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

type catalogFile struct {
	DefaultTool string       `json:"default_tool"`
	Tools       []Descriptor `json:"tools"`
}

// Default returns the built-in catalog mirroring the four creative tools the
// dashboard ships with. The design studio doubles as the fallback tool.
func Default() *Catalog {
	return &Catalog{
		defaultID: "design",
		tools: []Descriptor{
			{
				ID:          "design",
				Name:        "Design Studio",
				Description: "Create presentations and designs",
				Href:        "/design",
				Keywords:    []string{"presentation", "design", "visual", "poster", "infographic", "creative", "art", "brand"},
				Features:    []string{"Design suggestions", "Professional templates", "Real-time collaboration"},
			},
			{
				ID:          "collab",
				Name:        "Project Space",
				Description: "Project marketplace & teams",
				Href:        "/collab",
				Keywords:    []string{"project", "collaborate", "group", "team", "partnership", "work together", "joint"},
				Features:    []string{"Find project partners", "Skill-based matching", "Team management"},
			},
			{
				ID:          "stream",
				Name:        "Live Stage",
				Description: "Live streaming & recordings",
				Href:        "/stream",
				Keywords:    []string{"live", "stream", "broadcast", "webinar", "session", "recording", "video"},
				Features:    []string{"HD live streaming", "Interactive sessions", "Recording & playback"},
			},
			{
				ID:          "meet",
				Name:        "Discussion Hub",
				Description: "Community & discussions",
				Href:        "/meet",
				Keywords:    []string{"discussion", "community", "forum", "chat", "talk", "communicate", "share"},
				Features:    []string{"Study groups", "Q&A forums", "Peer mentoring"},
			},
		},
	}
}

// Load reads a catalog definition from a JSON file, validating it against the
// catalog schema before accepting it.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool catalog: %w", err)
	}

	schema, err := jsonschema.CompileString("catalog.schema.json", catalogSchema)
	if err != nil {
		return nil, fmt.Errorf("compile tool catalog schema: %w", err)
	}

	var document interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("parse tool catalog: %w", err)
	}

	if err := schema.Validate(document); err != nil {
		return nil, fmt.Errorf("invalid tool catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode tool catalog: %w", err)
	}

	catalog := &Catalog{defaultID: file.DefaultTool, tools: file.Tools}
	if _, ok := catalog.DefaultTool(); !ok {
		return nil, fmt.Errorf("tool catalog default %q not present in tools", file.DefaultTool)
	}

	return catalog, nil
}

// Tools returns the descriptors in catalog order.
func (c *Catalog) Tools() []Descriptor {
	out := make([]Descriptor, len(c.tools))
	copy(out, c.tools)
	return out
}

// DefaultTool returns the designated fallback tool.
func (c *Catalog) DefaultTool() (Descriptor, bool) {
	for _, tool := range c.tools {
		if strings.EqualFold(tool.ID, c.defaultID) {
			return tool, true
		}
	}
	return Descriptor{}, false
}

// Lookup finds a descriptor by id.
func (c *Catalog) Lookup(id string) (Descriptor, bool) {
	for _, tool := range c.tools {
		if strings.EqualFold(tool.ID, id) {
			return tool, true
		}
	}
	return Descriptor{}, false
}
