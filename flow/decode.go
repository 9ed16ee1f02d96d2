package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/BaSui01/flowcanvas/types"
)

// documentSchemaJSON is the JSON Schema for the flow document envelope.
// Embedded as a constant to avoid filesystem dependencies. It checks shapes
// and required identity fields; enum normalization (including legacy tags)
// happens in Go afterwards so old documents still pass the schema.
const documentSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowcanvas.dev/schemas/document.json",
  "type": "object",
  "required": ["nodes", "edges"],
  "properties": {
    "name": { "type": "string" },
    "description": { "type": "string" },
    "tags": { "type": "array", "items": { "type": "string" } },
    "requirements": { "type": "array", "items": { "type": "string" } },
    "is_async": { "type": "boolean" },
    "cache_seed": { "type": ["integer", "null"] },
    "nodes": { "type": "array", "items": { "$ref": "#/$defs/node" } },
    "edges": { "type": "array", "items": { "$ref": "#/$defs/edge" } }
  },
  "$defs": {
    "node": {
      "type": "object",
      "required": ["id", "kind"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "kind": { "type": "string" },
        "agent_type": { "type": "string" },
        "label": { "type": "string" },
        "parent_id": { "type": "string" },
        "position": {
          "type": "object",
          "properties": {
            "x": { "type": "number" },
            "y": { "type": "number" }
          }
        },
        "handoffs": { "type": "array", "items": { "type": "object" } },
        "nested_chats": { "type": "array", "items": { "type": "object" } }
      }
    },
    "edge": {
      "type": "object",
      "required": ["id", "source", "target"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "source": { "type": "string", "minLength": 1 },
        "target": { "type": "string", "minLength": 1 },
        "type": { "type": "string" },
        "data": { "type": "object" }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(documentSchemaJSON)))
		if err != nil {
			schemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("document.json", doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("document.json")
	})
	return schema, schemaErr
}

// rawEdgeData mirrors EdgeData at the boundary. Order is a pointer so an
// omitted order decodes to UnorderedEdge, not 0.
type rawEdgeData struct {
	Label         string          `json:"label"`
	Description   string          `json:"description"`
	Order         *int            `json:"order"`
	Position      int             `json:"position"`
	Prerequisites []string        `json:"prerequisites"`
	ClearHistory  bool            `json:"clear_history"`
	MaxTurns      int             `json:"max_turns"`
	Message       string          `json:"message"`
	NestedChat    *EdgeNestedChat `json:"nested_chat"`
	Condition     string          `json:"condition"`
	Available     Availability    `json:"available"`
}

type rawEdge struct {
	ID     string      `json:"id"`
	Source string      `json:"source"`
	Target string      `json:"target"`
	Type   string      `json:"type"`
	Hidden bool        `json:"hidden"`
	Data   rawEdgeData `json:"data"`
}

type rawNode struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	AgentType   string          `json:"agent_type"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	ParentID    string          `json:"parent_id"`
	Position    Position        `json:"position"`
	Hidden      bool            `json:"hidden"`
	Handoffs    []HandoffRecord `json:"handoffs"`
	NestedChats []NestedChat    `json:"nested_chats"`
	AfterWork   *AfterWork      `json:"after_work"`
}

type rawDocument struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	Requirements []string  `json:"requirements"`
	IsAsync      bool      `json:"is_async"`
	CacheSeed    *int      `json:"cache_seed"`
	Nodes        []rawNode `json:"nodes"`
	Edges        []rawEdge `json:"edges"`
}

// Decode parses, schema-validates, and normalizes a flow document. Legacy
// schema tags (swarm edges, rag user proxies) are folded into the current
// enums here; unrecognized shapes are rejected with a structured diagnostic
// instead of silently defaulting.
func Decode(data []byte) (*Document, error) {
	sch, err := documentSchema()
	if err != nil {
		return nil, types.NewError(types.ErrInternalError, "document schema failed to compile").WithCause(err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, types.NewError(types.ErrDecodeFailed, "document is not valid JSON").WithCause(err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, types.NewError(types.ErrDecodeFailed, "document does not match the flow schema").WithCause(err)
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, types.NewError(types.ErrDecodeFailed, "document decode failed").WithCause(err)
	}

	doc := Document{
		Name:         raw.Name,
		Description:  raw.Description,
		Tags:         raw.Tags,
		Requirements: raw.Requirements,
		IsAsync:      raw.IsAsync,
		CacheSeed:    raw.CacheSeed,
		Nodes:        make([]Node, 0, len(raw.Nodes)),
		Edges:        make([]Edge, 0, len(raw.Edges)),
	}

	for i, rn := range raw.Nodes {
		kind := types.NodeKind(rn.Kind)
		if !kind.Valid() {
			return nil, types.NewErrorf(types.ErrDecodeFailed, "node %q has unknown kind %q", rn.ID, rn.Kind).
				WithFields(fmt.Sprintf("nodes[%d].kind", i))
		}
		node := Node{
			ID:          rn.ID,
			Kind:        kind,
			Label:       rn.Label,
			Description: rn.Description,
			ParentID:    rn.ParentID,
			Position:    rn.Position,
			Hidden:      rn.Hidden,
			Handoffs:    rn.Handoffs,
			NestedChats: rn.NestedChats,
			AfterWork:   rn.AfterWork,
		}
		if kind == types.NodeAgent {
			agentType, ok := types.NormalizeAgentType(rn.AgentType)
			if !ok {
				return nil, types.NewErrorf(types.ErrDecodeFailed, "node %q has unknown agent type %q", rn.ID, rn.AgentType).
					WithFields(fmt.Sprintf("nodes[%d].agent_type", i))
			}
			node.AgentType = agentType
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	for i, re := range raw.Edges {
		chatType := types.ChatDefault
		if re.Type != "" {
			t, ok := types.NormalizeChatType(re.Type)
			if !ok {
				return nil, types.NewErrorf(types.ErrDecodeFailed, "edge %q has unknown type %q", re.ID, re.Type).
					WithFields(fmt.Sprintf("edges[%d].type", i))
			}
			chatType = t
		}
		order := UnorderedEdge
		if re.Data.Order != nil && *re.Data.Order >= 0 {
			order = *re.Data.Order
		}
		prereqs := re.Data.Prerequisites
		if len(prereqs) == 0 {
			prereqs = nil
		}
		doc.Edges = append(doc.Edges, Edge{
			ID:     re.ID,
			Source: re.Source,
			Target: re.Target,
			Type:   chatType,
			Hidden: re.Hidden || chatType == types.ChatHidden,
			Data: EdgeData{
				Label:         re.Data.Label,
				Description:   re.Data.Description,
				Order:         order,
				Position:      re.Data.Position,
				Prerequisites: prereqs,
				ClearHistory:  re.Data.ClearHistory,
				MaxTurns:      re.Data.MaxTurns,
				Message:       re.Data.Message,
				NestedChat:    re.Data.NestedChat,
				Condition:     re.Data.Condition,
				Available:     re.Data.Available,
			},
		})
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode serializes the document to indented JSON. Export round-trips
// through the same shape Decode accepts.
func (d *Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
