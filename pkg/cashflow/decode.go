package cashflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/finboard/finboard/pkg/api"
	log "github.com/sirupsen/logrus"
)

// RawNode is a category as the hierarchy endpoint sends it. Every field is optional, and a field
// of the wrong type is dropped on its own without discarding the node or its siblings.
type RawNode struct {
	Id              api.Ref   `json:"id"`
	Name            *string   `json:"name"`
	Code            *string   `json:"code"`
	Parent          api.Ref   `json:"parent"`
	Description     string    `json:"description"`
	IncludeInBudget *bool     `json:"include_in_budget"`
	CreatedAt       string    `json:"created_at"`
	UpdatedAt       string    `json:"updated_at"`
	Deleted         bool      `json:"deleted"`
	Children        []RawNode `json:"children"`
}

type shape int

const (
	shapeUnknown shape = iota
	shapeList
	shapeEnvelope
	shapeSingle
)

// envelopeKeys are checked in this order when the body is an object.
var envelopeKeys = []string{"items", "children", "results"}

// nodeKeys mark an object as a category itself, even when it also carries children.
var nodeKeys = []string{"id", "name", "parent"}

func (n *RawNode) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*n = RawNode{}
	lenient := func(key string, target any) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(raw, target); err != nil {
			log.Debugf("hierarchy: ignoring field %q: %v", key, err)
		}
	}
	lenient("id", &n.Id)
	lenient("parent", &n.Parent)
	n.Name = lenientString(fields["name"])
	n.Code = lenientString(fields["code"])
	lenient("description", &n.Description)
	if raw, ok := fields["include_in_budget"]; ok && string(bytes.TrimSpace(raw)) != "null" {
		var include bool
		if err := json.Unmarshal(raw, &include); err != nil {
			log.Debugf("hierarchy: ignoring field %q: %v", "include_in_budget", err)
		} else {
			n.IncludeInBudget = &include
		}
	}
	lenient("created_at", &n.CreatedAt)
	lenient("updated_at", &n.UpdatedAt)
	lenient("deleted", &n.Deleted)
	if raw, ok := fields["children"]; ok && isArray(raw) {
		n.Children = decodeList(raw)
	}
	return nil
}

// lenientString accepts a string or a number; anything else reads as absent.
func lenientString(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		s = number.String()
		return &s
	}
	log.Debugf("hierarchy: ignoring non-text value %s", raw)
	return nil
}

// ReadHierarchy reads the whole body and decodes it. Only a read failure is an error.
func ReadHierarchy(r io.Reader) ([]RawNode, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read hierarchy: %w", err)
	}
	return DecodeHierarchy(body), nil
}

// DecodeHierarchy normalizes the polymorphic hierarchy response into one list of nodes:
// a bare array, a single node (an object with an id, name or parent, possibly pre-nested),
// or an object wrapping the list in items/children/results.
// Anything else is an empty list.
func DecodeHierarchy(body []byte) []RawNode {
	kind, payload := classify(body)
	switch kind {
	case shapeList, shapeEnvelope:
		return decodeList(payload)
	case shapeSingle:
		var node RawNode
		if err := json.Unmarshal(payload, &node); err != nil {
			log.Debugf("hierarchy: ignoring undecodable node: %v", err)
			return []RawNode{}
		}
		return []RawNode{node}
	default:
		return []RawNode{}
	}
}

func classify(body []byte) (shape, []byte) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return shapeUnknown, nil
	}
	switch body[0] {
	case '[':
		return shapeList, body
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return shapeUnknown, nil
		}
		for _, key := range nodeKeys {
			if _, ok := fields[key]; ok {
				return shapeSingle, body
			}
		}
		for _, key := range envelopeKeys {
			if raw, ok := fields[key]; ok && isArray(raw) {
				return shapeEnvelope, raw
			}
		}
		return shapeSingle, body
	}
	return shapeUnknown, nil
}

// decodeList decodes element by element so one malformed record does not discard the others.
// Only elements that are not objects are skipped.
func decodeList(payload []byte) []RawNode {
	var elements []json.RawMessage
	if err := json.Unmarshal(payload, &elements); err != nil {
		return []RawNode{}
	}
	nodes := make([]RawNode, 0, len(elements))
	for i, element := range elements {
		var node RawNode
		if err := json.Unmarshal(element, &node); err != nil {
			log.Debugf("hierarchy: skipping element %d: %v", i, err)
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
