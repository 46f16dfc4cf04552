package cashflow

import (
	"strings"
	"time"

	"github.com/finboard/finboard/pkg/api"
)

const UntitledName = "Untitled"

// Node is a category in the derived tree view. It is never sent back to the API.
type Node struct {
	Id              string     `json:"id"`
	Name            string     `json:"name"`
	Code            *string    `json:"code"`
	Parent          string     `json:"parent,omitempty"`
	IncludeInBudget *bool      `json:"include_in_budget"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	Deleted         bool       `json:"deleted"`
	Children        []Node     `json:"children"`
}

// FlatNode is a node without children, annotated with its depth in the tree.
type FlatNode struct {
	Node
	Depth int `json:"depth"`
}

// BuildHierarchy turns the decoded listing into a forest.
//
// When any node already carries children the input is taken as pre-nested and only mapped.
// Otherwise nodes are linked by their parent id. A node whose parent is missing, is itself,
// or would close a cycle becomes a root, so every input node appears exactly once.
// Roots and siblings keep the input order.
func BuildHierarchy(raw []RawNode) []Node {
	if len(raw) == 0 {
		return []Node{}
	}
	if preNested(raw) {
		nodes := make([]Node, len(raw))
		for i, r := range raw {
			nodes[i] = mapNested(r)
		}
		return nodes
	}
	return link(raw)
}

func preNested(raw []RawNode) bool {
	for _, r := range raw {
		if len(r.Children) > 0 {
			return true
		}
	}
	return false
}

func mapNested(r RawNode) Node {
	node := mapNode(r)
	for _, child := range r.Children {
		node.Children = append(node.Children, mapNested(child))
	}
	return node
}

func link(raw []RawNode) []Node {
	nodes := make([]Node, len(raw))
	first := make(map[string]int, len(raw))
	for i, r := range raw {
		nodes[i] = mapNode(r)
		if _, seen := first[nodes[i].Id]; !seen {
			first[nodes[i].Id] = i
		}
	}

	children := make([][]int, len(nodes))
	isRoot := make([]bool, len(nodes))
	for i, n := range nodes {
		parent, found := first[n.Parent]
		switch {
		case n.Parent == "" || !found:
			isRoot[i] = true
		case n.Parent == n.Id:
			isRoot[i] = true
		case first[n.Id] != i:
			// later duplicates of an id keep their own slot as roots
			isRoot[i] = true
		default:
			children[parent] = append(children[parent], i)
		}
	}

	// nodes not reachable from any root sit on or hang off a parent cycle; a node on the cycle is promoted
	visited := make([]bool, len(nodes))
	var mark func(i int)
	mark = func(i int) {
		if visited[i] {
			return
		}
		visited[i] = true
		for _, c := range children[i] {
			mark(c)
		}
	}
	for i := range nodes {
		if isRoot[i] {
			mark(i)
		}
	}
	for i := range nodes {
		if !visited[i] {
			j := onCycle(i, nodes, first)
			isRoot[j] = true
			mark(j)
		}
	}

	built := make([]bool, len(nodes))
	var materialize func(i int) Node
	materialize = func(i int) Node {
		built[i] = true
		node := nodes[i]
		for _, c := range children[i] {
			if built[c] || isRoot[c] {
				continue
			}
			node.Children = append(node.Children, materialize(c))
		}
		return node
	}

	roots := make([]Node, 0)
	for i := range nodes {
		if isRoot[i] {
			roots = append(roots, materialize(i))
		}
	}
	return roots
}

// onCycle follows parent links from i until a node repeats and returns that node.
func onCycle(i int, nodes []Node, first map[string]int) int {
	seen := make(map[int]bool)
	for !seen[i] {
		seen[i] = true
		i = first[nodes[i].Parent]
	}
	return i
}

func mapNode(r RawNode) Node {
	name := UntitledName
	if r.Name != nil && strings.TrimSpace(*r.Name) != "" {
		name = *r.Name
	}
	return Node{
		Id:              string(r.Id),
		Name:            name,
		Code:            r.Code,
		Parent:          string(r.Parent),
		IncludeInBudget: r.IncludeInBudget,
		CreatedAt:       parseTimestamp(r.CreatedAt),
		UpdatedAt:       parseTimestamp(r.UpdatedAt),
		Deleted:         r.Deleted,
	}
}

func parseTimestamp(s string) *time.Time {
	t, err := api.ParseDateTime(s)
	if err != nil || t.IsZero() {
		return nil
	}
	return &t
}

// Flatten lists the forest depth-first. Parent keeps the value the node was built from.
func Flatten(forest []Node) []FlatNode {
	var flat []FlatNode
	var walk func(nodes []Node, depth int)
	walk = func(nodes []Node, depth int) {
		for _, n := range nodes {
			children := n.Children
			n.Children = nil
			flat = append(flat, FlatNode{Node: n, Depth: depth})
			walk(children, depth+1)
		}
	}
	walk(forest, 0)
	return flat
}

// Raw turns a node back into the wire shape, without children.
func (n Node) Raw() RawNode {
	name := n.Name
	raw := RawNode{
		Id:              api.Ref(n.Id),
		Name:            &name,
		Code:            n.Code,
		Parent:          api.Ref(n.Parent),
		IncludeInBudget: n.IncludeInBudget,
		Deleted:         n.Deleted,
	}
	if n.CreatedAt != nil {
		raw.CreatedAt = n.CreatedAt.Format(time.RFC3339Nano)
	}
	if n.UpdatedAt != nil {
		raw.UpdatedAt = n.UpdatedAt.Format(time.RFC3339Nano)
	}
	return raw
}
