package formatter

import "strings"

type TreeNode struct {
	Label    string
	Detail   string
	Children []TreeNode
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeSpace  = "   "
)

// RenderTree draws each root flush left and its descendants with box-drawing connectors.
func RenderTree(roots []TreeNode) string {
	var b strings.Builder
	for _, root := range roots {
		writeTreeLine(&b, "", root)
		renderChildren(&b, "", root.Children)
	}
	return b.String()
}

func renderChildren(b *strings.Builder, prefix string, children []TreeNode) {
	for i, child := range children {
		last := i == len(children)-1
		connector, indent := treeBranch, treePipe
		if last {
			connector, indent = treeCorner, treeSpace
		}
		writeTreeLine(b, prefix+StyleDim.Render(connector), child)
		renderChildren(b, prefix+StyleDim.Render(indent), child.Children)
	}
}

func writeTreeLine(b *strings.Builder, prefix string, node TreeNode) {
	b.WriteString(prefix)
	b.WriteString(node.Label)
	if node.Detail != "" {
		b.WriteString("  ")
		b.WriteString(Dim(node.Detail))
	}
	b.WriteString("\n")
}
