package safecontext

import (
	"strings"

	"github.com/vango-dev/vango/v2/pkg/vdom"
)

// Expand renders every component node of the tree under the current owner
// and returns a copy holding only their output. Each component renders
// exactly once, so the result can be fed to several consumers (text
// extraction, an HTML renderer) without repeating context resolution.
func Expand(node *vdom.VNode) *vdom.VNode {
	if node == nil {
		return nil
	}
	if node.Kind == vdom.KindComponent {
		if node.Comp == nil {
			return nil
		}
		return Expand(node.Comp.Render())
	}
	if len(node.Children) == 0 {
		return node
	}
	out := *node
	out.Children = make([]*vdom.VNode, 0, len(node.Children))
	for _, child := range node.Children {
		if c := Expand(child); c != nil {
			out.Children = append(out.Children, c)
		}
	}
	return &out
}

// TextContent renders node under the current owner and returns the
// concatenated text of the result, like a DOM node's textContent. Raw HTML
// nodes are skipped.
func TextContent(node *vdom.VNode) string {
	var b strings.Builder
	writeText(&b, Expand(node))
	return b.String()
}

func writeText(b *strings.Builder, node *vdom.VNode) {
	if node == nil {
		return
	}
	switch node.Kind {
	case vdom.KindText:
		b.WriteString(node.Text)
	case vdom.KindElement, vdom.KindFragment:
		for _, child := range node.Children {
			writeText(b, child)
		}
	}
}
