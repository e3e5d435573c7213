package ctxtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/safecontext/pkg/safecontext"
	"github.com/vango-dev/vango/v2/pkg/render"
	"github.com/vango-dev/vango/v2/pkg/vango"
	"github.com/vango-dev/vango/v2/pkg/vdom"
)

// Scope runs fn with a fresh root owner as the current owner and disposes
// the owner afterwards.
func Scope(t testing.TB, fn func(root *vango.Owner)) {
	t.Helper()
	root := vango.NewOwner(nil)
	defer root.Dispose()
	vango.WithOwner(root, func() {
		fn(root)
	})
}

// Provide renders provider nodes built under the current owner. The values
// they supply stay visible to later renders in the same scope.
func Provide(t testing.TB, providers ...*vdom.VNode) {
	t.Helper()
	for _, p := range providers {
		RenderToString(t, p)
	}
}

// RenderToString renders a VNode under the current owner and returns the
// HTML string.
func RenderToString(t testing.TB, node *vdom.VNode) string {
	t.Helper()
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		t.Fatalf("RenderToString() error: %v", err)
	}
	return html
}

// Text returns the text content of node rendered under the current owner.
func Text(node *vdom.VNode) string {
	return safecontext.TextContent(node)
}

// ExpectText asserts that the text content of node equals want.
//
// Example:
//
//	ctxtest.ExpectText(t, Version.New(nil), "Version is 1")
func ExpectText(t testing.TB, node *vdom.VNode, want string) {
	t.Helper()
	if got := Text(node); got != want {
		t.Errorf("text content = %q, want %q", got, want)
	}
}

// ExpectContains asserts that rendered HTML contains expected.
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(t, node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered HTML does not contain unexpected.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(t, node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// Node wraps a component in a component VNode.
func Node(c vdom.Component) *vdom.VNode {
	return &vdom.VNode{Kind: vdom.KindComponent, Comp: c}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
