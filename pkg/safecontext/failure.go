package safecontext

import (
	"github.com/vango-dev/vango/v2/pkg/vango"
	"github.com/vango-dev/vango/v2/pkg/vdom"
)

// FailureRenderer renders the fallback shown in place of a consumer whose
// context has no supplied value.
type FailureRenderer func(err *MissingContextError) *vdom.VNode

// Failure holds the process-wide failure renderer. Its default value is
// DefaultFailure; ProvideFailure overrides it for a subtree.
var Failure = vango.CreateContext[FailureRenderer](DefaultFailure)

// DefaultFailure renders a visible alert naming the missing context.
func DefaultFailure(err *MissingContextError) *vdom.VNode {
	return vdom.Div(
		vdom.Role("alert"),
		vdom.Data("safecontext-missing", err.Context),
		vdom.Text(err.Error()),
	)
}

// ProvideFailure installs renderer for the consumers rendered among children.
// A nil renderer renders nothing.
func ProvideFailure(renderer FailureRenderer, children ...any) *vdom.VNode {
	if renderer == nil {
		renderer = renderNothing
	}
	return Failure.Provider(renderer, children...)
}

func renderNothing(*MissingContextError) *vdom.VNode { return nil }

func renderFailure(err *MissingContextError) *vdom.VNode {
	renderer := Failure.Use()
	if renderer == nil {
		return nil
	}
	return renderer(err)
}
