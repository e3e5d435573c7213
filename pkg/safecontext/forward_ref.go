package safecontext

import (
	diag "github.com/vango-dev/safecontext/internal/errors"
	"github.com/vango-dev/vango/v2/pkg/vango"
	"github.com/vango-dev/vango/v2/pkg/vdom"
)

// RefComponent is a component that accepts a ref to its instance.
type RefComponent[R any] func(props vdom.Props, ref *vango.Ref[R]) *vdom.VNode

// ForwardRef is a wrapped component that passes a ref through to its target.
type ForwardRef[R any] struct {
	d      *Decorator
	target RefComponent[R]
	name   string
}

// WithForwardRef wraps target like Decorator.Wrap and threads the ref given
// at render time through to it. Only targets accepting a *vango.Ref[R]
// can be wrapped for refs of type R.
func WithForwardRef[R any](d *Decorator, target RefComponent[R], opts ...WrapOption) *ForwardRef[R] {
	if target == nil {
		panic(contractError(diag.CodeMissingFunc, "", "", "nil target component"))
	}
	cfg, err := d.wrapConfig(target, opts)
	if err != nil {
		panic(err)
	}
	return &ForwardRef[R]{d: d, target: target, name: cfg.name}
}

// Original returns the undecorated component.
func (f *ForwardRef[R]) Original() RefComponent[R] {
	return f.target
}

// DisplayName returns the debug name of the wrapper.
func (f *ForwardRef[R]) DisplayName() string {
	return "ForwardRef(WithContext(" + f.name + "))"
}

// Render resolves the contexts now and renders the target with ref.
func (f *ForwardRef[R]) Render(props vdom.Props, ref *vango.Ref[R]) *vdom.VNode {
	return f.d.render(f.DisplayName(), props, func(merged vdom.Props) *vdom.VNode {
		return f.target(merged, ref)
	})
}

// New returns a component resolving the contexts when it is rendered.
func (f *ForwardRef[R]) New(props vdom.Props, ref *vango.Ref[R]) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		return f.Render(props, ref)
	})
}
