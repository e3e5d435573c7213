package safecontext

import (
	"maps"

	"github.com/vango-dev/vango/v2/pkg/vdom"
)

// Memoized is a wrapped component whose instances cache their last render.
type Memoized struct {
	d      *Decorator
	target Component
	name   string
}

// Memo wraps target like Wrap, with per-instance render caching. Output is
// identical to the unmemoized wrapper for any sequence of props and context
// values; only the amount of work differs.
//
// Props and context values are compared shallowly. Func values never
// compare equal, so an instance receiving a callback prop re-renders on
// every Update.
func (d *Decorator) Memo(target Component, opts ...WrapOption) *Memoized {
	w := d.Wrap(target, opts...)
	return &Memoized{d: d, target: w.target, name: w.name}
}

// Original returns the undecorated component.
func (m *Memoized) Original() Component {
	return m.target
}

// DisplayName returns the debug name of the wrapper.
func (m *Memoized) DisplayName() string {
	return "WithContext(Memo(" + m.name + "))"
}

// Mount creates an instance rendering with a copy of props.
func (m *Memoized) Mount(props vdom.Props) *Instance {
	return &Instance{m: m, props: maps.Clone(props)}
}

// Instance is one mounted memoized component. It owns its snapshot and is
// not safe for concurrent renders.
type Instance struct {
	m     *Memoized
	props vdom.Props
	snap  *snapshot
}

// snapshot is the state of the last render of an Instance.
type snapshot struct {
	props     vdom.Props
	values    Values
	projected vdom.Props
	node      *vdom.VNode
}

// Update sets the props used by the next render. The map is copied, so
// the caller may keep mutating it.
func (i *Instance) Update(props vdom.Props) {
	i.props = maps.Clone(props)
}

// Unmount drops the snapshot. A later Render starts from scratch.
func (i *Instance) Unmount() {
	i.snap = nil
}

// Render implements vdom.Component.
func (i *Instance) Render() *vdom.VNode {
	d := i.m.d
	name := i.m.DisplayName()
	done := d.observer.RenderStarted(name)
	defer done()

	values, fallback, ok := d.resolve(name)
	if !ok {
		return fallback
	}

	decision := i.update(values)
	d.observer.MemoEvaluated(name, decision)
	return i.snap.node
}

// update applies the memo decision table and leaves the node to return in
// i.snap.node.
func (i *Instance) update(values Values) MemoDecision {
	d := i.m.d
	s := i.snap
	if s == nil {
		projected := d.project(values, i.props)
		i.snap = &snapshot{
			props:     i.props,
			values:    values,
			projected: projected,
			node:      i.m.target(merge(i.props, projected)),
		}
		return MemoMiss
	}

	propsChanged := !shallowEqual(s.props, i.props)
	contextChanged := !s.values.equal(values)

	switch {
	case !propsChanged && !contextChanged:
		return MemoHit

	case propsChanged && !contextChanged:
		s.props = i.props
		if d.usesProps {
			s.projected = d.project(values, i.props)
		}
		s.node = i.m.target(merge(i.props, s.projected))
		return MemoPropsChanged

	case !propsChanged && contextChanged:
		s.values = values
		projected := d.project(values, i.props)
		if shallowEqual(projected, s.projected) {
			return MemoContextSkipped
		}
		s.projected = projected
		s.node = i.m.target(merge(i.props, projected))
		return MemoContextChanged

	default:
		s.props = i.props
		s.values = values
		s.projected = d.project(values, i.props)
		s.node = i.m.target(merge(i.props, s.projected))
		return MemoBothChanged
	}
}
