package safecontext

import (
	"log/slog"
	"reflect"

	diag "github.com/vango-dev/safecontext/internal/errors"
	"github.com/vango-dev/vango/v2/pkg/vdom"
)

// Projection maps resolved context values to the props injected into the
// wrapped component. It must be deterministic and free of side effects.
type Projection func(values Values) vdom.Props

// PropsProjection is a Projection that also reads the incoming props.
type PropsProjection func(values Values, props vdom.Props) vdom.Props

// Spread injects every resolved value under its own key.
func Spread(values Values) vdom.Props {
	out := make(vdom.Props, len(values.keys))
	for _, k := range values.keys {
		out[k] = values.vals[k]
	}
	return out
}

// Option configures a Decorator.
type Option func(*Decorator)

// Provides declares the types of the injected props. Wrap checks them
// against the props the target accepts. With the Spread projection the
// types default to the value types of the map's contexts.
func Provides(types PropTypes) Option {
	return func(d *Decorator) {
		d.provides = types
	}
}

// WithLogger sets the decorator's logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decorator) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver sets the observer notified of every wrapped render.
func WithObserver(observer Observer) Option {
	return func(d *Decorator) {
		if observer != nil {
			d.observer = observer
		}
	}
}

// Decorator resolves a fixed Map and injects the projected props into the
// components it wraps. A Decorator is immutable and may wrap any number of
// components.
type Decorator struct {
	contexts  Map
	keys      []string
	project   PropsProjection
	usesProps bool
	provides  PropTypes
	logger    *slog.Logger
	observer  Observer
}

// WithContext returns a decorator injecting project(values) into the props
// of the components it wraps.
//
// It panics with a *ContractError if contexts is invalid (see Map.Validate)
// or project is nil. The map is copied; later changes to it have no effect.
func WithContext(contexts Map, project Projection, opts ...Option) *Decorator {
	if project == nil {
		panic(contractError(diag.CodeMissingFunc, "", "", "nil projection"))
	}
	d := newDecorator(contexts, func(values Values, _ vdom.Props) vdom.Props {
		return project(values)
	}, false, opts)
	if d.provides == nil && isSpread(project) {
		d.provides = d.contexts.types()
	}
	return d
}

func isSpread(project Projection) bool {
	return reflect.ValueOf(project).Pointer() == reflect.ValueOf(Spread).Pointer()
}

// WithContextProps is WithContext for projections that read incoming props.
func WithContextProps(contexts Map, project PropsProjection, opts ...Option) *Decorator {
	if project == nil {
		panic(contractError(diag.CodeMissingFunc, "", "", "nil projection"))
	}
	return newDecorator(contexts, project, true, opts)
}

func newDecorator(contexts Map, project PropsProjection, usesProps bool, opts []Option) *Decorator {
	if err := contexts.Validate(); err != nil {
		panic(err)
	}
	d := &Decorator{
		contexts:  append(Map(nil), contexts...),
		keys:      contexts.Keys(),
		project:   project,
		usesProps: usesProps,
		logger:    slog.Default(),
		observer:  NopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Keys returns the context keys in resolution order.
func (d *Decorator) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Provided returns the declared injected prop types.
func (d *Decorator) Provided() PropTypes {
	return d.provides.Without()
}

// resolve folds over the map in key order. If a context has no supplied
// value the fold stops and that context's fallback is returned.
func (d *Decorator) resolve(component string) (Values, *vdom.VNode, bool) {
	values := Values{keys: d.keys, vals: make(map[string]any, len(d.keys))}
	for _, e := range d.contexts {
		v, err := e.Source.resolve()
		if err != nil {
			return Values{}, e.Source.fallback(err), false
		}
		values.vals[e.Key] = v
	}
	d.observer.ContextsResolved(component, d.keys)
	return values, nil, true
}

// render resolves the contexts and calls build with the merged props.
func (d *Decorator) render(component string, props vdom.Props, build func(merged vdom.Props) *vdom.VNode) *vdom.VNode {
	done := d.observer.RenderStarted(component)
	defer done()

	values, fallback, ok := d.resolve(component)
	if !ok {
		return fallback
	}
	return build(merge(props, d.project(values, props)))
}

// check verifies that every injected prop the target declares can be
// assigned to the declared type.
func (d *Decorator) check(component string, accepts PropTypes) error {
	for key, injected := range d.provides {
		declared, ok := accepts[key]
		if !ok || injected == nil || declared == nil {
			continue
		}
		if !injected.AssignableTo(declared) {
			return contractError(diag.CodeIncompatibleProp, component, key,
				"injected as %s but declared as %s", injected, declared)
		}
	}
	return nil
}

// WrapOption configures a wrapped component.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	name    string
	accepts PropTypes
}

// Named sets the display name of the target.
func Named(name string) WrapOption {
	return func(c *wrapConfig) {
		c.name = name
	}
}

// Accepts declares the props the target accepts.
func Accepts(types PropTypes) WrapOption {
	return func(c *wrapConfig) {
		c.accepts = types
	}
}

func (d *Decorator) wrapConfig(target any, opts []WrapOption) (wrapConfig, error) {
	var cfg wrapConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = componentName(target)
	}
	if err := d.check(cfg.name, cfg.accepts); err != nil {
		return cfg, err
	}
	d.logger.Debug("wrapped component",
		"component", cfg.name,
		"contexts", d.keys,
	)
	return cfg, nil
}

// Wrapped is a component whose props are completed from context.
type Wrapped struct {
	d       *Decorator
	target  Component
	name    string
	accepts PropTypes
}

// Wrap wraps target. It panics with a *ContractError if target is nil or an
// injected prop is incompatible with the props target accepts.
func (d *Decorator) Wrap(target Component, opts ...WrapOption) *Wrapped {
	w, err := d.TryWrap(target, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

// TryWrap is Wrap returning the contract violation instead of panicking.
func (d *Decorator) TryWrap(target Component, opts ...WrapOption) (*Wrapped, error) {
	if target == nil {
		return nil, contractError(diag.CodeMissingFunc, "", "", "nil target component")
	}
	cfg, err := d.wrapConfig(target, opts)
	if err != nil {
		return nil, err
	}
	return &Wrapped{d: d, target: target, name: cfg.name, accepts: cfg.accepts}, nil
}

// WrapTyped wraps a component taking a props struct. The accepted props
// are derived from P.
func WrapTyped[P any](d *Decorator, target func(props P) *vdom.VNode, opts ...WrapOption) *Wrapped {
	typed := Typed(target)
	typed.logger = d.logger
	opts = append([]WrapOption{Named(componentName(target)), Accepts(typed.PropTypes())}, opts...)
	return d.Wrap(typed.Render, opts...)
}

// Original returns the undecorated component.
func (w *Wrapped) Original() Component {
	return w.target
}

// DisplayName returns the debug name of the wrapper.
func (w *Wrapped) DisplayName() string {
	return "WithContext(" + w.name + ")"
}

// PublicProps returns the declared props minus the injected ones: what a
// caller still has to pass.
func (w *Wrapped) PublicProps() PropTypes {
	return w.accepts.Without(keysOf(w.d.provides)...)
}

// Render resolves the contexts now and renders the target.
func (w *Wrapped) Render(props vdom.Props) *vdom.VNode {
	return w.d.render(w.DisplayName(), props, func(merged vdom.Props) *vdom.VNode {
		return w.target(merged)
	})
}

// New returns a component resolving the contexts when it is rendered, so
// it can be placed under its providers.
func (w *Wrapped) New(props vdom.Props) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		return w.Render(props)
	})
}

func keysOf(p PropTypes) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}
