package safecontext

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/vango-dev/vango/v2/pkg/vango"
	"github.com/vango-dev/vango/v2/pkg/vdom"
)

// DefaultName labels contexts created without a name.
const DefaultName = "UntitledContext"

// Options configures a SafeContext. Every field is optional.
type Options struct {
	// Name is used in error messages and display names.
	// Default: "UntitledContext".
	Name string

	// OnError produces the node rendered by a consumer that finds no
	// supplied value. When nil, the Failure context decides.
	OnError func() *vdom.VNode

	// Logger receives a warning for every missing value.
	// Default: slog.Default().
	Logger *slog.Logger

	// Observer is notified of missing values.
	Observer Observer
}

// slot distinguishes a supplied zero value from no value at all.
type slot[T any] struct {
	value T
	ok    bool
}

// SafeContext is a context whose consumers never observe a value that no
// Provider supplied.
type SafeContext[T any] struct {
	name     string
	onError  func() *vdom.VNode
	logger   *slog.Logger
	observer Observer
	inner    *vango.Context[slot[T]]
}

// Create creates a SafeContext. Options may be omitted.
func Create[T any](opts ...Options) *SafeContext[T] {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	return &SafeContext[T]{
		name:     o.Name,
		onError:  o.OnError,
		logger:   o.Logger,
		observer: o.Observer,
		inner:    vango.CreateContext(slot[T]{}),
	}
}

// Name returns the configured context name.
func (c *SafeContext[T]) Name() string {
	return c.name
}

// ProviderName is the debug display name of the provider.
func (c *SafeContext[T]) ProviderName() string {
	return "SafeContext(Provider(" + c.name + "))"
}

// ConsumerName is the debug display name of the consumer.
func (c *SafeContext[T]) ConsumerName() string {
	return "SafeContext(Consumer(" + c.name + "))"
}

// Provider supplies value to the consumers rendered under the current owner,
// children included. Providers nest: the innermost owner wins.
func (c *SafeContext[T]) Provider(value T, children ...any) *vdom.VNode {
	return c.inner.Provider(slot[T]{value: value, ok: true}, children...)
}

// Consumer returns a component node calling render with the supplied value.
// Without one, render is not called and the fallback is rendered instead.
func (c *SafeContext[T]) Consumer(render func(value T) *vdom.VNode) *vdom.VNode {
	return &vdom.VNode{
		Kind: vdom.KindComponent,
		Comp: vdom.Func(func() *vdom.VNode {
			value, err := c.lookup()
			if err != nil {
				return c.fallback(err)
			}
			return render(value)
		}),
	}
}

// Use returns the supplied value, or a *MissingContextError.
//
// Like vango's Context.Use this is a hook: call it unconditionally during render.
func (c *SafeContext[T]) Use() (T, error) {
	value, err := c.lookup()
	if err != nil {
		return value, err
	}
	// A nil *MissingContextError is not a nil error.
	return value, nil
}

func (c *SafeContext[T]) lookup() (T, *MissingContextError) {
	s := c.inner.Use()
	if !s.ok {
		var zero T
		return zero, &MissingContextError{Context: c.name}
	}
	return s.value, nil
}

func (c *SafeContext[T]) contextName() string { return c.name }

func (c *SafeContext[T]) valueType() reflect.Type { return reflect.TypeFor[T]() }

func (c *SafeContext[T]) resolve() (any, *MissingContextError) {
	value, err := c.lookup()
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *SafeContext[T]) fallback(err *MissingContextError) *vdom.VNode {
	c.logger.Warn("context consumed outside of its provider",
		"context", c.name,
		"code", err.Code(),
	)
	c.observer.ContextMissing(c.name)
	if c.onError != nil {
		return c.onError()
	}
	return renderFailure(err)
}

// Source is a context that can feed a context map: a *SafeContext or a raw
// vango context adapted with Raw.
type Source interface {
	contextName() string
	valueType() reflect.Type
	resolve() (any, *MissingContextError)
	fallback(err *MissingContextError) *vdom.VNode
}

// Raw adapts a plain vango context for use in a Map. A raw context is never
// missing: without a Provider it yields its default value.
func Raw[T any](ctx *vango.Context[T]) Source {
	return rawSource[T]{ctx: ctx}
}

type rawSource[T any] struct {
	ctx *vango.Context[T]
}

func (r rawSource[T]) contextName() string {
	return fmt.Sprintf("Context(%s)", reflect.TypeFor[T]())
}

func (r rawSource[T]) valueType() reflect.Type { return reflect.TypeFor[T]() }

func (r rawSource[T]) resolve() (any, *MissingContextError) {
	return r.ctx.Use(), nil
}

func (r rawSource[T]) fallback(*MissingContextError) *vdom.VNode { return nil }
