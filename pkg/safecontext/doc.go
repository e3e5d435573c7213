// Package safecontext layers type-safe context access and context-to-props
// injection on top of vango's context and component primitives.
//
// # Safe contexts
//
// A vango context silently falls back to its default value when a component
// is rendered outside of its Provider. A SafeContext makes that situation
// visible instead: the consumer never sees a value nobody supplied.
//
//	var ConfigContext = safecontext.Create[Config](safecontext.Options{
//	    Name: "ConfigContext",
//	})
//
//	func App() *vdom.VNode {
//	    return ConfigContext.Provider(Config{MaxWaitTime: 1000},
//	        ConfigContext.Consumer(func(cfg Config) *vdom.VNode {
//	            return vdom.Textf("Max response time is %d", cfg.MaxWaitTime)
//	        }),
//	    )
//	}
//
// When no value was supplied the consumer logs the problem and renders a
// fallback: the context's OnError, or else the renderer held by the Failure
// context (DefaultFailure unless an ancestor called ProvideFailure). A consumer
// never panics.
//
// # Injecting contexts as props
//
// WithContext reads an ordered set of contexts and maps their values onto the
// props of a wrapped component:
//
//	var Menu = safecontext.WithContext(
//	    safecontext.Map{{Key: "config", Source: ConfigContext}},
//	    safecontext.Spread,
//	).Wrap(renderMenu)
//
//	// Menu.New(vdom.Props{"title": "x"}) receives {"title": "x", "config": Config{...}}
//
// Projected props always win over incoming props of the same name. Memo
// wraps a component with a per-instance snapshot that skips re-rendering
// when neither props nor context values changed, and WithForwardRef threads
// a *vango.Ref through to the target.
package safecontext
