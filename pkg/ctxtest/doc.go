// Package ctxtest provides testing helpers for components built with
// safecontext.
//
// Contexts only carry values inside a vango owner scope. Scope runs a test
// body under a fresh root owner, and the render helpers expand component
// nodes under whatever owner is current:
//
//	func TestMenu(t *testing.T) {
//	    ctxtest.Scope(t, func(*vango.Owner) {
//	        node := ConfigContext.Provider(Config{MaxWaitTime: 1000},
//	            Menu.New(vdom.Props{"title": "x"}),
//	        )
//	        ctxtest.ExpectText(t, node, `Title property is "x" and max response time is "1000"`)
//	    })
//	}
//
// # Render Assertions
//
//	ctxtest.ExpectContains(t, node, "max response time")
//	ctxtest.ExpectNotContains(t, node, "data-safecontext-missing")
//
// # Recording Observer
//
// Recorder implements safecontext.Observer and keeps every event, so tests
// can assert on resolution order and memo decisions.
package ctxtest
