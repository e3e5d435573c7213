package demo

import (
	"fmt"
	"sort"

	"github.com/vango-dev/safecontext/internal/config"
	"github.com/vango-dev/safecontext/internal/errors"
	"github.com/vango-dev/safecontext/pkg/safecontext"
	"github.com/vango-dev/vango/v2/pkg/render"
	"github.com/vango-dev/vango/v2/pkg/vango"
	"github.com/vango-dev/vango/v2/pkg/vdom"
)

// Scenario is a named provider tree.
type Scenario struct {
	Name        string
	Description string

	// Build returns the tree. It runs under the owner the tree renders in.
	Build func() *vdom.VNode
}

// Result is one rendered scenario.
type Result struct {
	Scenario string `json:"scenario"`
	Text     string `json:"text"`
	HTML     string `json:"html,omitempty"`
}

// Registry holds the demo scenarios by name.
type Registry struct {
	scenarios map[string]Scenario
}

// NewRegistry builds the demo scenarios from the configured values.
func NewRegistry(c *Contexts, values config.ScenarioConfig) *Registry {
	r := &Registry{scenarios: make(map[string]Scenario)}

	r.add(Scenario{
		Name:        "menu",
		Description: "config context injected as a prop next to an incoming title",
		Build: func() *vdom.VNode {
			return c.Config.Provider(ServerConfig{MaxWaitTime: values.MaxWaitTime},
				c.Menu.New(vdom.Props{"title": values.Title}),
			)
		},
	})
	r.add(Scenario{
		Name:        "menu-memo",
		Description: "memoized menu rendered twice with unchanged inputs",
		Build: func() *vdom.VNode {
			inst := c.MenuMemo.Mount(vdom.Props{"title": values.Title})
			return c.Config.Provider(ServerConfig{MaxWaitTime: values.MaxWaitTime},
				inst, inst,
			)
		},
	})
	r.add(Scenario{
		Name:        "display",
		Description: "a raw vango context and two safe contexts resolved in order",
		Build: func() *vdom.VNode {
			return c.Version.Provider(values.Version,
				c.URL.Provider(values.URL,
					c.Location.Provider(values.Location,
						c.Display.New(nil),
					),
				),
			)
		},
	})
	r.add(Scenario{
		Name:        "version",
		Description: "a raw vango context read without a provider yields its default",
		Build: func() *vdom.VNode {
			return vdom.Fragment(c.Versioned.New(nil))
		},
	})
	r.add(Scenario{
		Name:        "missing",
		Description: "the menu rendered without its config provider",
		Build: func() *vdom.VNode {
			return vdom.Fragment(c.Menu.New(vdom.Props{"title": values.Title}))
		},
	})
	r.add(Scenario{
		Name:        "consumer",
		Description: "a safe context consumer rendered under its provider",
		Build: func() *vdom.VNode {
			return c.URL.Provider(values.URL,
				c.URL.Consumer(func(url string) *vdom.VNode {
					return vdom.Textf("URL: %s", url)
				}),
			)
		},
	})

	return r
}

func (r *Registry) add(s Scenario) {
	r.scenarios[s.Name] = s
}

// Names returns the scenario names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named scenario.
func (r *Registry) Lookup(name string) (Scenario, error) {
	s, ok := r.scenarios[name]
	if !ok {
		return Scenario{}, errors.New(errors.CodeUnknownScenario).
			WithDetail(fmt.Sprintf("No scenario named %q", name))
	}
	return s, nil
}

// Render renders the named scenario once under a fresh owner. The HTML is
// only produced when withHTML is set, from the same rendered tree as the
// text.
func (r *Registry) Render(name string, withHTML, pretty bool) (Result, error) {
	s, err := r.Lookup(name)
	if err != nil {
		return Result{}, err
	}

	res := Result{Scenario: name}
	inScope(func() {
		tree := safecontext.Expand(s.Build())
		res.Text = safecontext.TextContent(tree)
		if withHTML && tree != nil {
			renderer := render.NewRenderer(render.RendererConfig{Pretty: pretty})
			res.HTML, err = renderer.RenderToString(tree)
		}
	})
	if err != nil {
		return Result{}, errors.New(errors.CodeRenderFailed).Wrap(err)
	}
	return res, nil
}

// inScope runs fn under a fresh root owner.
func inScope(fn func()) {
	owner := vango.NewOwner(nil)
	defer owner.Dispose()
	vango.WithOwner(owner, fn)
}
