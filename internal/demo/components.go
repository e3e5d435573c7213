package demo

import (
	"log/slog"
	"reflect"

	"github.com/vango-dev/safecontext/pkg/safecontext"
	"github.com/vango-dev/vango/v2/pkg/vango"
	"github.com/vango-dev/vango/v2/pkg/vdom"
)

// ServerConfig is the value supplied to the config context.
type ServerConfig struct {
	MaxWaitTime int
}

// MenuProps are the props of the menu component.
type MenuProps struct {
	Title  string       `prop:"title"`
	Config ServerConfig `prop:"config"`
}

// Menu renders the title prop and the injected server config.
func Menu(p MenuProps) *vdom.VNode {
	return vdom.Div(
		vdom.Class("menu"),
		vdom.Textf(`Title property is "%s" and max response time is "%d"`, p.Title, p.Config.MaxWaitTime),
	)
}

// DisplayProps are the props of the display component.
type DisplayProps struct {
	Version  string    `prop:"version"`
	URL      string    `prop:"url"`
	Location []float64 `prop:"location"`
}

// Display renders the values of three contexts.
func Display(p DisplayProps) *vdom.VNode {
	var lat, lon float64
	if len(p.Location) == 2 {
		lat, lon = p.Location[0], p.Location[1]
	}
	return vdom.Div(
		vdom.Class("display"),
		vdom.Textf("URL: %s, Location: latitude = %v, longitude = %v, Version: %s", p.URL, lat, lon, p.Version),
	)
}

// Versioned renders the version number injected from a raw vango context.
func Versioned(props vdom.Props) *vdom.VNode {
	return vdom.Span(vdom.Textf("Version is %v", props["version"]))
}

// Contexts are the demo contexts and the components wrapped with them.
type Contexts struct {
	Config   *safecontext.SafeContext[ServerConfig]
	URL      *safecontext.SafeContext[string]
	Location *safecontext.SafeContext[[]float64]
	Version  *vango.Context[string]
	Number   *vango.Context[int]

	Menu      *safecontext.Wrapped
	MenuMemo  *safecontext.Memoized
	Display   *safecontext.Wrapped
	Versioned *safecontext.Wrapped
}

// NewContexts creates the demo contexts. Every context and decorator reports
// to observer and logs to logger.
func NewContexts(observer safecontext.Observer, logger *slog.Logger) *Contexts {
	opts := func(name string) safecontext.Options {
		return safecontext.Options{Name: name, Logger: logger, Observer: observer}
	}
	c := &Contexts{
		Config:   safecontext.Create[ServerConfig](opts("ConfigContext")),
		URL:      safecontext.Create[string](opts("URLContext")),
		Location: safecontext.Create[[]float64](opts("LocationContext")),
		Version:  vango.CreateContext(""),
		Number:   vango.CreateContext(1),
	}
	decorate := []safecontext.Option{
		safecontext.WithObserver(observer),
		safecontext.WithLogger(logger),
	}

	menu := safecontext.WithContext(
		safecontext.Map{{Key: "config", Source: c.Config}},
		safecontext.Spread,
		append(decorate, safecontext.Provides(safecontext.PropTypes{
			"config": reflect.TypeFor[ServerConfig](),
		}))...,
	)
	c.Menu = safecontext.WrapTyped(menu, Menu)
	c.MenuMemo = menu.Memo(safecontext.Typed(Menu).Render, safecontext.Named("Menu"))

	c.Display = safecontext.WrapTyped(safecontext.WithContext(safecontext.Map{
		{Key: "version", Source: safecontext.Raw(c.Version)},
		{Key: "url", Source: c.URL},
		{Key: "location", Source: c.Location},
	}, safecontext.Spread, decorate...), Display)

	c.Versioned = safecontext.WithContext(
		safecontext.Map{{Key: "version", Source: safecontext.Raw(c.Number)}},
		safecontext.Spread,
		decorate...,
	).Wrap(Versioned)

	return c
}
