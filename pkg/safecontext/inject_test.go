package safecontext_test

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"testing"

	"github.com/vango-dev/safecontext/pkg/ctxtest"
	"github.com/vango-dev/safecontext/pkg/safecontext"
	"github.com/vango-dev/vango/v2/pkg/vango"
	"github.com/vango-dev/vango/v2/pkg/vdom"
)

type serverConfig struct {
	MaxWaitTime int
}

type menuProps struct {
	Title  string       `prop:"title"`
	Config serverConfig `prop:"config"`
}

func menu(p menuProps) *vdom.VNode {
	return vdom.Fragment(vdom.Textf(`Title property is "%s" and max response time is "%d"`, p.Title, p.Config.MaxWaitTime))
}

func TestWithContext_ConfigMenu(t *testing.T) {
	ConfigContext := safecontext.Create[serverConfig](safecontext.Options{Name: "ConfigContext"})
	Menu := safecontext.WrapTyped(
		safecontext.WithContext(safecontext.Map{{Key: "config", Source: ConfigContext}}, safecontext.Spread),
		menu,
	)

	ctxtest.Scope(t, func(*vango.Owner) {
		node := ConfigContext.Provider(serverConfig{MaxWaitTime: 1000},
			Menu.New(vdom.Props{"title": "x"}),
		)
		ctxtest.ExpectText(t, node, `Title property is "x" and max response time is "1000"`)
	})
}

func display(props vdom.Props) *vdom.VNode {
	loc := props["location"].([]float64)
	return vdom.Textf("URL: %s, Location: latitude = %v, longitude = %v, Version: %s",
		props["url"], loc[0], loc[1], props["version"])
}

func TestWithContext_ThreeContexts(t *testing.T) {
	VersionContext := vango.CreateContext("0.0")
	URLContext := safecontext.Create[string](safecontext.Options{Name: "URLContext"})
	LocationContext := safecontext.Create[[]float64](safecontext.Options{Name: "LocationContext"})

	Display := safecontext.WithContext(safecontext.Map{
		{Key: "version", Source: safecontext.Raw(VersionContext)},
		{Key: "url", Source: URLContext},
		{Key: "location", Source: LocationContext},
	}, func(v safecontext.Values) vdom.Props {
		return vdom.Props{
			"version":  safecontext.Get[string](v, "version"),
			"url":      safecontext.Get[string](v, "url"),
			"location": safecontext.Get[[]float64](v, "location"),
		}
	}).Wrap(display)

	ctxtest.Scope(t, func(*vango.Owner) {
		node := VersionContext.Provider("1.0",
			URLContext.Provider("http://localhost:8080",
				LocationContext.Provider([]float64{37.0902, 95.7129},
					Display.New(nil),
				),
			),
		)
		ctxtest.ExpectText(t, node, "URL: http://localhost:8080, Location: latitude = 37.0902, longitude = 95.7129, Version: 1.0")
	})
}

func TestWithContext_RawContextDefault(t *testing.T) {
	VersionContext := vango.CreateContext(1)
	Element := safecontext.WithContext(
		safecontext.Map{{Key: "version", Source: safecontext.Raw(VersionContext)}},
		safecontext.Spread,
	).Wrap(func(props vdom.Props) *vdom.VNode {
		return vdom.Textf("Version is %d", props["version"])
	})

	ctxtest.Scope(t, func(*vango.Owner) {
		ctxtest.ExpectText(t, ctxtest.Node(Element.New(nil)), "Version is 1")
	})
}

func TestWithContext_EmptyMap(t *testing.T) {
	var projected []safecontext.Values
	Plain := safecontext.WithContext(nil, func(v safecontext.Values) vdom.Props {
		projected = append(projected, v)
		return nil
	}).Wrap(func(props vdom.Props) *vdom.VNode {
		return vdom.Textf("%v/%v", props["a"], props["b"])
	})

	ctxtest.Scope(t, func(*vango.Owner) {
		ctxtest.ExpectText(t, Plain.Render(vdom.Props{"a": 1, "b": "two"}), "1/two")
	})
	if len(projected) != 1 || projected[0].Len() != 0 {
		t.Errorf("projection calls = %d with %v, want one call with empty values", len(projected), projected)
	}
}

func TestWithContext_InjectionWins(t *testing.T) {
	RoleContext := safecontext.Create[string](safecontext.Options{Name: "RoleContext"})
	Badge := safecontext.WithContext(
		safecontext.Map{{Key: "role", Source: RoleContext}},
		safecontext.Spread,
	).Wrap(func(props vdom.Props) *vdom.VNode {
		return vdom.Textf("%s:%s", props["role"], props["name"])
	})

	incoming := vdom.Props{"role": "guest", "name": "ada"}
	ctxtest.Scope(t, func(*vango.Owner) {
		ctxtest.Provide(t, RoleContext.Provider("admin"))
		ctxtest.ExpectText(t, Badge.Render(incoming), "admin:ada")
	})
	if incoming["role"] != "guest" || len(incoming) != 2 {
		t.Errorf("incoming props were modified: %v", incoming)
	}
}

func TestWithContext_ResolvesEachKeyOnceInOrder(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"one context", []string{"a"}},
		{"three contexts", []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ctxtest.Recorder{}
			var contexts safecontext.Map
			var sources []*safecontext.SafeContext[int]
			for _, k := range tt.keys {
				c := safecontext.Create[int](safecontext.Options{Name: k})
				contexts = append(contexts, safecontext.Entry{Key: k, Source: c})
				sources = append(sources, c)
			}

			var seen [][]string
			w := safecontext.WithContext(contexts, func(v safecontext.Values) vdom.Props {
				seen = append(seen, v.Keys())
				return safecontext.Spread(v)
			}, safecontext.WithObserver(rec)).Wrap(func(props vdom.Props) *vdom.VNode {
				return vdom.Textf("%d", len(props))
			})

			ctxtest.Scope(t, func(*vango.Owner) {
				for i, c := range sources {
					ctxtest.Provide(t, c.Provider(i))
				}
				ctxtest.ExpectText(t, w.Render(nil), fmt.Sprint(len(tt.keys)))
				ctxtest.ExpectText(t, w.Render(nil), fmt.Sprint(len(tt.keys)))
			})

			if len(seen) != 2 {
				t.Fatalf("projection ran %d times, want 2", len(seen))
			}
			for _, keys := range append(seen, rec.Resolved()...) {
				if !slices.Equal(keys, tt.keys) {
					t.Errorf("resolution order = %v, want %v", keys, tt.keys)
				}
			}
			if got := rec.Renders(); len(got) != 2 || got[0] != w.DisplayName() {
				t.Errorf("Renders() = %v", got)
			}
			if got := rec.Finished(); len(got) != 2 {
				t.Errorf("Finished() = %v, want 2 entries", got)
			}
		})
	}
}

func TestWithContext_MissingStopsAtFirstKey(t *testing.T) {
	First := safecontext.Create[int](safecontext.Options{Name: "First"})
	Second := safecontext.Create[int](safecontext.Options{Name: "Second"})
	targetCalls := 0
	w := safecontext.WithContext(safecontext.Map{
		{Key: "first", Source: First},
		{Key: "second", Source: Second},
	}, safecontext.Spread).Wrap(func(vdom.Props) *vdom.VNode {
		targetCalls++
		return nil
	})

	ctxtest.Scope(t, func(*vango.Owner) {
		node := w.Render(nil)
		ctxtest.ExpectContains(t, node, `data-safecontext-missing="First"`)
		ctxtest.ExpectNotContains(t, node, "Second")

		ctxtest.Provide(t, First.Provider(1))
		ctxtest.ExpectContains(t, w.Render(nil), `data-safecontext-missing="Second"`)
	})
	if targetCalls != 0 {
		t.Errorf("target rendered %d times without its contexts", targetCalls)
	}
}

func TestWithContextProps(t *testing.T) {
	PrefixContext := safecontext.Create[string](safecontext.Options{Name: "PrefixContext"})
	Label := safecontext.WithContextProps(
		safecontext.Map{{Key: "prefix", Source: PrefixContext}},
		func(v safecontext.Values, props vdom.Props) vdom.Props {
			return vdom.Props{"label": safecontext.Get[string](v, "prefix") + props["name"].(string)}
		},
	).Wrap(func(props vdom.Props) *vdom.VNode {
		return vdom.Text(props["label"].(string))
	})

	ctxtest.Scope(t, func(*vango.Owner) {
		ctxtest.Provide(t, PrefixContext.Provider("Dr. "))
		ctxtest.ExpectText(t, Label.Render(vdom.Props{"name": "Who"}), "Dr. Who")
	})
}

func statusBadge(props vdom.Props) *vdom.VNode {
	return vdom.Text(fmt.Sprint(props["status"]))
}

func TestWrapped_OriginalAndDisplayName(t *testing.T) {
	d := safecontext.WithContext(nil, safecontext.Spread)

	w := d.Wrap(statusBadge)
	if got := w.DisplayName(); got != "WithContext(statusBadge)" {
		t.Errorf("DisplayName() = %q", got)
	}
	if reflect.ValueOf(w.Original()).Pointer() != reflect.ValueOf(statusBadge).Pointer() {
		t.Error("Original() should return the undecorated component")
	}

	named := d.Wrap(statusBadge, safecontext.Named("Badge"))
	if got := named.DisplayName(); got != "WithContext(Badge)" {
		t.Errorf("DisplayName() with Named = %q", got)
	}

	anon := d.Wrap(func(vdom.Props) *vdom.VNode { return nil })
	if got := anon.DisplayName(); got != "WithContext(Component)" {
		t.Errorf("DisplayName() of a closure = %q", got)
	}

	typed := safecontext.WrapTyped(d, menu)
	if got := typed.DisplayName(); got != "WithContext(menu)" {
		t.Errorf("DisplayName() of WrapTyped = %q", got)
	}
}

func TestWithContext_InvalidMapPanics(t *testing.T) {
	c := safecontext.Create[int]()
	tests := []struct {
		name     string
		contexts safecontext.Map
		project  safecontext.Projection
		code     string
	}{
		{"empty key", safecontext.Map{{Key: "", Source: c}}, safecontext.Spread, "SC002"},
		{"duplicate key", safecontext.Map{{Key: "a", Source: c}, {Key: "a", Source: c}}, safecontext.Spread, "SC002"},
		{"nil source", safecontext.Map{{Key: "a"}}, safecontext.Spread, "SC002"},
		{"nil projection", safecontext.Map{{Key: "a", Source: c}}, nil, "SC004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(*safecontext.ContractError)
				if !ok {
					t.Fatalf("recovered %v (%T), want *ContractError", r, r)
				}
				if err.Code() != tt.code {
					t.Errorf("Code() = %q, want %q", err.Code(), tt.code)
				}
			}()
			safecontext.WithContext(tt.contexts, tt.project)
		})
	}

	if err := (safecontext.Map{{Key: "a", Source: c}, {Key: "b", Source: c}}).Validate(); err != nil {
		t.Errorf("Validate() on a valid map = %v", err)
	}
}

func TestTryWrap_PropContract(t *testing.T) {
	ConfigContext := safecontext.Create[serverConfig](safecontext.Options{Name: "ConfigContext"})
	d := safecontext.WithContext(
		safecontext.Map{{Key: "config", Source: ConfigContext}},
		safecontext.Spread,
		safecontext.Provides(safecontext.PropTypesOf[struct {
			Config serverConfig
		}]()),
	)

	t.Run("compatible", func(t *testing.T) {
		w, err := d.TryWrap(safecontext.Typed(menu).Render, safecontext.Accepts(safecontext.PropTypesOf[menuProps]()))
		if err != nil {
			t.Fatalf("TryWrap() error: %v", err)
		}
		public := w.PublicProps()
		if len(public) != 1 || public["title"] != reflect.TypeFor[string]() {
			t.Errorf("PublicProps() = %v, want only title", public)
		}
	})

	t.Run("incompatible", func(t *testing.T) {
		_, err := d.TryWrap(statusBadge, safecontext.Accepts(safecontext.PropTypes{
			"config": reflect.TypeFor[string](),
		}))
		var ce *safecontext.ContractError
		if !errors.As(err, &ce) {
			t.Fatalf("TryWrap() error = %v, want *ContractError", err)
		}
		if ce.Code() != "SC003" || ce.Prop != "config" || ce.Component != "statusBadge" {
			t.Errorf("ContractError = %+v", ce)
		}
	})

	t.Run("WrapTyped panics", func(t *testing.T) {
		type wrongProps struct {
			Config int `prop:"config"`
		}
		defer func() {
			if _, ok := recover().(*safecontext.ContractError); !ok {
				t.Error("WrapTyped should panic with *ContractError")
			}
		}()
		safecontext.WrapTyped(d, func(wrongProps) *vdom.VNode { return nil })
	})

	t.Run("nil target", func(t *testing.T) {
		if _, err := d.TryWrap(nil); err == nil {
			t.Error("TryWrap(nil) should fail")
		}
	})
}

func TestWithContext_SpreadDerivesProvides(t *testing.T) {
	ConfigContext := safecontext.Create[serverConfig](safecontext.Options{Name: "ConfigContext"})
	AnyContext := safecontext.Create[any](safecontext.Options{Name: "AnyContext"})
	d := safecontext.WithContext(safecontext.Map{
		{Key: "config", Source: ConfigContext},
		{Key: "extra", Source: AnyContext},
	}, safecontext.Spread)

	provided := d.Provided()
	if len(provided) != 1 || provided["config"] != reflect.TypeFor[serverConfig]() {
		t.Errorf("Provided() = %v, want only config", provided)
	}

	type wrongProps struct {
		Config int `prop:"config"`
	}
	defer func() {
		r := recover()
		err, _ := r.(error)
		var ce *safecontext.ContractError
		if !errors.As(err, &ce) || ce.Code() != "SC003" || ce.Prop != "config" {
			t.Errorf("WrapTyped panic = %v, want SC003 for config", r)
		}
	}()
	safecontext.WrapTyped(d, func(p wrongProps) *vdom.VNode {
		return vdom.Textf("config=%d", p.Config)
	})
}

func TestWithContext_CustomProjectionDerivesNothing(t *testing.T) {
	ConfigContext := safecontext.Create[serverConfig](safecontext.Options{Name: "ConfigContext"})
	d := safecontext.WithContext(safecontext.Map{{Key: "config", Source: ConfigContext}},
		func(v safecontext.Values) vdom.Props {
			return vdom.Props{"config": safecontext.Get[serverConfig](v, "config").MaxWaitTime}
		})
	if got := d.Provided(); len(got) != 0 {
		t.Errorf("Provided() = %v, want empty", got)
	}

	type waitProps struct {
		Config int `prop:"config"`
	}
	if _, err := d.TryWrap(safecontext.Typed(func(p waitProps) *vdom.VNode { return nil }).Render,
		safecontext.Accepts(safecontext.PropTypesOf[waitProps]())); err != nil {
		t.Errorf("TryWrap() error: %v", err)
	}
}

func TestValues_LookupAndGet(t *testing.T) {
	NameContext := safecontext.Create[string]()
	var got safecontext.Values
	w := safecontext.WithContext(safecontext.Map{{Key: "name", Source: NameContext}}, func(v safecontext.Values) vdom.Props {
		got = v
		return nil
	}).Wrap(statusBadge)

	ctxtest.Scope(t, func(*vango.Owner) {
		ctxtest.Provide(t, NameContext.Provider("ada"))
		w.Render(nil)
	})

	if v, ok := safecontext.Lookup[string](got, "name"); !ok || v != "ada" {
		t.Errorf("Lookup[string] = %q, %v", v, ok)
	}
	if _, ok := safecontext.Lookup[int](got, "name"); ok {
		t.Error("Lookup[int] of a string should fail")
	}
	if _, ok := safecontext.Lookup[string](got, "missing"); ok {
		t.Error("Lookup of an unknown key should fail")
	}
	if v := safecontext.Get[int](got, "name"); v != 0 {
		t.Errorf("Get[int] = %d, want zero", v)
	}
	if raw, ok := got.Value("name"); !ok || raw != "ada" {
		t.Errorf("Value() = %v, %v", raw, ok)
	}
}
