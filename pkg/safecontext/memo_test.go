package safecontext_test

import (
	"slices"
	"testing"

	"github.com/vango-dev/safecontext/pkg/ctxtest"
	"github.com/vango-dev/safecontext/pkg/safecontext"
	"github.com/vango-dev/vango/v2/pkg/vango"
	"github.com/vango-dev/vango/v2/pkg/vdom"
)

type memoFixture struct {
	theme       *safecontext.SafeContext[string]
	rec         *ctxtest.Recorder
	projections int
	renders     int
	memo        *safecontext.Memoized
	plain       *safecontext.Wrapped
}

func newMemoFixture() *memoFixture {
	f := &memoFixture{
		theme: safecontext.Create[string](safecontext.Options{Name: "ThemeContext"}),
		rec:   &ctxtest.Recorder{},
	}
	d := safecontext.WithContext(
		safecontext.Map{{Key: "theme", Source: f.theme}},
		func(v safecontext.Values) vdom.Props {
			f.projections++
			// "dark" and "night" project to the same props.
			theme := safecontext.Get[string](v, "theme")
			if theme == "night" {
				theme = "dark"
			}
			return vdom.Props{"theme": theme}
		},
		safecontext.WithObserver(f.rec),
	)
	button := func(props vdom.Props) *vdom.VNode {
		f.renders++
		return vdom.Textf("%s button: %v", props["theme"], props["label"])
	}
	f.memo = d.Memo(button, safecontext.Named("Button"))
	f.plain = d.Wrap(button, safecontext.Named("Button"))
	return f
}

func TestMemo_DecisionTable(t *testing.T) {
	f := newMemoFixture()

	type step struct {
		theme       string
		props       vdom.Props
		decision    safecontext.MemoDecision
		projections int
		renders     int
		sameNode    bool
		text        string
	}
	ok := vdom.Props{"label": "OK"}
	cancel := vdom.Props{"label": "Cancel"}
	steps := []step{
		{"light", ok, safecontext.MemoMiss, 1, 1, false, "light button: OK"},
		{"light", ok, safecontext.MemoHit, 1, 1, true, "light button: OK"},
		{"light", vdom.Props{"label": "OK"}, safecontext.MemoHit, 1, 1, true, "light button: OK"},
		{"light", cancel, safecontext.MemoPropsChanged, 1, 2, false, "light button: Cancel"},
		{"dark", cancel, safecontext.MemoContextChanged, 2, 3, false, "dark button: Cancel"},
		{"night", cancel, safecontext.MemoContextSkipped, 3, 3, true, "dark button: Cancel"},
		{"light", ok, safecontext.MemoBothChanged, 4, 4, false, "light button: OK"},
	}

	ctxtest.Scope(t, func(root *vango.Owner) {
		inst := f.memo.Mount(nil)
		var last *vdom.VNode
		for i, s := range steps {
			child := vango.NewOwner(root)
			vango.WithOwner(child, func() {
				ctxtest.Provide(t, f.theme.Provider(s.theme))
				inst.Update(s.props)
				node := inst.Render()

				if got := f.rec.Memo(); got[len(got)-1] != s.decision {
					t.Errorf("step %d: decision = %v, want %v", i, got[len(got)-1], s.decision)
				}
				if f.projections != s.projections {
					t.Errorf("step %d: projections = %d, want %d", i, f.projections, s.projections)
				}
				if f.renders != s.renders {
					t.Errorf("step %d: target renders = %d, want %d", i, f.renders, s.renders)
				}
				if (node == last) != s.sameNode {
					t.Errorf("step %d: same node = %v, want %v", i, node == last, s.sameNode)
				}
				ctxtest.ExpectText(t, node, s.text)
				last = node
			})
			child.Dispose()
		}
	})
}

func TestMemo_MatchesUnmemoized(t *testing.T) {
	f := newMemoFixture()
	themes := []string{"light", "light", "dark", "night", "night", "light"}
	labels := []string{"A", "B", "B", "B", "C", "C"}

	ctxtest.Scope(t, func(root *vango.Owner) {
		inst := f.memo.Mount(nil)
		for i := range themes {
			child := vango.NewOwner(root)
			vango.WithOwner(child, func() {
				ctxtest.Provide(t, f.theme.Provider(themes[i]))
				props := vdom.Props{"label": labels[i]}
				inst.Update(props)
				got := ctxtest.Text(inst.Render())
				want := ctxtest.Text(f.plain.Render(props))
				if got != want {
					t.Errorf("step %d: memoized %q, unmemoized %q", i, got, want)
				}
			})
			child.Dispose()
		}
	})
}

func TestMemo_PropsMutatedInPlace(t *testing.T) {
	f := newMemoFixture()

	ctxtest.Scope(t, func(*vango.Owner) {
		ctxtest.Provide(t, f.theme.Provider("light"))
		props := vdom.Props{"label": "OK"}
		inst := f.memo.Mount(props)
		ctxtest.ExpectText(t, inst.Render(), "light button: OK")

		props["label"] = "Cancel"
		ctxtest.ExpectText(t, inst.Render(), "light button: OK")

		inst.Update(props)
		got := ctxtest.Text(inst.Render())
		plain := ctxtest.Text(f.plain.Render(props))
		if got != plain || got != "light button: Cancel" {
			t.Errorf("after in-place update: memoized %q, unmemoized %q", got, plain)
		}
		want := []safecontext.MemoDecision{safecontext.MemoMiss, safecontext.MemoHit, safecontext.MemoPropsChanged}
		if got := f.rec.Memo(); !slices.Equal(got, want) {
			t.Errorf("decisions = %v, want %v", got, want)
		}
	})
}

func TestMemo_MissingContextKeepsSnapshot(t *testing.T) {
	f := newMemoFixture()

	ctxtest.Scope(t, func(root *vango.Owner) {
		inst := f.memo.Mount(vdom.Props{"label": "OK"})

		ctxtest.ExpectContains(t, ctxtest.Node(inst), `data-safecontext-missing="ThemeContext"`)
		if f.renders != 0 {
			t.Fatalf("target rendered %d times without its context", f.renders)
		}

		ctxtest.Provide(t, f.theme.Provider("light"))
		first := inst.Render()
		if again := inst.Render(); again != first {
			t.Error("second render with unchanged inputs should return the cached node")
		}
		if got := f.rec.Memo(); !slices.Equal(got, []safecontext.MemoDecision{safecontext.MemoMiss, safecontext.MemoHit}) {
			t.Errorf("decisions = %v", got)
		}
	})
}

func TestMemo_Unmount(t *testing.T) {
	f := newMemoFixture()

	ctxtest.Scope(t, func(*vango.Owner) {
		ctxtest.Provide(t, f.theme.Provider("light"))
		inst := f.memo.Mount(vdom.Props{"label": "OK"})
		inst.Render()
		inst.Unmount()
		inst.Render()
	})

	want := []safecontext.MemoDecision{safecontext.MemoMiss, safecontext.MemoMiss}
	if got := f.rec.Memo(); !slices.Equal(got, want) {
		t.Errorf("decisions = %v, want %v", got, want)
	}
	if f.renders != 2 {
		t.Errorf("target renders = %d, want 2", f.renders)
	}
}

func TestMemo_PropsProjection(t *testing.T) {
	Unit := safecontext.Create[string](safecontext.Options{Name: "UnitContext"})
	projections := 0
	m := safecontext.WithContextProps(
		safecontext.Map{{Key: "unit", Source: Unit}},
		func(v safecontext.Values, props vdom.Props) vdom.Props {
			projections++
			return vdom.Props{"text": props["amount"].(string) + safecontext.Get[string](v, "unit")}
		},
	).Memo(func(props vdom.Props) *vdom.VNode {
		return vdom.Text(props["text"].(string))
	})

	ctxtest.Scope(t, func(*vango.Owner) {
		ctxtest.Provide(t, Unit.Provider("kg"))
		inst := m.Mount(vdom.Props{"amount": "3"})
		ctxtest.ExpectText(t, inst.Render(), "3kg")
		inst.Update(vdom.Props{"amount": "5"})
		ctxtest.ExpectText(t, inst.Render(), "5kg")
	})
	if projections != 2 {
		t.Errorf("projections = %d, want 2", projections)
	}
}

func TestMemo_Names(t *testing.T) {
	d := safecontext.WithContext(nil, safecontext.Spread)
	m := d.Memo(statusBadge)
	if got := m.DisplayName(); got != "WithContext(Memo(statusBadge))" {
		t.Errorf("DisplayName() = %q", got)
	}
	if m.Original() == nil {
		t.Error("Original() returned nil")
	}
}
