package safecontext

import (
	"log/slog"
	"maps"
	"reflect"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	diag "github.com/vango-dev/safecontext/internal/errors"
	"github.com/vango-dev/vango/v2/pkg/vdom"
)

// Component is a vango function component taking its props as a map.
type Component func(props vdom.Props) *vdom.VNode

// merge returns incoming overlaid with injected. Injected props win.
// Neither argument is modified.
func merge(incoming, injected vdom.Props) vdom.Props {
	out := make(vdom.Props, len(incoming)+len(injected))
	maps.Copy(out, incoming)
	maps.Copy(out, injected)
	return out
}

// shallowEqual compares two prop sets key by key with same.
func shallowEqual(a, b vdom.Props) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !same(av, bv) {
			return false
		}
	}
	return true
}

// same is identity-or-value equality. Comparable values compare with ==,
// slices and maps compare by backing storage, and funcs are never the same
// unless both are nil.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Map:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// PropTypes declares the props a component accepts, or the props a
// decorator injects, by name.
type PropTypes map[string]reflect.Type

// Without returns a copy of p without keys.
func (p PropTypes) Without(keys ...string) PropTypes {
	out := maps.Clone(p)
	if out == nil {
		out = PropTypes{}
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// PropTypesOf derives PropTypes from the exported fields of struct P.
// A `prop:"name"` tag sets the prop name, `prop:"-"` skips the field, and
// untagged fields use their name with a lower-cased first letter.
func PropTypesOf[P any]() PropTypes {
	types := PropTypes{}
	for _, f := range propFields(reflect.TypeFor[P]()) {
		types[f.name] = f.typ
	}
	return types
}

type propField struct {
	name  string
	index int
	typ   reflect.Type
}

func propFields(t reflect.Type) []propField {
	if t.Kind() != reflect.Struct {
		panic("safecontext: props type " + t.String() + " is not a struct")
	}
	var fields []propField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get("prop")
		if name == "-" {
			continue
		}
		if name == "" {
			name = lowerFirst(sf.Name)
		}
		fields = append(fields, propField{name: name, index: i, typ: sf.Type})
	}
	return fields
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// TypedComponent adapts a component taking a props struct to Component.
type TypedComponent[P any] struct {
	render func(props P) *vdom.VNode
	name   string
	fields []propField
	types  PropTypes
	logger *slog.Logger
}

// Typed wraps render, decoding vdom.Props into P by prop name.
func Typed[P any](render func(props P) *vdom.VNode) *TypedComponent[P] {
	fields := propFields(reflect.TypeFor[P]())
	types := make(PropTypes, len(fields))
	for _, f := range fields {
		types[f.name] = f.typ
	}
	return &TypedComponent[P]{
		render: render,
		name:   componentName(render),
		fields: fields,
		types:  types,
		logger: slog.Default(),
	}
}

// Render decodes props and calls the wrapped function. A prop that does
// not fit its field is logged at warn level and left at the zero value.
func (c *TypedComponent[P]) Render(props vdom.Props) *vdom.VNode {
	p, err := c.Decode(props)
	if err != nil {
		c.logger.Warn("prop does not match the declared type",
			"component", c.name,
			"prop", err.Prop,
			"code", err.Code(),
			"error", err.Reason,
		)
	}
	return c.render(p)
}

// Decode builds a P from props. Props whose value is not assignable to the
// field type are skipped; the first of them is reported as an SC003
// *ContractError.
func (c *TypedComponent[P]) Decode(props vdom.Props) (P, *ContractError) {
	var out P
	var mismatch *ContractError
	rv := reflect.ValueOf(&out).Elem()
	for _, f := range c.fields {
		raw, ok := props[f.name]
		if !ok || raw == nil {
			continue
		}
		val := reflect.ValueOf(raw)
		if !val.Type().AssignableTo(f.typ) {
			if mismatch == nil {
				mismatch = contractError(diag.CodeIncompatibleProp, c.name, f.name,
					"got %s but declared as %s", val.Type(), f.typ)
			}
			continue
		}
		rv.Field(f.index).Set(val)
	}
	return out, mismatch
}

// PropTypes returns the props P declares.
func (c *TypedComponent[P]) PropTypes() PropTypes {
	return maps.Clone(c.types)
}

// componentName derives a display name from a Go function value.
func componentName(fn any) string {
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return "Component"
	}
	name := strings.ReplaceAll(rf.Name(), "[...]", "")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if name == "" || isClosureName(name) {
		return "Component"
	}
	return name
}

func isClosureName(name string) bool {
	rest, ok := strings.CutPrefix(name, "func")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
