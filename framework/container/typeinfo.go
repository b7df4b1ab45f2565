package container

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// In marks a parameter object. A constructor whose only parameter is a
// struct embedding In has one dependency per exported field:
//
//	type ServerParams struct {
//	    container.In
//
//	    Logger  Logger
//	    Host    string        `default:"localhost"`
//	    Timeout time.Duration `default:"5s"`
//	    Cache   Cache         `optional:"true"`
//	    Hooks   []Hook        `variadic:"true"`
//	    Name    string        `param:"serverName"`
//	    Scratch []byte        `inject:"-"`
//	}
//
// The parameter name is the param tag, or the field name with its first
// letter lowered ("timeout").
type In struct{}

var (
	inType       = reflect.TypeFor[In]()
	errType      = reflect.TypeFor[error]()
	durationType = reflect.TypeFor[time.Duration]()
)

// typeInfo is what the builder knows about a named concrete type.
type typeInfo struct {
	name     string
	typ      reflect.Type // produced type
	fn       reflect.Value
	params   []*paramInfo
	object   reflect.Type // parameter object struct, nil for positional constructors
	variadic bool
	hasErr   bool
	abstract bool
}

// paramInfo describes one constructor parameter or parameter-object field.
type paramInfo struct {
	name       string
	typ        reflect.Type
	service    string // abstract requested for object-typed parameters
	primitive  bool
	variadic   bool
	hasDefault bool
	def        reflect.Value
	field      int // parameter-object field index, -1 for positional
}

func (t *typeInfo) hasConstructor() bool { return t.fn.IsValid() }

// zero returns a fresh instance for a type without a constructor.
func (t *typeInfo) zero() any {
	if t.typ.Kind() == reflect.Pointer {
		return reflect.New(t.typ.Elem()).Interface()
	}
	return reflect.New(t.typ).Elem().Interface()
}

// call invokes the constructor with resolved arguments.
func (t *typeInfo) call(args []reflect.Value) (any, error) {
	if t.object != nil {
		obj := reflect.New(t.object).Elem()
		for i, p := range t.params {
			obj.Field(p.field).Set(args[i])
		}
		args = []reflect.Value{obj}
	}

	var out []reflect.Value
	if t.variadic {
		out = t.fn.CallSlice(args)
	} else {
		out = t.fn.Call(args)
	}

	if t.hasErr {
		if err, _ := out[len(out)-1].Interface().(error); err != nil {
			return nil, err
		}
	}
	return out[0].Interface(), nil
}

// ── Analysis ──────────────────────────────────────────────────────────────────

// analyzeConstructor inspects ctor, which must be a func returning T or
// (T, error).
func analyzeConstructor(ctor any, o typeOptions) (*typeInfo, error) {
	val := reflect.ValueOf(ctor)
	if !val.IsValid() || val.Kind() != reflect.Func || val.IsNil() {
		return nil, &ConstructorError{Constructor: fmt.Sprintf("%T", ctor), Reason: "constructor must be a non-nil func"}
	}

	fnType := val.Type()
	info := &typeInfo{fn: val, variadic: fnType.IsVariadic()}

	switch {
	case fnType.NumOut() == 1 && fnType.Out(0) != errType:
	case fnType.NumOut() == 2 && fnType.Out(1) == errType:
		info.hasErr = true
	default:
		return nil, &ConstructorError{Constructor: fnType.String(), Reason: "must return T or (T, error)"}
	}

	info.typ = fnType.Out(0)
	info.name = o.name
	if info.name == "" {
		info.name = typeName(info.typ)
	}

	if fnType.NumIn() == 1 && embedsIn(fnType.In(0)) {
		if err := analyzeParamObject(info, fnType.In(0), o); err != nil {
			return nil, err
		}
		return info, nil
	}

	for i := 0; i < fnType.NumIn(); i++ {
		name := fmt.Sprintf("arg%d", i)
		if i < len(o.paramNames) && o.paramNames[i] != "" {
			name = o.paramNames[i]
		}
		p := newParam(name, fnType.In(i), info.variadic && i == fnType.NumIn()-1)
		p.field = -1
		if err := applyDefault(p, o, "", false); err != nil {
			return nil, &ConstructorError{Constructor: fnType.String(), Reason: err.Error()}
		}
		info.params = append(info.params, p)
	}
	return info, nil
}

// analyzeParamObject turns the exported fields of an In struct into parameters.
func analyzeParamObject(info *typeInfo, structType reflect.Type, o typeOptions) error {
	info.object = structType
	info.variadic = false

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() || (field.Anonymous && field.Type == inType) {
			continue
		}
		if field.Tag.Get("inject") == "-" {
			continue
		}

		name := field.Tag.Get("param")
		if name == "" {
			name = lowerFirst(field.Name)
		}
		variadic := field.Type.Kind() == reflect.Slice && field.Tag.Get("variadic") == "true"

		p := newParam(name, field.Type, variadic)
		p.field = i

		tag, hasTag := field.Tag.Lookup("default")
		optional := field.Tag.Get("optional") == "true"
		if err := applyDefault(p, o, tag, hasTag); err != nil {
			return &ConstructorError{Constructor: structType.String(), Reason: fmt.Sprintf("field %s: %v", field.Name, err)}
		}
		if !p.hasDefault && optional {
			p.hasDefault = true
			p.def = reflect.Zero(field.Type)
		}
		info.params = append(info.params, p)
	}
	return nil
}

func newParam(name string, t reflect.Type, variadic bool) *paramInfo {
	p := &paramInfo{name: name, typ: t, variadic: variadic}
	target := t
	if variadic {
		target = t.Elem()
	}
	p.primitive = isPrimitive(target)
	if !p.primitive {
		p.service = typeName(target)
	}
	return p
}

// applyDefault resolves a Default option first, then a default tag.
func applyDefault(p *paramInfo, o typeOptions, tag string, hasTag bool) error {
	if v, ok := o.defaults[p.name]; ok {
		rv, ok := coerce(v, p.typ)
		if !ok {
			return fmt.Errorf("default for [%s] is %T, not assignable to %s", p.name, v, p.typ)
		}
		p.hasDefault, p.def = true, rv
		return nil
	}
	if !hasTag {
		return nil
	}
	rv, err := parseDefault(tag, p.typ)
	if err != nil {
		return err
	}
	p.hasDefault, p.def = true, rv
	return nil
}

// learnedType describes a type seen only as a dependency: interfaces are
// abstract, structs are built without a constructor.
func learnedType(t reflect.Type) *typeInfo {
	info := &typeInfo{name: typeName(t), typ: t}
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	info.abstract = base.Kind() != reflect.Struct
	return info
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

func embedsIn(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.Anonymous && f.Type == inType {
			return true
		}
	}
	return false
}

// typeName is the key of a reflected type: "pkgpath.Name", pointers stripped.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// isPrimitive reports whether t is a scalar, or a container of scalars, that
// cannot name a service.
func isPrimitive(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return isPrimitive(t.Elem())
	case reflect.Map:
		return isPrimitive(t.Key()) && isPrimitive(t.Elem())
	default:
		return isScalar(t.Kind())
	}
}

func isScalar(k reflect.Kind) bool {
	return k == reflect.Bool || k == reflect.String || isNumeric(k)
}

func isNumeric(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Complex128) && k != reflect.Uintptr
}

// coerce converts v for a parameter of type t: assignment, same-family scalar
// conversion, pointer/value adjustment, and element-wise slice conversion.
func coerce(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		return reflect.Zero(t), true
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()

	switch {
	case rt.AssignableTo(t):
		return rv, true
	case sameFamily(rt.Kind(), t.Kind()) && rt.ConvertibleTo(t):
		return rv.Convert(t), true
	case rt.Kind() == reflect.Pointer && !rv.IsNil() && rt.Elem().AssignableTo(t):
		return rv.Elem(), true
	case reflect.PointerTo(rt).AssignableTo(t):
		ptr := reflect.New(rt)
		ptr.Elem().Set(rv)
		return ptr, true
	case t.Kind() == reflect.Slice && (rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array):
		out := reflect.MakeSlice(t, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, ok := coerce(rv.Index(i).Interface(), t.Elem())
			if !ok {
				return reflect.Value{}, false
			}
			out = reflect.Append(out, ev)
		}
		return out, true
	}
	return reflect.Value{}, false
}

func sameFamily(a, b reflect.Kind) bool {
	switch {
	case isNumeric(a) && isNumeric(b):
		return true
	case a == reflect.String && b == reflect.String, a == reflect.Bool && b == reflect.Bool:
		return true
	}
	return false
}

// parseDefault parses a default tag into a value of type t.
func parseDefault(tag string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()

	if t == durationType {
		d, err := time.ParseDuration(tag)
		if err != nil {
			return v, err
		}
		v.SetInt(int64(d))
		return v, nil
	}

	switch t.Kind() {
	case reflect.String:
		v.SetString(tag)
	case reflect.Bool:
		b, err := strconv.ParseBool(tag)
		if err != nil {
			return v, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(tag, 10, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(tag, 10, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(tag, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetFloat(f)
	case reflect.Slice:
		if tag == "" {
			return reflect.MakeSlice(t, 0, 0), nil
		}
		parts := strings.Split(tag, ",")
		out := reflect.MakeSlice(t, 0, len(parts))
		for _, part := range parts {
			ev, err := parseDefault(strings.TrimSpace(part), t.Elem())
			if err != nil {
				return v, err
			}
			out = reflect.Append(out, ev)
		}
		return out, nil
	default:
		return v, fmt.Errorf("default tag not supported for %s", t)
	}
	return v, nil
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
