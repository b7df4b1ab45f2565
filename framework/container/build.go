package container

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// ── Type table ────────────────────────────────────────────────────────────────

// Provide registers ctor as the constructor of the type it returns and
// returns the name it was registered under. Make of that name, or of any
// abstract bound to it, calls ctor with its parameters resolved from the
// container.
//
//	name, err := c.Provide(NewUserService)   // "myapp/users.UserService"
//	svc, err := c.Make(name)
func (c *Container) Provide(ctor any, opts ...TypeOption) (string, error) {
	var o typeOptions
	for _, opt := range opts {
		opt(&o)
	}

	info, err := analyzeConstructor(ctor, o)
	if err != nil {
		return "", err
	}

	r := c.reg
	r.mu.Lock()
	r.types[info.name] = info
	for _, p := range info.params {
		if p.primitive {
			continue
		}
		t := p.typ
		if p.variadic {
			t = t.Elem()
		}
		r.learnLocked(t)
	}
	r.mu.Unlock()
	return info.name, nil
}

// MustProvide is like Provide but panics on error.
func (c *Container) MustProvide(ctor any, opts ...TypeOption) string {
	name, err := c.Provide(ctor, opts...)
	if err != nil {
		panic(err)
	}
	return name
}

// Define registers T as a type built without a constructor (its zero value,
// allocated when T is a pointer) and returns its key. Interfaces are
// registered as abstract.
func Define[T any](c *Container) string {
	t := reflect.TypeFor[T]()
	info := learnedType(t)
	r := c.reg
	r.mu.Lock()
	r.types[info.name] = info
	r.mu.Unlock()
	return info.name
}

// learn records t unless a type of that name is already known.
func (c *Container) learn(t reflect.Type) {
	r := c.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	r.learnLocked(t)
}

func (r *registry) learnLocked(t reflect.Type) {
	name := typeName(t)
	if _, ok := r.types[name]; !ok {
		r.types[name] = learnedType(t)
	}
}

func (c *Container) typeFor(name string) (*typeInfo, bool) {
	r := c.reg
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.types[name]
	return info, ok
}

// ── Builder ───────────────────────────────────────────────────────────────────

// Build instantiates a concrete type name, or runs a factory, without
// consulting bindings or the instance cache.
func (c *Container) Build(concrete any) (any, error) {
	normalized, ok := normalizeConcrete(concrete)
	if !ok {
		return nil, &TypeMismatchError{Abstract: fmt.Sprintf("%v", concrete), Concrete: concrete}
	}
	return c.tree().build(normalized)
}

func (c *Container) build(concrete any) (any, error) {
	if f, ok := concrete.(Factory); ok {
		return f(c, c.res.lastFrame())
	}

	name, _ := concrete.(string)
	res := c.res

	info, ok := c.typeFor(name)
	if !ok {
		return nil, &ResolutionError{
			Abstract: name,
			Stack:    res.stack(),
			Message:  fmt.Sprintf("target class [%s] does not exist", name),
		}
	}
	if info.abstract {
		return nil, c.notInstantiable(name)
	}
	if slices.Contains(res.buildStack, name) {
		return nil, &CircularDependencyError{Concrete: name, Chain: append(res.stack(), name)}
	}

	res.buildStack = append(res.buildStack, name)
	defer func() { res.buildStack = res.buildStack[:len(res.buildStack)-1] }()

	if !info.hasConstructor() {
		return info.zero(), nil
	}

	args, err := c.resolveDependencies(info)
	if err != nil {
		return nil, err
	}
	return info.call(args)
}

// resolveDependencies resolves each parameter in declaration order.
func (c *Container) resolveDependencies(info *typeInfo) ([]reflect.Value, error) {
	args := make([]reflect.Value, 0, len(info.params))
	for _, p := range info.params {
		v, err := c.resolveParameter(info, p)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (c *Container) resolveParameter(info *typeInfo, p *paramInfo) (reflect.Value, error) {
	if v, ok := c.res.lastFrame()[p.name]; ok {
		return c.assign(info, p, v)
	}
	if p.primitive {
		return c.resolvePrimitive(info, p)
	}
	return c.resolveClass(info, p)
}

// resolvePrimitive uses a "$name" contextual binding, then the declared
// default, then an empty slice for variadics.
func (c *Container) resolvePrimitive(info *typeInfo, p *paramInfo) (reflect.Value, error) {
	if impl, ok := c.contextualConcrete("$" + p.name); ok {
		if f, isFactory := impl.(Factory); isFactory {
			v, err := f(c, nil)
			if err != nil {
				return reflect.Value{}, err
			}
			impl = v
		}
		return c.assign(info, p, impl)
	}

	if p.hasDefault {
		return p.def, nil
	}
	if p.variadic {
		return reflect.MakeSlice(p.typ, 0, 0), nil
	}
	return reflect.Value{}, c.unresolvablePrimitive(info, p)
}

// resolveClass makes the parameter's service, falling back to its default
// when that fails with a binding resolution error.
func (c *Container) resolveClass(info *typeInfo, p *paramInfo) (reflect.Value, error) {
	var (
		v   reflect.Value
		err error
	)
	if p.variadic {
		v, err = c.resolveVariadicClass(info, p)
	} else {
		var inst any
		if inst, err = c.resolve(p.service, nil); err == nil {
			if c.sharedValueForPointer(p, inst) {
				return reflect.Value{}, c.sharedValueCopied(info, p, inst)
			}
			v, err = c.assign(info, p, inst)
		}
	}

	if err != nil {
		if !errors.Is(err, ErrBindingResolution) {
			return reflect.Value{}, err
		}
		switch {
		case p.hasDefault:
			return p.def, nil
		case p.variadic:
			return reflect.MakeSlice(p.typ, 0, 0), nil
		}
		return reflect.Value{}, err
	}
	return v, nil
}

// resolveVariadicClass expands a contextual list of abstracts in order, or
// resolves the element type once.
func (c *Container) resolveVariadicClass(info *typeInfo, p *paramInfo) (reflect.Value, error) {
	service := c.reg.aliases.Canonical(p.service)

	if impl, ok := c.contextualConcrete(service); ok {
		if list, isList := impl.([]string); isList {
			out := reflect.MakeSlice(p.typ, 0, len(list))
			for _, abstract := range list {
				inst, err := c.resolve(abstract, nil)
				if err != nil {
					return reflect.Value{}, err
				}
				ev, err := c.assignElem(info, p, inst)
				if err != nil {
					return reflect.Value{}, err
				}
				out = reflect.Append(out, ev)
			}
			return out, nil
		}
	}

	inst, err := c.resolve(service, nil)
	if err != nil {
		return reflect.Value{}, err
	}
	return c.assign(info, p, inst)
}

// assign converts a resolved value for p. Variadic parameters accept a slice
// or a single element.
func (c *Container) assign(info *typeInfo, p *paramInfo, v any) (reflect.Value, error) {
	if p.variadic {
		if items, ok := v.([]any); ok {
			out := reflect.MakeSlice(p.typ, 0, len(items))
			for _, item := range items {
				ev, err := c.assignElem(info, p, item)
				if err != nil {
					return reflect.Value{}, err
				}
				out = reflect.Append(out, ev)
			}
			return out, nil
		}
		if rv, ok := coerce(v, p.typ); ok && v != nil {
			return rv, nil
		}
		ev, err := c.assignElem(info, p, v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.Append(reflect.MakeSlice(p.typ, 0, 1), ev), nil
	}

	rv, ok := coerce(v, p.typ)
	if !ok {
		return reflect.Value{}, c.notAssignable(info, p, v, p.typ)
	}
	return rv, nil
}

// sharedValueForPointer reports whether a pointer parameter would receive a
// fresh copy of a shared instance that is stored as a value.
func (c *Container) sharedValueForPointer(p *paramInfo, inst any) bool {
	if p.typ.Kind() != reflect.Pointer || inst == nil {
		return false
	}
	rt := reflect.TypeOf(inst)
	if rt.Kind() == reflect.Pointer || rt.AssignableTo(p.typ) {
		return false
	}
	return c.IsShared(c.reg.aliases.Canonical(p.service))
}

func (c *Container) assignElem(info *typeInfo, p *paramInfo, v any) (reflect.Value, error) {
	rv, ok := coerce(v, p.typ.Elem())
	if !ok {
		return reflect.Value{}, c.notAssignable(info, p, v, p.typ.Elem())
	}
	return rv, nil
}

// ── Failures ──────────────────────────────────────────────────────────────────

func (c *Container) notInstantiable(name string) error {
	return &ResolutionError{
		Abstract: name,
		Stack:    c.res.stack(),
		Message:  fmt.Sprintf("target [%s] is not instantiable", name),
	}
}

func (c *Container) unresolvablePrimitive(info *typeInfo, p *paramInfo) error {
	return &ResolutionError{
		Abstract:  info.name,
		Parameter: "$" + p.name,
		Stack:     c.res.stack(),
		Message:   fmt.Sprintf("unresolvable dependency resolving [$%s] (%s) in class %s", p.name, p.typ, info.name),
	}
}

func (c *Container) sharedValueCopied(info *typeInfo, p *paramInfo, v any) error {
	msg := fmt.Sprintf("shared [%s] is stored as %T but parameter [$%s] of %s takes %s; bind a pointer or take the value",
		p.service, v, p.name, info.name, p.typ)
	return &ResolutionError{
		Abstract:  p.service,
		Parameter: "$" + p.name,
		Stack:     c.res.stack(),
		Message:   msg,
		Cause:     ErrTypeMismatch,
	}
}

func (c *Container) notAssignable(info *typeInfo, p *paramInfo, v any, want reflect.Type) error {
	return &ResolutionError{
		Abstract:  info.name,
		Parameter: "$" + p.name,
		Stack:     c.res.stack(),
		Message:   fmt.Sprintf("value %T is not assignable to parameter [$%s] (%s) of %s", v, p.name, want, info.name),
	}
}
