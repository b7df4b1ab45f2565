package container

import (
	"slices"

	"github.com/google/uuid"
)

// Params are named constructor-parameter overrides for one MakeWith call.
type Params map[string]any

// resolution is the state of one Make call tree. Every nested make, build,
// factory and extender of that tree shares it; nothing outside the tree
// ever sees it.
type resolution struct {
	// concrete types currently being instantiated, outermost first
	buildStack []string

	// parameter override frames, one per in-flight make
	with []Params

	// (innermost concrete, abstract) pairs currently being resolved
	resolving []string

	trace string
}

func newResolution() *resolution {
	return &resolution{}
}

// top returns the innermost concrete under construction.
func (r *resolution) top() (string, bool) {
	if len(r.buildStack) == 0 {
		return "", false
	}
	return r.buildStack[len(r.buildStack)-1], true
}

// lastFrame returns the parameter overrides of the innermost make.
func (r *resolution) lastFrame() Params {
	if len(r.with) == 0 {
		return nil
	}
	return r.with[len(r.with)-1]
}

func (r *resolution) stack() []string {
	return slices.Clone(r.buildStack)
}

// traceID is generated on first use so trees that never log pay nothing.
func (r *resolution) traceID() string {
	if r.trace == "" {
		r.trace = uuid.NewString()
	}
	return r.trace
}

func resolvingKey(abstract string, r *resolution) string {
	top, _ := r.top()
	return top + "\x00" + abstract
}
