package vm

import (
	"fmt"
	"sort"
	"strings"
)

// Function is an external callable invoked by CALL. Call receives the
// arguments in source order and returns a single Value or an error
// describing why the arguments were rejected.
type Function interface {
	Name() string
	Call(args []Value) (Value, error)
}

// TypedFunction is implemented by functions that publish their signature.
// The interpreter never consults it.
type TypedFunction interface {
	Function
	ReturnKind() Kind
	// ArgKinds lists every accepted combination of argument kinds.
	ArgKinds() [][]Kind
}

// Builtin adapts a plain Go func into a TypedFunction.
type Builtin struct {
	FnName  string
	Returns Kind
	Args    [][]Kind
	Impl    func(args []Value) (Value, error)
}

func (b *Builtin) Name() string                     { return b.FnName }
func (b *Builtin) ReturnKind() Kind                 { return b.Returns }
func (b *Builtin) ArgKinds() [][]Kind               { return b.Args }
func (b *Builtin) Call(args []Value) (Value, error) { return b.Impl(args) }

// Signature renders a TypedFunction as NAME(KIND, ...) -> KIND, one line per
// accepted combination.
func Signature(fn TypedFunction) []string {
	var out []string
	for _, combo := range fn.ArgKinds() {
		parts := make([]string, len(combo))
		for i, k := range combo {
			parts[i] = k.String()
		}
		out = append(out, fmt.Sprintf("%s(%s) -> %s", fn.Name(), strings.Join(parts, ", "), fn.ReturnKind()))
	}
	if len(out) == 0 {
		out = append(out, fmt.Sprintf("%s(...) -> %s", fn.Name(), fn.ReturnKind()))
	}
	return out
}

// Registry maps function names to implementations. Names are matched
// case-insensitively. A Registry is filled before use and only read
// afterwards, so concurrent lookups are safe.
type Registry struct {
	fns map[string]Function
}

func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]Function)}
}

func (r *Registry) Register(fn Function) error {
	key := strings.ToUpper(fn.Name())
	if key == "" {
		return fmt.Errorf("function has no name")
	}
	if _, ok := r.fns[key]; ok {
		return fmt.Errorf("function %s is already registered", key)
	}
	r.fns[key] = fn
	return nil
}

func (r *Registry) Lookup(name string) (Function, bool) {
	fn, ok := r.fns[strings.ToUpper(name)]
	return fn, ok
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.fns))
	for k := range r.fns {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
