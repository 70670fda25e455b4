/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: registry.go
Description: Function registry for the Akaylee SpecMiner. Resolves function names
to their source text, parsed declarations, and live callables. Registered
callables are wrapped with reflect.MakeFunc so every invocation reports call and
return events to the process-wide observer slot, which is what makes nested,
recursive, and higher-order calls observable.
*/

package registry

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"

	"github.com/kleascm/akaylee-specminer/pkg/interfaces"
	"github.com/kleascm/akaylee-specminer/pkg/tracer"
)

// entry holds everything the miner knows about one registered function.
type entry struct {
	source     string
	paramNames []string // nil when names cannot be derived from the declaration
	wrapped    reflect.Value
}

// Registry maps function names to declarations and instrumented callables.
// Implements interfaces.Symbols for the session orchestrator.
type Registry struct {
	fset    *token.FileSet
	entries map[string]*entry
	order   []string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		fset:    token.NewFileSet(),
		entries: make(map[string]*entry),
	}
}

// FileSet returns the file set used for all declaration parses. Needed by
// the renderer so positions stay consistent.
func (r *Registry) FileSet() *token.FileSet {
	return r.fset
}

// Register parses the declaration source for a function and wraps its live
// callable with instrumentation. The source must contain exactly one function
// declaration whose name matches. Registering the same name twice is an error.
func (r *Registry) Register(name string, source string, fn interface{}) error {
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("function %q already registered", name)
	}

	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return fmt.Errorf("function %q: callable must be a func, got %T", name, fn)
	}

	decl, err := r.parseDecl(name, source)
	if err != nil {
		return err
	}

	// Parameter names come from the declaration. When the declared names do
	// not line up with the callable's arity (unnamed parameters, adapted
	// entry points), calls are still recorded, just with zero bindings.
	paramNames := declaredParamNames(decl)
	if len(paramNames) != fnVal.Type().NumIn() {
		paramNames = nil
	}

	e := &entry{
		source:     source,
		paramNames: paramNames,
	}
	e.wrapped = instrument(name, fnVal, paramNames)

	r.entries[name] = e
	r.order = append(r.order, name)
	return nil
}

// Func returns the instrumented callable for a registered function. Callers
// assert it back to the concrete func type.
func (r *Registry) Func(name string) (interface{}, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("function %q not registered", name)
	}
	return e.wrapped.Interface(), nil
}

// Decl returns a freshly parsed declaration for a registered function. Each
// call parses the stored source again so callers own the returned tree and
// can hand it to the signature transformer without aliasing concerns.
func (r *Registry) Decl(name string) (*ast.FuncDecl, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("function %q not registered", name)
	}
	return r.parseDecl(name, e.source)
}

// Source returns the registered declaration source text.
func (r *Registry) Source(name string) (string, error) {
	e, ok := r.entries[name]
	if !ok {
		return "", fmt.Errorf("function %q not registered", name)
	}
	return e.source, nil
}

// Names returns all registered function names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// parseDecl parses a single function declaration from source text.
func (r *Registry) parseDecl(name string, source string) (*ast.FuncDecl, error) {
	file, err := parser.ParseFile(r.fset, name+".go", "package target\n\n"+source, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("function %q: failed to parse declaration: %w", name, err)
	}

	var decl *ast.FuncDecl
	for _, d := range file.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			if decl != nil {
				return nil, fmt.Errorf("function %q: source must contain exactly one declaration", name)
			}
			decl = fd
		}
	}
	if decl == nil {
		return nil, fmt.Errorf("function %q: no function declaration in source", name)
	}
	if decl.Name.Name != name {
		return nil, fmt.Errorf("function %q: declaration is named %q", name, decl.Name.Name)
	}
	return decl, nil
}

// declaredParamNames flattens the declaration's parameter names in order.
// Returns nil when any parameter is unnamed.
func declaredParamNames(decl *ast.FuncDecl) []string {
	var names []string
	for _, field := range decl.Type.Params.List {
		if len(field.Names) == 0 {
			return nil
		}
		for _, ident := range field.Names {
			names = append(names, ident.Name)
		}
	}
	return names
}

// instrument wraps a callable so each invocation delivers a call event on
// entry and a return event on exit to the active observer. The return event
// fires during unwinding too, so a panic inside the function still pops its
// frame; the recorded value is then nil. For multi-result functions only the
// first result lands in the record, since a declaration carries exactly one
// return slot.
func instrument(name string, fnVal reflect.Value, paramNames []string) reflect.Value {
	fnType := fnVal.Type()
	hasResult := fnType.NumOut() > 0

	return reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
		if obs := tracer.Active(); obs != nil {
			obs.OnCall(name, bindArgs(paramNames, in))
		}

		var out []reflect.Value
		defer func() {
			if obs := tracer.Active(); obs != nil {
				var ret interface{}
				if hasResult && len(out) > 0 {
					ret = out[0].Interface()
				}
				obs.OnReturn(name, ret, hasResult)
			}
		}()

		if fnType.IsVariadic() {
			out = fnVal.CallSlice(in)
		} else {
			out = fnVal.Call(in)
		}
		return out
	})
}

// bindArgs pairs declared parameter names with argument values. A nil name
// list yields zero bindings rather than failing the trace.
func bindArgs(paramNames []string, in []reflect.Value) []interfaces.Binding {
	if paramNames == nil {
		return nil
	}
	bindings := make([]interfaces.Binding, len(in))
	for i, v := range in {
		bindings[i] = interfaces.Binding{Name: paramNames[i], Value: v.Interface()}
	}
	return bindings
}
