/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: targets.go
Description: Sample target functions for the SpecMiner demo. Registers a small
program written with any-typed signatures covering recursion, higher-order
calls, heterogeneous argument types, and a function with no return value.
*/

package demo

import (
	"fmt"

	"github.com/kleascm/akaylee-specminer/pkg/registry"
)

// Declaration sources for the demo targets. These are what the miner
// annotates; the callables below implement the same behavior.
const (
	NewtonSqrtSource = `func NewtonSqrt(x any) any {
	guess := toFloat(x)
	approx := guess / 2
	for i := 0; i < 32; i++ {
		approx = (approx + guess/approx) / 2
	}
	return approx
}`

	FactorialSource = `func Factorial(n any) any {
	v := n.(int)
	if v <= 1 {
		return 1
	}
	return v * Factorial(v-1).(int)
}`

	ApplyTwiceSource = `func ApplyTwice(f any, x any) any {
	g := f.(func(any) any)
	return g(g(x))
}`

	GreetSource = `func Greet(name any) any {
	return "hello, " + name.(string)
}`

	DescribeSource = `func Describe(label any, values any) {
	fmt.Printf("%v: %v\n", label, values)
}`
)

// Targets bundles the instrumented demo callables so workloads can call
// through the registry and keep nested calls observable.
type Targets struct {
	Registry   *registry.Registry
	NewtonSqrt func(interface{}) interface{}
	Factorial  func(interface{}) interface{}
	ApplyTwice func(interface{}, interface{}) interface{}
	Greet      func(interface{}) interface{}
	Describe   func(interface{}, interface{})
}

// Build registers every demo target and returns the instrumented handles.
func Build() (*Targets, error) {
	r := registry.New()
	t := &Targets{Registry: r}

	if err := r.Register("NewtonSqrt", NewtonSqrtSource, newtonSqrt); err != nil {
		return nil, err
	}

	// Recursion goes through the instrumented handle so every nested call
	// produces its own call/return pair.
	var factorial func(interface{}) interface{}
	if err := r.Register("Factorial", FactorialSource, func(n interface{}) interface{} {
		v := n.(int)
		if v <= 1 {
			return 1
		}
		return v * factorial(v-1).(int)
	}); err != nil {
		return nil, err
	}

	if err := r.Register("ApplyTwice", ApplyTwiceSource, func(f interface{}, x interface{}) interface{} {
		g := f.(func(interface{}) interface{})
		return g(g(x))
	}); err != nil {
		return nil, err
	}

	if err := r.Register("Greet", GreetSource, func(name interface{}) interface{} {
		return "hello, " + name.(string)
	}); err != nil {
		return nil, err
	}

	if err := r.Register("Describe", DescribeSource, func(label interface{}, values interface{}) {
		fmt.Printf("%v: %v\n", label, values)
	}); err != nil {
		return nil, err
	}

	for name, target := range map[string]interface{}{
		"NewtonSqrt": &t.NewtonSqrt,
		"Factorial":  &t.Factorial,
		"ApplyTwice": &t.ApplyTwice,
		"Greet":      &t.Greet,
		"Describe":   &t.Describe,
	} {
		fn, err := r.Func(name)
		if err != nil {
			return nil, err
		}
		switch ptr := target.(type) {
		case *func(interface{}) interface{}:
			*ptr = fn.(func(interface{}) interface{})
		case *func(interface{}, interface{}) interface{}:
			*ptr = fn.(func(interface{}, interface{}) interface{})
		case *func(interface{}, interface{}):
			*ptr = fn.(func(interface{}, interface{}))
		}
	}
	factorial = t.Factorial

	return t, nil
}

// Workload exercises the demo targets with representative calls. NewtonSqrt
// sees an int before a float, so last-write-wins inference lands on float64
// for both parameter and return.
func (t *Targets) Workload() {
	t.NewtonSqrt(25)
	t.NewtonSqrt(2.0)
	t.Factorial(5)
	t.ApplyTwice(t.NewtonSqrt, 16.0)
	t.Greet("akaylee")
	t.Describe("scores", []int{88, 92, 75})
}

func newtonSqrt(x interface{}) interface{} {
	guess := toFloat(x)
	approx := guess / 2
	for i := 0; i < 32; i++ {
		approx = (approx + guess/approx) / 2
	}
	return approx
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
