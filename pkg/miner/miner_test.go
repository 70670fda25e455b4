/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: miner_test.go
Description: Tests for the session orchestrator. Covers the end-to-end mining
pipeline, per-function error isolation in batch annotation, lookup failures,
scoped restoration around panicking workloads, and a golden rendering of the
demo workload.
*/

package miner_test

import (
	"errors"
	"math"
	"testing"

	"github.com/kleascm/akaylee-specminer/demo"
	"github.com/kleascm/akaylee-specminer/pkg/calllog"
	"github.com/kleascm/akaylee-specminer/pkg/interfaces"
	"github.com/kleascm/akaylee-specminer/pkg/miner"
	"github.com/kleascm/akaylee-specminer/pkg/registry"
	"github.com/kleascm/akaylee-specminer/pkg/tracer"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mySqrtSource = `func MySqrt(x any) any {
	return math.Sqrt(x.(float64))
}`

// buildMySqrt registers a single any-typed square root target.
func buildMySqrt(t *testing.T) (*registry.Registry, func(interface{}) interface{}) {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.Register("MySqrt", mySqrtSource, func(x interface{}) interface{} {
		switch v := x.(type) {
		case int:
			return math.Sqrt(float64(v))
		case float64:
			return math.Sqrt(v)
		default:
			return math.NaN()
		}
	}))
	fn, err := r.Func("MySqrt")
	require.NoError(t, err)
	return r, fn.(func(interface{}) interface{})
}

// TestMinerEndToEnd traces two heterogeneous calls and verifies the mined
// declaration carries the type of the later observation.
func TestMinerEndToEnd(t *testing.T) {
	r, mySqrt := buildMySqrt(t)
	m := miner.New(r, r.FileSet())

	log, err := m.WithSession(func() {
		assert.InDelta(t, 5.0, mySqrt(25).(float64), 1e-9)
		assert.InDelta(t, 1.414, mySqrt(2.0).(float64), 1e-3)
	})
	require.NoError(t, err)
	require.Equal(t, 2, log.Len())

	decls, err := m.Annotate(log)
	require.NoError(t, err)
	require.Contains(t, decls, "MySqrt")

	// Exact text: one inline parameter list, no stray commas or blank lines.
	text, err := m.Render(log, decls)
	require.NoError(t, err)
	assert.Equal(t, "func MySqrt(x float64) float64 {\n\treturn math.Sqrt(x.(float64))\n}\n", text)
}

func TestMinerSessionIDChangesPerSession(t *testing.T) {
	r, mySqrt := buildMySqrt(t)
	m := miner.New(r, r.FileSet())

	_, err := m.WithSession(func() { mySqrt(4.0) })
	require.NoError(t, err)
	first := m.SessionID()
	require.NotEmpty(t, first)

	_, err = m.WithSession(func() { mySqrt(9.0) })
	require.NoError(t, err)
	assert.NotEqual(t, first, m.SessionID())
}

// TestMinerScopedRestoration verifies the observer slot is clean after a
// session whose body panics.
func TestMinerScopedRestoration(t *testing.T) {
	tracer.Install(nil)
	t.Cleanup(func() { tracer.Install(nil) })

	r, _ := buildMySqrt(t)
	m := miner.New(r, r.FileSet())

	assert.Panics(t, func() {
		m.WithSession(func() {
			panic("workload exploded")
		})
	})
	assert.Nil(t, tracer.Active())
}

func TestAnnotateFunctionNotInLog(t *testing.T) {
	r, _ := buildMySqrt(t)
	m := miner.New(r, r.FileSet())

	_, err := m.AnnotateFunction(calllog.NewLog(), "MySqrt")
	require.Error(t, err)
	var lookup *miner.LookupError
	require.True(t, errors.As(err, &lookup))
	assert.Equal(t, "MySqrt", lookup.Function)
}

func TestAnnotateFunctionUnknownSymbol(t *testing.T) {
	r, _ := buildMySqrt(t)
	m := miner.New(r, r.FileSet())

	// In the log, but the symbol collaborator has never heard of it.
	log := calllog.NewLog()
	log.Append("Phantom", interfaces.CallRecord{Ret: 1, HasRet: true})

	_, err := m.AnnotateFunction(log, "Phantom")
	require.Error(t, err)
	var lookup *miner.LookupError
	assert.True(t, errors.As(err, &lookup))
}

// TestAnnotateBatchIsolation verifies one failing function never blocks the
// others in the same batch.
func TestAnnotateBatchIsolation(t *testing.T) {
	r, mySqrt := buildMySqrt(t)
	m := miner.New(r, r.FileSet())

	log, err := m.WithSession(func() { mySqrt(16.0) })
	require.NoError(t, err)

	decls, err := m.AnnotateNames(log, []string{"MySqrt", "Missing"})
	require.Error(t, err)
	var lookup *miner.LookupError
	assert.True(t, errors.As(err, &lookup))

	// The good function is still annotated and renderable.
	require.Contains(t, decls, "MySqrt")
	text, renderErr := m.Render(log, decls)
	require.NoError(t, renderErr)
	assert.Contains(t, text, "func MySqrt(x float64) float64 {")
}

func TestRenderEmptyLog(t *testing.T) {
	r, _ := buildMySqrt(t)
	m := miner.New(r, r.FileSet())

	log := calllog.NewLog()
	decls, err := m.Annotate(log)
	require.NoError(t, err)
	assert.Empty(t, decls)

	text, err := m.Render(log, decls)
	require.NoError(t, err)
	assert.Empty(t, text)
}

// TestMineDemoWorkloadGolden runs the full pipeline over the bundled demo
// workload and compares the rendered annotations against a golden file.
func TestMineDemoWorkloadGolden(t *testing.T) {
	targets, err := demo.Build()
	require.NoError(t, err)

	m := miner.New(targets.Registry, targets.Registry.FileSet())
	text, err := m.Mine(targets.Workload)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "demo_workload", []byte(text))
}
