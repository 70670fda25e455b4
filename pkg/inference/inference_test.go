/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference_test.go
Description: Tests for type inference. Covers the last-write-wins policy
across heterogeneous calls, empty-log safety, absent return values, and
whole-log inference.
*/

package inference_test

import (
	"testing"

	"github.com/kleascm/akaylee-specminer/pkg/calllog"
	"github.com/kleascm/akaylee-specminer/pkg/inference"
	"github.com/kleascm/akaylee-specminer/pkg/interfaces"
	"github.com/kleascm/akaylee-specminer/pkg/typing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInferLastWriteWins pins the explicit policy: given an int observation
// followed by a float observation for the same slot, the mapping carries the
// later float, not a union.
func TestInferLastWriteWins(t *testing.T) {
	records := []interfaces.CallRecord{
		{
			Args:   []interfaces.Binding{{Name: "x", Value: 1}},
			Ret:    1.0,
			HasRet: true,
		},
		{
			Args:   []interfaces.Binding{{Name: "x", Value: 2.0}},
			Ret:    2.0,
			HasRet: true,
		},
	}

	mapping := inference.Infer(records)
	assert.Equal(t, typing.TagFloat, mapping.Parameters["x"])
	assert.Equal(t, typing.TagFloat, mapping.Return)
}

func TestInferEmptyRecords(t *testing.T) {
	mapping := inference.Infer(nil)
	assert.True(t, mapping.Empty())
	assert.Empty(t, mapping.Parameters)
	assert.Empty(t, mapping.Return)
}

func TestInferNoReturnValue(t *testing.T) {
	records := []interfaces.CallRecord{
		{Args: []interfaces.Binding{{Name: "label", Value: "hi"}}},
	}

	mapping := inference.Infer(records)
	assert.Equal(t, typing.TagString, mapping.Parameters["label"])
	assert.Empty(t, mapping.Return, "no observed return must leave the slot unset")
}

func TestInferZeroBindingRecords(t *testing.T) {
	// Records without extractable bindings still contribute their return.
	records := []interfaces.CallRecord{
		{Ret: "ok", HasRet: true},
	}

	mapping := inference.Infer(records)
	assert.Empty(t, mapping.Parameters)
	assert.Equal(t, typing.TagString, mapping.Return)
}

func TestInferMultipleParameters(t *testing.T) {
	records := []interfaces.CallRecord{
		{
			Args: []interfaces.Binding{
				{Name: "label", Value: "scores"},
				{Name: "values", Value: []int{1, 2}},
			},
		},
	}

	mapping := inference.Infer(records)
	assert.Equal(t, typing.TagString, mapping.Parameters["label"])
	assert.Equal(t, typing.TagList, mapping.Parameters["values"])
}

func TestInferAll(t *testing.T) {
	log := calllog.NewLog()
	log.Append("Square", interfaces.CallRecord{
		Args:   []interfaces.Binding{{Name: "x", Value: 3}},
		Ret:    9,
		HasRet: true,
	})
	log.Touch("Declared")

	mappings := inference.InferAll(log)
	require.Len(t, mappings, 2)
	assert.Equal(t, typing.TagInt, mappings["Square"].Parameters["x"])
	assert.True(t, mappings["Declared"].Empty(), "never-called functions infer an empty mapping")
}
