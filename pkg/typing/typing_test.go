/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: typing_test.go
Description: Tests for the value typer. Covers the closed category set,
determinism, and the fallback tag for values outside the set.
*/

package typing_test

import (
	"testing"

	"github.com/kleascm/akaylee-specminer/pkg/typing"
	"github.com/stretchr/testify/assert"
)

func TestTypeOfCategories(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		tag   string
	}{
		{"int", 25, typing.TagInt},
		{"uint8", uint8(255), typing.TagInt},
		{"int64", int64(-7), typing.TagInt},
		{"float64", 2.0, typing.TagFloat},
		{"float32", float32(1.5), typing.TagFloat},
		{"complex", complex(1, 2), typing.TagComplex},
		{"string", "akaylee", typing.TagString},
		{"bool", true, typing.TagBool},
		{"slice", []int{1, 2, 3}, typing.TagList},
		{"array", [2]string{"a", "b"}, typing.TagList},
		{"map", map[string]int{"a": 1}, typing.TagMap},
		{"nil", nil, typing.TagAny},
		{"pointer", &struct{}{}, typing.TagAny},
		{"func", func() {}, typing.TagAny},
		{"struct", struct{ X int }{1}, typing.TagAny},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.tag, typing.TypeOf(tc.value))
		})
	}
}

// TestTypeOfDeterministic verifies classification is pure: the same value
// always yields the same tag.
func TestTypeOfDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, typing.TagFloat, typing.TypeOf(3.14))
	}
}
