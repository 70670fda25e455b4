/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: rewrite_test.go
Description: Tests for the signature transformer. Covers annotation fidelity,
parameter order preservation, empty-mapping no-ops, purity of the input
declaration, variadic markers, malformed type names, and parse/render/parse
round-trip stability.
*/

package rewrite_test

import (
	"bytes"
	"errors"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"testing"

	"github.com/kleascm/akaylee-specminer/pkg/inference"
	"github.com/kleascm/akaylee-specminer/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseDecl parses a single declaration for test input.
func parseDecl(t *testing.T, source string) (*token.FileSet, *ast.FuncDecl) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "decl.go", "package target\n\n"+source, parser.SkipObjectResolution)
	require.NoError(t, err)
	for _, d := range file.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			return fset, fd
		}
	}
	t.Fatalf("no function declaration in %q", source)
	return nil, nil
}

// render prints a declaration back to source text.
func render(t *testing.T, fset *token.FileSet, decl *ast.FuncDecl) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, printer.Fprint(&buf, fset, decl))
	return buf.String()
}

func TestParseTypeExpr(t *testing.T) {
	valid := []string{"int", "float64", "any", "[]any", "map[any]any", "*bytes.Buffer", "func()", "chan int", "interface{}"}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			expr, err := rewrite.ParseTypeExpr(name)
			require.NoError(t, err)
			assert.NotNil(t, expr)
		})
	}

	invalid := []string{"", "   ", "][", "1 + 2", `"int"`, "f(x)"}
	for _, name := range invalid {
		t.Run("invalid_"+name, func(t *testing.T) {
			_, err := rewrite.ParseTypeExpr(name)
			require.Error(t, err)
			var malformed *rewrite.MalformedTypeError
			assert.True(t, errors.As(err, &malformed))
		})
	}
}

// TestApplyAnnotationFidelity pins the partial-mapping contract: parameter a
// gets its annotation, parameter b keeps its supplied type and position.
func TestApplyAnnotationFidelity(t *testing.T) {
	fset, decl := parseDecl(t, `func Join(a any, b any) any {
	return a
}`)

	annotated, err := rewrite.Apply(decl, inference.TypeMapping{
		Parameters: map[string]string{"a": "int"},
	})
	require.NoError(t, err)

	assert.Equal(t, `func Join(a int, b any) any {
	return a
}`, render(t, fset, annotated))
}

func TestApplyReturnAnnotation(t *testing.T) {
	fset, decl := parseDecl(t, `func Square(x any) any {
	return x
}`)

	annotated, err := rewrite.Apply(decl, inference.TypeMapping{
		Parameters: map[string]string{"x": "float64"},
		Return:     "float64",
	})
	require.NoError(t, err)

	assert.Equal(t, `func Square(x float64) float64 {
	return x
}`, render(t, fset, annotated))
}

func TestApplyEmptyMappingIsEquivalent(t *testing.T) {
	fset, decl := parseDecl(t, `func Greet(name any) any {
	return name
}`)
	original := render(t, fset, decl)

	annotated, err := rewrite.Apply(decl, inference.TypeMapping{Parameters: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, original, render(t, fset, annotated))
}

// TestApplyDoesNotMutateInput verifies the transformer is pure: the input
// declaration renders identically before and after Apply.
func TestApplyDoesNotMutateInput(t *testing.T) {
	fset, decl := parseDecl(t, `func Square(x any) any {
	return x
}`)
	before := render(t, fset, decl)

	_, err := rewrite.Apply(decl, inference.TypeMapping{
		Parameters: map[string]string{"x": "int"},
		Return:     "int",
	})
	require.NoError(t, err)
	assert.Equal(t, before, render(t, fset, decl))
}

func TestApplyGroupedParameters(t *testing.T) {
	fset, decl := parseDecl(t, `func Pair(a, b any) any {
	return a
}`)

	annotated, err := rewrite.Apply(decl, inference.TypeMapping{
		Parameters: map[string]string{"a": "int", "b": "string"},
	})
	require.NoError(t, err)

	assert.Equal(t, `func Pair(a int, b string) any {
	return a
}`, render(t, fset, annotated))
}

// TestApplyKeepsParameterListInline pins the rendering of annotations parsed
// from type names: ParseExpr records positions against its own file set, and
// printing them through the declaration's file set used to tear the
// parameter list across lines with a trailing comma.
func TestApplyKeepsParameterListInline(t *testing.T) {
	fset, decl := parseDecl(t, `func Fold(acc any, xs any) any {
	for range xs.([]any) {
	}
	return acc
}`)

	annotated, err := rewrite.Apply(decl, inference.TypeMapping{
		Parameters: map[string]string{"acc": "map[any]any", "xs": "[]any"},
		Return:     "map[any]any",
	})
	require.NoError(t, err)

	text := render(t, fset, annotated)
	assert.Equal(t, `func Fold(acc map[any]any, xs []any) map[any]any {
	for range xs.([]any) {
	}
	return acc
}`, text)
	assert.NotContains(t, text, ",\n")
}

// TestApplyEmptyMappingKeepsGroupedParameters verifies a no-op transform
// leaves a grouped field grouped instead of splitting it.
func TestApplyEmptyMappingKeepsGroupedParameters(t *testing.T) {
	fset, decl := parseDecl(t, `func Pair(a, b any) any {
	return a
}`)
	original := render(t, fset, decl)

	annotated, err := rewrite.Apply(decl, inference.TypeMapping{})
	require.NoError(t, err)
	assert.Equal(t, original, render(t, fset, annotated))
}

func TestApplyPartiallyAnnotatedGroup(t *testing.T) {
	fset, decl := parseDecl(t, `func Pair(a, b any) any {
	return a
}`)

	annotated, err := rewrite.Apply(decl, inference.TypeMapping{
		Parameters: map[string]string{"a": "int"},
	})
	require.NoError(t, err)

	assert.Equal(t, `func Pair(a int, b any) any {
	return a
}`, render(t, fset, annotated))
}

func TestApplyPreservesVariadicMarker(t *testing.T) {
	fset, decl := parseDecl(t, `func Sum(xs ...any) any {
	return nil
}`)

	// A variadic binding is observed as the collected slice; the annotation
	// must stay a variadic of the element type.
	annotated, err := rewrite.Apply(decl, inference.TypeMapping{
		Parameters: map[string]string{"xs": "[]any"},
		Return:     "int",
	})
	require.NoError(t, err)

	assert.Equal(t, `func Sum(xs ...any) int {
	return nil
}`, render(t, fset, annotated))
}

func TestApplyMalformedTypeFailsConstruction(t *testing.T) {
	_, decl := parseDecl(t, `func Square(x any) any {
	return x
}`)

	_, err := rewrite.Apply(decl, inference.TypeMapping{
		Parameters: map[string]string{"x": "]["},
	})
	require.Error(t, err)
	var malformed *rewrite.MalformedTypeError
	assert.True(t, errors.As(err, &malformed))

	_, err = rewrite.Apply(decl, inference.TypeMapping{Return: ""})
	assert.NoError(t, err, "empty return slot means no annotation, not a malformed one")
}

// TestRoundTrip verifies render -> parse -> render stability for an
// annotated declaration.
func TestRoundTrip(t *testing.T) {
	fset, decl := parseDecl(t, `func Blend(a any, b any, rest ...any) any {
	return a
}`)

	annotated, err := rewrite.Apply(decl, inference.TypeMapping{
		Parameters: map[string]string{"a": "float64", "rest": "[]any"},
		Return:     "map[any]any",
	})
	require.NoError(t, err)

	first := render(t, fset, annotated)
	fset2, reparsed := parseDecl(t, first)
	second := render(t, fset2, reparsed)
	assert.Equal(t, first, second)

	// Structure survives: names, order, annotations.
	require.Len(t, reparsed.Type.Params.List, 3)
	assert.Equal(t, "a", reparsed.Type.Params.List[0].Names[0].Name)
	assert.Equal(t, "b", reparsed.Type.Params.List[1].Names[0].Name)
	assert.Equal(t, "rest", reparsed.Type.Params.List[2].Names[0].Name)
}
