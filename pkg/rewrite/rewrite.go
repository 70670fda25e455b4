/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: rewrite.go
Description: Signature transformer for the Akaylee SpecMiner. Injects inferred
type annotations into a parsed function declaration, producing a new declaration
node. Pure tree construction: the input declaration is never mutated, body and
parameter order are preserved verbatim, and malformed type names fail the
construction instead of producing a half-built node.
*/

package rewrite

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/kleascm/akaylee-specminer/pkg/inference"
)

// MalformedTypeError indicates a type name that does not parse into a valid
// type expression. Recoverable at the caller: one bad mapping never corrupts
// annotation of other functions in the same batch.
type MalformedTypeError struct {
	Name string
	Err  error
}

func (e *MalformedTypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed type name %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("malformed type name %q", e.Name)
}

func (e *MalformedTypeError) Unwrap() error {
	return e.Err
}

// ParseTypeExpr parses a type name into an annotation expression. Accepts
// simple names (int), bracketed collection forms ([]any, map[any]any),
// pointers, qualified names, and func/chan/interface types. Empty input or
// an expression that is not type syntax is a contract violation.
func ParseTypeExpr(name string) (ast.Expr, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, &MalformedTypeError{Name: name}
	}

	expr, err := parser.ParseExpr(trimmed)
	if err != nil {
		return nil, &MalformedTypeError{Name: name, Err: err}
	}
	if !isTypeExpr(expr) {
		return nil, &MalformedTypeError{Name: name}
	}
	stripPositions(expr)
	return expr, nil
}

// stripPositions clears every position in a freshly parsed annotation.
// ParseExpr records positions against its own internal file set; printing
// them through the declaration's file set maps them to arbitrary lines and
// tears the parameter list apart. Position-free nodes print inline.
func stripPositions(node ast.Node) {
	ast.Inspect(node, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Ident:
			n.NamePos = token.NoPos
		case *ast.BasicLit:
			n.ValuePos = token.NoPos
		case *ast.ArrayType:
			n.Lbrack = token.NoPos
		case *ast.MapType:
			n.Map = token.NoPos
		case *ast.StructType:
			n.Struct = token.NoPos
		case *ast.InterfaceType:
			n.Interface = token.NoPos
		case *ast.FuncType:
			n.Func = token.NoPos
		case *ast.ChanType:
			n.Begin = token.NoPos
			n.Arrow = token.NoPos
		case *ast.StarExpr:
			n.Star = token.NoPos
		case *ast.Ellipsis:
			n.Ellipsis = token.NoPos
		case *ast.IndexExpr:
			n.Lbrack = token.NoPos
			n.Rbrack = token.NoPos
		case *ast.IndexListExpr:
			n.Lbrack = token.NoPos
			n.Rbrack = token.NoPos
		case *ast.ParenExpr:
			n.Lparen = token.NoPos
			n.Rparen = token.NoPos
		case *ast.FieldList:
			n.Opening = token.NoPos
			n.Closing = token.NoPos
		}
		return true
	})
}

// isTypeExpr reports whether a parsed expression is syntactically usable as
// a type annotation.
func isTypeExpr(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.ArrayType, *ast.MapType, *ast.StructType, *ast.InterfaceType,
		*ast.FuncType, *ast.ChanType:
		return true
	case *ast.StarExpr:
		return isTypeExpr(e.X)
	case *ast.SelectorExpr:
		_, ok := e.X.(*ast.Ident)
		return ok
	case *ast.IndexExpr:
		// Instantiated generic, e.g. List[int]
		return isTypeExpr(e.X)
	default:
		return false
	}
}

// Apply returns a new declaration with the mapping's annotations injected.
// Parameters named in the mapping get a freshly parsed type; parameters
// absent from the mapping keep their original type. Order and variadic
// markers are preserved exactly, the body is shared untouched, and a mapped
// return type installs a single unnamed result. An empty mapping returns a
// declaration equivalent to the input.
//
// Grouped parameter fields (a, b any) are split one name per field when a
// member of the group is annotated, so each parameter can carry its own
// type; groups the mapping never touches stay grouped.
func Apply(decl *ast.FuncDecl, mapping inference.TypeMapping) (*ast.FuncDecl, error) {
	params, err := rewriteParams(decl.Type.Params, mapping.Parameters)
	if err != nil {
		return nil, err
	}

	results := decl.Type.Results
	if mapping.Return != "" {
		retExpr, err := ParseTypeExpr(mapping.Return)
		if err != nil {
			return nil, err
		}
		results = &ast.FieldList{
			List: []*ast.Field{{Type: retExpr}},
		}
	}

	return &ast.FuncDecl{
		Doc:  decl.Doc,
		Recv: decl.Recv,
		Name: decl.Name,
		Type: &ast.FuncType{
			Func:       decl.Type.Func,
			TypeParams: decl.Type.TypeParams,
			Params:     params,
			Results:    results,
		},
		Body: decl.Body,
	}, nil
}

// rewriteParams builds a new parameter list with annotations applied. Fields
// untouched by the mapping are kept as supplied, grouped or not, so an empty
// mapping reproduces the input exactly.
func rewriteParams(params *ast.FieldList, types map[string]string) (*ast.FieldList, error) {
	if params == nil {
		return nil, nil
	}

	out := &ast.FieldList{}

	for _, field := range params.List {
		if len(field.Names) == 0 || !groupAnnotated(field, types) {
			out.List = append(out.List, field)
			continue
		}

		// Split the group one name per field so each parameter carries its
		// own annotation.
		for _, ident := range field.Names {
			typeExpr := field.Type
			if typeName, ok := types[ident.Name]; ok {
				parsed, err := ParseTypeExpr(typeName)
				if err != nil {
					return nil, err
				}
				// A variadic marker belongs to the parameter, not to the
				// mined element type; it survives the rewrite.
				if _, isVariadic := field.Type.(*ast.Ellipsis); isVariadic {
					parsed = &ast.Ellipsis{Elt: elemType(parsed)}
				}
				typeExpr = parsed
			}
			out.List = append(out.List, &ast.Field{
				Names: []*ast.Ident{ident},
				Type:  typeExpr,
			})
		}
	}

	return out, nil
}

// groupAnnotated reports whether any name in the field appears in the mapping.
func groupAnnotated(field *ast.Field, types map[string]string) bool {
	for _, ident := range field.Names {
		if _, ok := types[ident.Name]; ok {
			return true
		}
	}
	return false
}

// elemType strips the slice wrapper a variadic observation produces, since
// the binding for a variadic parameter is the collected argument slice.
func elemType(expr ast.Expr) ast.Expr {
	if arr, ok := expr.(*ast.ArrayType); ok && arr.Len == nil {
		return arr.Elt
	}
	return expr
}
