/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: typing.go
Description: Value typer for the Akaylee SpecMiner. Maps an observed runtime
value to a type-name tag from a closed set. Pure classification only, never
coercion, so inferred annotations stay valid Go type expressions.
*/

package typing

import (
	"reflect"
)

// Type-name tags produced by TypeOf. Every tag parses as a Go type
// expression, which is what lets the signature transformer inject them
// directly into a declaration.
const (
	TagInt     = "int"
	TagFloat   = "float64"
	TagComplex = "complex128"
	TagString  = "string"
	TagBool    = "bool"
	TagList    = "[]any"
	TagMap     = "map[any]any"
	TagAny     = "any"
)

// TypeOf returns the type-name tag for an observed value. Deterministic
// and side-effect-free. Values outside the closed category set (structs,
// pointers, channels, functions, nil) fall back to TagAny rather than
// leaking concrete types into the mined annotations.
func TypeOf(value interface{}) string {
	if value == nil {
		return TagAny
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return TagInt
	case reflect.Float32, reflect.Float64:
		return TagFloat
	case reflect.Complex64, reflect.Complex128:
		return TagComplex
	case reflect.String:
		return TagString
	case reflect.Bool:
		return TagBool
	case reflect.Slice, reflect.Array:
		return TagList
	case reflect.Map:
		return TagMap
	default:
		return TagAny
	}
}
