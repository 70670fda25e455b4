/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Type inference for the Akaylee SpecMiner. Reduces the ordered call
records of one function into a single proposed parameter/return type mapping
using a last-write-wins policy across heterogeneous observations.
*/

package inference

import (
	"github.com/kleascm/akaylee-specminer/pkg/calllog"
	"github.com/kleascm/akaylee-specminer/pkg/interfaces"
	"github.com/kleascm/akaylee-specminer/pkg/typing"
)

// TypeMapping holds the inferred type names for one function. Derived fresh
// each time inference runs; never persisted. An empty Return means no return
// value was observed.
type TypeMapping struct {
	Parameters map[string]string `json:"parameters"`
	Return     string            `json:"return,omitempty"`
}

// Empty reports whether nothing was inferred.
func (m TypeMapping) Empty() bool {
	return len(m.Parameters) == 0 && m.Return == ""
}

// Infer computes a type mapping from a function's ordered call records in a
// single linear pass. Each observation unconditionally overwrites the prior
// one, so the mapping reflects only the last observed type per slot. This is
// an explicit first-cut policy, not an oversight: calls with heterogeneous
// argument types lose all but the most recent observation. A stricter miner
// would collect the observed type set per slot and emit a union.
//
// Zero records yield an empty mapping; a declared but never-called function
// is a valid and common case, never an error.
func Infer(records []interfaces.CallRecord) TypeMapping {
	mapping := TypeMapping{
		Parameters: make(map[string]string),
	}

	for _, record := range records {
		for _, arg := range record.Args {
			mapping.Parameters[arg.Name] = typing.TypeOf(arg.Value)
		}
		if record.HasRet {
			mapping.Return = typing.TypeOf(record.Ret)
		}
	}

	return mapping
}

// InferAll runs inference for every function observed in a call log.
func InferAll(log *calllog.Log) map[string]TypeMapping {
	mappings := make(map[string]TypeMapping, len(log.Names()))
	for _, name := range log.Names() {
		mappings[name] = Infer(log.Records(name))
	}
	return mappings
}
