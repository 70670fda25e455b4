/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: calllog.go
Description: Call log for the Akaylee SpecMiner. Passive per-function store of
observed call records for one tracer session. Tracks first-call ordering of
function names so downstream rendering stays deterministic.
*/

package calllog

import (
	"github.com/kleascm/akaylee-specminer/pkg/interfaces"
)

// Log aggregates call records per function for one tracer session.
// Records are appended in return order (nested and recursive calls return
// out of call order), while Names preserves the order in which functions
// were first called. Mutated only by the tracer that owns the session;
// read-only to all downstream components.
type Log struct {
	records map[string][]interfaces.CallRecord
	order   []string
}

// NewLog creates an empty call log
func NewLog() *Log {
	return &Log{
		records: make(map[string][]interfaces.CallRecord),
	}
}

// Touch registers a function name in first-call order without appending a
// record. Called by the tracer on every call event.
func (l *Log) Touch(name string) {
	if _, seen := l.records[name]; !seen {
		l.records[name] = nil
		l.order = append(l.order, name)
	}
}

// Append adds a completed call record for the named function, creating the
// entry if the function was never touched (e.g. events injected directly).
func (l *Log) Append(name string, record interfaces.CallRecord) {
	l.Touch(name)
	l.records[name] = append(l.records[name], record)
}

// Records returns the ordered call records for a function. A function with
// no observations yields nil, which is a valid empty history.
func (l *Log) Records(name string) []interfaces.CallRecord {
	return l.records[name]
}

// Has reports whether the function was observed during the session.
func (l *Log) Has(name string) bool {
	_, ok := l.records[name]
	return ok
}

// Names returns all observed function names in first-call order.
func (l *Log) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Len returns the total number of call records across all functions.
func (l *Log) Len() int {
	total := 0
	for _, recs := range l.records {
		total += len(recs)
	}
	return total
}

// Reset clears all records and ordering. Called by the tracer on session
// start so a log is never shared across sessions.
func (l *Log) Reset() {
	l.records = make(map[string][]interfaces.CallRecord)
	l.order = nil
}
