/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: tracer.go
Description: Execution tracer for the Akaylee SpecMiner. Occupies the process-wide
observer slot for the duration of one session, pairs call and return events
against a LIFO call stack, and populates the call log with completed records.
Start/Stop form a scoped acquisition: the previous observer is always restored,
on every exit path including panics from the monitored code.
*/

package tracer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-specminer/pkg/calllog"
	"github.com/kleascm/akaylee-specminer/pkg/interfaces"
	"github.com/kleascm/akaylee-specminer/pkg/logging"
)

// StackCorruptionError indicates that a return event did not match the
// function on top of the call stack. This is tracer misuse (nested sessions,
// hand-injected events) and is fatal: it aborts the session via panic and is
// never silently resumed.
type StackCorruptionError struct {
	Expected  string // function on top of the stack ("" when the stack was empty)
	Returning string // function named by the return event
}

func (e *StackCorruptionError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("tracer stack corruption: return from %q with empty call stack", e.Returning)
	}
	return fmt.Sprintf("tracer stack corruption: return from %q but %q is on top of the stack", e.Returning, e.Expected)
}

// frame is one pending call: pushed on entry, popped on the matching return.
type frame struct {
	name string
	args []interfaces.Binding
}

// Tracer observes every instrumented call reachable during a session and
// reconstructs per-call argument/return bindings despite arbitrary nesting
// and recursion. One session at a time; the log, stack, and session ID are
// exclusively owned by the session and reset on Start.
type Tracer struct {
	log       *calllog.Log
	stack     []frame
	prev      interfaces.Observer
	started   bool
	sessionID string

	logger     *logging.Logger
	traceCalls bool
}

// New creates a tracer with an empty call log
func New() *Tracer {
	return &Tracer{
		log: calllog.NewLog(),
	}
}

// SetLogger attaches the structured logger used for trace lines and
// session lifecycle events. Optional; a nil logger disables all output.
func (t *Tracer) SetLogger(logger *logging.Logger) {
	t.logger = logger
}

// EnableTraceLines toggles the one-line-per-event trace output.
func (t *Tracer) EnableTraceLines(enabled bool) {
	t.traceCalls = enabled
}

// SessionID returns the identifier of the current (or most recent) session.
func (t *Tracer) SessionID() string {
	return t.sessionID
}

// Log returns the call log owned by this tracer. Valid to read after the
// session has stopped; contents are replaced on the next Start.
func (t *Tracer) Log() *calllog.Log {
	return t.log
}

// Start installs the tracer in the process-wide observer slot, saving the
// previous occupant for restoration. The call log and stack are reset so no
// state leaks across sessions. Starting an already started tracer is an
// error: sessions do not nest.
func (t *Tracer) Start() error {
	if t.started {
		return fmt.Errorf("tracer session already active: sessions do not nest")
	}

	t.log.Reset()
	t.stack = t.stack[:0]
	t.sessionID = uuid.New().String()
	t.prev = Install(t)
	t.started = true

	if t.logger != nil {
		t.logger.LogSessionStart(t.sessionID)
	}
	return nil
}

// Stop restores the previously installed observer unconditionally. Safe to
// call on a tracer that never started. Callers pair it with Start via defer
// so restoration holds even when the monitored body panics.
func (t *Tracer) Stop() {
	if !t.started {
		return
	}
	Install(t.prev)
	t.prev = nil
	t.started = false

	if t.logger != nil {
		t.logger.LogSessionEnd(t.sessionID, t.log.Len())
	}
}

// OnCall handles a call event: the argument snapshot is pushed onto the
// stack and the function name is registered in first-call order. Helper and
// nested calls are recorded identically to top-level ones; the stack
// discipline is what keeps recursive and higher-order calls paired.
func (t *Tracer) OnCall(name string, args []interfaces.Binding) {
	t.log.Touch(name)
	t.stack = append(t.stack, frame{name: name, args: args})

	if t.traceCalls && t.logger != nil {
		t.logger.LogCall(name, FormatCall(name, args))
	}
}

// OnReturn handles a return event: the top frame is popped and combined with
// the return value into an immutable call record. A name mismatch means the
// stack no longer reflects reality and panics with *StackCorruptionError.
// Panic unwinds in monitored code still deliver a return event with a nil
// value; it is recorded as supplied, with no attempt to distinguish normal
// return from unwind.
func (t *Tracer) OnReturn(name string, value interface{}, present bool) {
	if len(t.stack) == 0 {
		if t.logger != nil {
			t.logger.LogStackCorruption("", name)
		}
		panic(&StackCorruptionError{Returning: name})
	}
	top := t.stack[len(t.stack)-1]
	if top.name != name {
		if t.logger != nil {
			t.logger.LogStackCorruption(top.name, name)
		}
		panic(&StackCorruptionError{Expected: top.name, Returning: name})
	}
	t.stack = t.stack[:len(t.stack)-1]

	t.log.Append(name, interfaces.CallRecord{
		Args:   top.args,
		Ret:    value,
		HasRet: present,
	})

	if t.traceCalls && t.logger != nil {
		t.logger.LogReturn(name, FormatReturn(name, top.args, value))
	}
}

// Depth returns the number of calls currently in flight.
func (t *Tracer) Depth() int {
	return len(t.stack)
}

// FormatCall renders the fixed human-readable call line:
// functionName(param=value, ...)
func FormatCall(name string, args []interfaces.Binding) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%#v", arg.Name, arg.Value)
	}
	b.WriteString(")")
	return b.String()
}

// FormatReturn renders the matching return line: the call line suffixed
// with the returned value.
func FormatReturn(name string, args []interfaces.Binding, value interface{}) string {
	return fmt.Sprintf("%s returns %#v", FormatCall(name, args), value)
}
