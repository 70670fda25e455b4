/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: miner.go
Description: Session orchestrator for the Akaylee SpecMiner. Composes the tracer
lifecycle, call log retrieval, type inference, and signature transformation into
the end-to-end mining pipeline that turns observed executions into annotated
source text.
*/

package miner

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"

	"github.com/kleascm/akaylee-specminer/pkg/calllog"
	"github.com/kleascm/akaylee-specminer/pkg/inference"
	"github.com/kleascm/akaylee-specminer/pkg/interfaces"
	"github.com/kleascm/akaylee-specminer/pkg/logging"
	"github.com/kleascm/akaylee-specminer/pkg/rewrite"
	"github.com/kleascm/akaylee-specminer/pkg/tracer"
)

// LookupError indicates that a function requested for annotation could not
// be resolved: either it has no entry in the call log or the symbol
// collaborator does not know it. Recoverable at the caller; other functions
// in the same batch are unaffected.
type LookupError struct {
	Function string
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup failed for function %q: %v", e.Function, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Miner drives one-or-many-function annotation runs. It owns a single tracer,
// so only one session is checked out at a time per miner; the process-wide
// observer slot enforces the same rule globally.
type Miner struct {
	symbols interfaces.Symbols
	fset    *token.FileSet
	tracer  *tracer.Tracer
	logger  *logging.Logger
}

// New creates a miner over the given symbol collaborator. The file set must
// be the one the collaborator parses declarations against.
func New(symbols interfaces.Symbols, fset *token.FileSet) *Miner {
	return &Miner{
		symbols: symbols,
		fset:    fset,
		tracer:  tracer.New(),
	}
}

// SetLogger attaches the structured logger used for session lifecycle,
// trace lines, and annotation events.
func (m *Miner) SetLogger(logger *logging.Logger) {
	m.logger = logger
	m.tracer.SetLogger(logger)
}

// EnableTraceLines toggles the per-call/per-return trace output.
func (m *Miner) EnableTraceLines(enabled bool) {
	m.tracer.EnableTraceLines(enabled)
}

// SessionID returns the identifier of the current (or most recent) session.
func (m *Miner) SessionID() string {
	return m.tracer.SessionID()
}

// WithSession runs the body inside a scoped tracer session and returns the
// resulting call log. The previous observer is restored on every exit path;
// a panic from the body propagates after restoration. The returned log is
// owned by the tracer and replaced on the next session, so callers consume
// it before starting another.
func (m *Miner) WithSession(body func()) (*calllog.Log, error) {
	if err := m.tracer.Start(); err != nil {
		return nil, err
	}
	defer m.tracer.Stop()

	body()
	return m.tracer.Log(), nil
}

// Annotate produces an annotated declaration for every function observed in
// the call log. Per-function failures (unresolved symbols, malformed types)
// are collected and joined; they never block annotation of the remaining
// functions, so the returned map can be partial alongside a non-nil error.
func (m *Miner) Annotate(log *calllog.Log) (map[string]*ast.FuncDecl, error) {
	return m.AnnotateNames(log, log.Names())
}

// AnnotateNames annotates exactly the requested functions. A name with no
// entry in the call log is a lookup failure, not a silent skip.
func (m *Miner) AnnotateNames(log *calllog.Log, names []string) (map[string]*ast.FuncDecl, error) {
	annotated := make(map[string]*ast.FuncDecl, len(names))
	var errs []error

	for _, name := range names {
		decl, err := m.AnnotateFunction(log, name)
		if err != nil {
			if m.logger != nil {
				m.logger.LogLookupFailure(name, err)
			}
			errs = append(errs, err)
			continue
		}
		annotated[name] = decl
	}

	return annotated, errors.Join(errs...)
}

// AnnotateFunction runs inference over one function's call records and
// injects the result into its declaration. The declaration comes fresh from
// the symbol collaborator, so the returned node is owned by the caller.
func (m *Miner) AnnotateFunction(log *calllog.Log, name string) (*ast.FuncDecl, error) {
	if !log.Has(name) {
		return nil, &LookupError{Function: name, Err: fmt.Errorf("no entry in call log")}
	}

	decl, err := m.symbols.Decl(name)
	if err != nil {
		return nil, &LookupError{Function: name, Err: err}
	}

	mapping := inference.Infer(log.Records(name))
	annotated, err := rewrite.Apply(decl, mapping)
	if err != nil {
		return nil, fmt.Errorf("function %q: %w", name, err)
	}

	if m.logger != nil {
		m.logger.LogAnnotation(name, mapping.Parameters, mapping.Return)
	}
	return annotated, nil
}

// Render serializes annotated declarations back to source text in the log's
// first-call order, one blank line between declarations. Functions missing
// from the map (for example those whose annotation failed) are skipped.
func (m *Miner) Render(log *calllog.Log, decls map[string]*ast.FuncDecl) (string, error) {
	var buf bytes.Buffer

	for _, name := range log.Names() {
		decl, ok := decls[name]
		if !ok {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		if err := printer.Fprint(&buf, m.fset, decl); err != nil {
			return "", fmt.Errorf("failed to render function %q: %w", name, err)
		}
	}

	if buf.Len() > 0 {
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// Mine is the end-to-end convenience path: trace the body, annotate every
// observed function, and render the result. Per-function annotation errors
// are returned alongside the text rendered from the functions that
// succeeded.
func (m *Miner) Mine(body func()) (string, error) {
	log, err := m.WithSession(body)
	if err != nil {
		return "", err
	}

	decls, annotateErr := m.Annotate(log)
	text, err := m.Render(log, decls)
	if err != nil {
		return "", err
	}
	return text, annotateErr
}
