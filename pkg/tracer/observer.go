/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: observer.go
Description: Process-wide observer slot for the Akaylee SpecMiner. Instrumented
functions report call and return events to whatever observer currently occupies
the slot. Exactly one slot exists per process; sessions swap it on the way in
and restore it on the way out.
*/

package tracer

import (
	"github.com/kleascm/akaylee-specminer/pkg/interfaces"
)

// active is the single process-wide observer slot. Events are delivered
// synchronously on the goroutine executing the monitored code; the slot is
// deliberately unsynchronized because tracing is single-threaded by contract.
var active interfaces.Observer

// Active returns the observer currently occupying the slot, or nil when no
// session is running and no external observer was installed.
func Active() interfaces.Observer {
	return active
}

// Install places an observer in the slot and returns the previous occupant.
// Callers own the returned observer and must reinstall it when done; the
// Tracer does this through its Start/Stop pairing.
func Install(obs interfaces.Observer) interfaces.Observer {
	prev := active
	active = obs
	return prev
}
