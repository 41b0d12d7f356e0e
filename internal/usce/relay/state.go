package relay

import "strings"

// State is the lifecycle of one chat request. Transitions only move
// forward: Idle, Validating, Forwarding, Streaming, then Completed or Failed.
type State int

const (
	Idle State = iota
	Validating
	Forwarding
	Streaming
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Forwarding:
		return "forwarding"
	case Streaming:
		return "streaming"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == Completed || s == Failed
}

// Accumulator collects the fragments of one reply
type Accumulator struct {
	b         strings.Builder
	fragments int
}

func (a *Accumulator) Add(fragment string) {
	a.b.WriteString(fragment)
	a.fragments++
}

// Text is the reply so far; after completion it is the full reply
func (a *Accumulator) Text() string {
	return a.b.String()
}

func (a *Accumulator) Fragments() int {
	return a.fragments
}
