package clone

import (
	"context"
	"sync"
)

// Phase is the lifecycle state of the controller.
type Phase int

const (
	// PhaseIdle indicates no generation has run yet.
	PhaseIdle Phase = iota
	// PhaseGenerating indicates a synthesis call is in flight.
	PhaseGenerating
	// PhaseSucceeded indicates the last generation produced audio.
	PhaseSucceeded
	// PhaseFailed indicates the last generation ended with an error.
	PhaseFailed
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGenerating:
		return "generating"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase is one no implicit transition leaves.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Session is the state of one generation attempt. A new session replaces
// the previous one wholesale; sessions are never merged.
type Session struct {
	Phase   Phase
	Outcome Outcome // meaningful only in a terminal phase
	Err     string  // user-visible message when Phase == PhaseFailed
}

// Synthesizer issues exactly one remote synthesis round trip.
// Implementations must not panic; every failure mode is reported
// through the returned Outcome.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) Outcome
}

// Controller orchestrates the generation lifecycle. It owns the single
// active session and guarantees at most one in-flight synthesis call.
type Controller struct {
	synth Synthesizer

	mu      sync.Mutex
	session Session

	onPhase func(Phase)
}

// NewController creates a controller that delegates synthesis to synth.
func NewController(synth Synthesizer) *Controller {
	return &Controller{
		synth:   synth,
		session: Session{Phase: PhaseIdle},
	}
}

// OnPhaseChange registers a callback invoked after every phase
// transition. The callback runs outside the controller lock.
func (c *Controller) OnPhaseChange(fn func(Phase)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPhase = fn
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Phase
}

// Generate runs one full generation attempt: gate check, remote call,
// terminal transition. It blocks until the attempt resolves.
//
// Calling Generate while a previous call is still generating returns
// ErrGenerationInFlight without touching the active session. A failed
// gate check transitions straight to PhaseFailed without issuing a
// remote call and returns the validation error.
func (c *Controller) Generate(ctx context.Context, input Input) (Session, error) {
	c.mu.Lock()
	if c.session.Phase == PhaseGenerating {
		s := c.session
		c.mu.Unlock()
		return s, ErrGenerationInFlight
	}

	if err := input.Validate(); err != nil {
		c.session = Session{Phase: PhaseFailed, Err: err.Error()}
		s := c.session
		c.mu.Unlock()
		c.notify(PhaseFailed)
		return s, err
	}

	// Snapshot before releasing the lock so concurrent input edits
	// cannot reach the remote call.
	req := input.Snapshot()
	c.session = Session{Phase: PhaseGenerating}
	c.mu.Unlock()
	c.notify(PhaseGenerating)

	outcome := c.synth.Synthesize(ctx, req)

	c.mu.Lock()
	if outcome.Succeeded() {
		c.session = Session{Phase: PhaseSucceeded, Outcome: outcome}
	} else {
		c.session = Session{Phase: PhaseFailed, Outcome: outcome, Err: outcome.Err}
	}
	s := c.session
	c.mu.Unlock()
	c.notify(s.Phase)

	return s, nil
}

func (c *Controller) notify(p Phase) {
	c.mu.Lock()
	fn := c.onPhase
	c.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}
