package clone_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgnsrekt/voxclone/internal/clone"
)

// mockSynthesizer implements clone.Synthesizer for testing, counting
// calls and replaying canned outcomes.
type mockSynthesizer struct {
	mu       sync.Mutex
	calls    int
	lastReq  clone.Request
	outcome  clone.Outcome
	started  chan struct{}
	release  chan struct{}
}

func newMockSynthesizer(outcome clone.Outcome) *mockSynthesizer {
	return &mockSynthesizer{outcome: outcome}
}

func (m *mockSynthesizer) Synthesize(_ context.Context, req clone.Request) clone.Outcome {
	m.mu.Lock()
	m.calls++
	m.lastReq = req
	started := m.started
	release := m.release
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome
}

func (m *mockSynthesizer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func validInput() clone.Input {
	return clone.Input{
		Script:    "Hello world",
		Language:  clone.LangFrench,
		Reference: &clone.ReferenceAudio{Name: "sample.wav", Data: []byte("RIFFdata")},
	}
}

// TestGenerateValidationFailure verifies that incomplete input fails fast
// with a validation error and issues zero remote calls.
func TestGenerateValidationFailure(t *testing.T) {
	tests := []struct {
		name    string
		input   clone.Input
		wantErr error
	}{
		{
			name:    "empty script",
			input:   clone.Input{Reference: &clone.ReferenceAudio{Name: "a.wav", Data: []byte("x")}},
			wantErr: clone.ErrScriptEmpty,
		},
		{
			name:    "missing reference",
			input:   clone.Input{Script: "Hello"},
			wantErr: clone.ErrReferenceMissing,
		},
		{
			name:    "nothing at all",
			input:   clone.Input{},
			wantErr: clone.ErrScriptEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := newMockSynthesizer(clone.Success("https://host/out.wav"))
			ctrl := clone.NewController(synth)

			session, err := ctrl.Generate(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !clone.IsValidationError(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
			if session.Phase != clone.PhaseFailed {
				t.Errorf("expected failed phase, got %s", session.Phase)
			}
			if synth.callCount() != 0 {
				t.Errorf("expected zero remote calls, got %d", synth.callCount())
			}
		})
	}
}

// TestGenerateCanSubmitGate verifies CanSubmit agrees with the Generate gate.
func TestGenerateCanSubmitGate(t *testing.T) {
	if (clone.Input{}).CanSubmit() {
		t.Error("empty input should not be submittable")
	}
	if !validInput().CanSubmit() {
		t.Error("complete input should be submittable")
	}
	partial := validInput()
	partial.Reference = nil
	if partial.CanSubmit() {
		t.Error("input without reference should not be submittable")
	}
}

// TestGenerateSuccess verifies the success path stores the resource
// locator and issues exactly one remote call.
func TestGenerateSuccess(t *testing.T) {
	synth := newMockSynthesizer(clone.Success("https://host/out.wav"))
	ctrl := clone.NewController(synth)

	session, err := ctrl.Generate(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Phase != clone.PhaseSucceeded {
		t.Fatalf("expected succeeded phase, got %s", session.Phase)
	}
	if session.Outcome.URL != "https://host/out.wav" {
		t.Errorf("expected resource locator to be stored, got %q", session.Outcome.URL)
	}
	if synth.callCount() != 1 {
		t.Errorf("expected exactly one remote call, got %d", synth.callCount())
	}

	synth.mu.Lock()
	req := synth.lastReq
	synth.mu.Unlock()
	if req.Script != "Hello world" || req.Language != clone.LangFrench {
		t.Errorf("request does not match input snapshot: %+v", req)
	}
}

// TestGenerateRemoteFailure verifies a service error is surfaced verbatim.
func TestGenerateRemoteFailure(t *testing.T) {
	synth := newMockSynthesizer(clone.Failure("bad reference audio"))
	ctrl := clone.NewController(synth)

	session, err := ctrl.Generate(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Phase != clone.PhaseFailed {
		t.Fatalf("expected failed phase, got %s", session.Phase)
	}
	if session.Err != "bad reference audio" {
		t.Errorf("expected verbatim service error, got %q", session.Err)
	}
}

// TestGenerateInFlightGuard verifies that a second Generate call while
// the first is unresolved is rejected without a second remote call.
func TestGenerateInFlightGuard(t *testing.T) {
	synth := newMockSynthesizer(clone.Success("https://host/out.wav"))
	synth.started = make(chan struct{})
	synth.release = make(chan struct{})
	ctrl := clone.NewController(synth)

	done := make(chan clone.Session, 1)
	go func() {
		session, _ := ctrl.Generate(context.Background(), validInput())
		done <- session
	}()

	select {
	case <-synth.started:
	case <-time.After(time.Second):
		t.Fatal("first generation never reached the synthesizer")
	}

	if _, err := ctrl.Generate(context.Background(), validInput()); !errors.Is(err, clone.ErrGenerationInFlight) {
		t.Fatalf("expected ErrGenerationInFlight, got %v", err)
	}

	close(synth.release)
	select {
	case session := <-done:
		if session.Phase != clone.PhaseSucceeded {
			t.Errorf("expected succeeded phase, got %s", session.Phase)
		}
	case <-time.After(time.Second):
		t.Fatal("first generation never resolved")
	}

	if synth.callCount() != 1 {
		t.Errorf("expected exactly one remote call, got %d", synth.callCount())
	}
}

// TestGenerateClearsPreviousError verifies failure recovery: a failed
// session is superseded wholesale by the next attempt.
func TestGenerateClearsPreviousError(t *testing.T) {
	synth := newMockSynthesizer(clone.Failure("bad reference audio"))
	ctrl := clone.NewController(synth)

	if _, err := ctrl.Generate(context.Background(), validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctrl.Session().Err == "" {
		t.Fatal("expected error to be stored")
	}

	var sawGenerating bool
	ctrl.OnPhaseChange(func(p clone.Phase) {
		if p == clone.PhaseGenerating {
			// The moment Generating is entered the old error must be gone.
			if s := ctrl.Session(); s.Err != "" || s.Outcome.URL != "" {
				t.Errorf("stale session visible while generating: %+v", s)
			}
			sawGenerating = true
		}
	})

	synth.mu.Lock()
	synth.outcome = clone.Success("https://host/out.wav")
	synth.mu.Unlock()

	session, err := ctrl.Generate(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawGenerating {
		t.Error("controller never entered the generating phase")
	}
	if session.Phase != clone.PhaseSucceeded || session.Err != "" {
		t.Errorf("expected clean success, got %+v", session)
	}
}

// TestSnapshotIsolation verifies that mutating the input after Generate
// started cannot leak into the request.
func TestSnapshotIsolation(t *testing.T) {
	input := validInput()
	req := input.Snapshot()

	input.Reference.Data[0] = 'X'
	if req.ReferenceData[0] == 'X' {
		t.Error("snapshot shares reference audio bytes with the live input")
	}
}

// TestPhaseStrings pins the phase names used in logs and the status bar.
func TestPhaseStrings(t *testing.T) {
	want := map[clone.Phase]string{
		clone.PhaseIdle:       "idle",
		clone.PhaseGenerating: "generating",
		clone.PhaseSucceeded:  "succeeded",
		clone.PhaseFailed:     "failed",
	}
	for phase, name := range want {
		if phase.String() != name {
			t.Errorf("phase %d: expected %q, got %q", int(phase), name, phase.String())
		}
	}
	if clone.PhaseGenerating.Terminal() {
		t.Error("generating must not be terminal")
	}
	if !clone.PhaseFailed.Terminal() || !clone.PhaseSucceeded.Terminal() {
		t.Error("succeeded and failed are terminal states")
	}
}
