package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/voxclone/internal/audio"
	"github.com/dgnsrekt/voxclone/internal/clone"
)

// cannedSynth replays a fixed outcome and counts calls.
type cannedSynth struct {
	outcome clone.Outcome
	calls   int
}

func (s *cannedSynth) Synthesize(context.Context, clone.Request) clone.Outcome {
	s.calls++
	return s.outcome
}

func testModel(t *testing.T, synth clone.Synthesizer) model {
	t.Helper()
	client, err := clone.NewClient(clone.ClientConfig{Endpoint: "https://example.test"})
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	return newModel(Config{Endpoint: "https://example.test"}, client, clone.NewController(synth), audio.NewMockPlayer())
}

// TestGenerateCmdValidationFailure verifies that dispatching with
// incomplete input resolves to a failed session and no remote call.
func TestGenerateCmdValidationFailure(t *testing.T) {
	synth := &cannedSynth{outcome: clone.Success("https://host/out.wav")}
	m := testModel(t, synth)

	input := clone.Input{Script: "", Reference: nil, Language: clone.DefaultLanguage}
	msg := generateCmd(m.controller, input)()

	gen, ok := msg.(generateMsg)
	if !ok {
		t.Fatalf("expected generateMsg, got %T", msg)
	}
	if gen.session.Phase != clone.PhaseFailed {
		t.Errorf("expected failed phase, got %s", gen.session.Phase)
	}
	if !clone.IsValidationError(gen.err) {
		t.Errorf("expected validation error, got %v", gen.err)
	}
	if synth.calls != 0 {
		t.Errorf("expected zero remote calls, got %d", synth.calls)
	}
}

// TestGenerateCmdSuccess verifies the full dispatch-resolve round trip
// through the controller.
func TestGenerateCmdSuccess(t *testing.T) {
	synth := &cannedSynth{outcome: clone.Success("https://host/out.wav")}
	m := testModel(t, synth)

	input := clone.Input{
		Script:    "Hello world",
		Reference: &clone.ReferenceAudio{Name: "sample.wav", Data: []byte("RIFF")},
		Language:  clone.LangFrench,
	}
	msg := generateCmd(m.controller, input)()

	gen := msg.(generateMsg)
	if gen.err != nil {
		t.Fatalf("unexpected error: %v", gen.err)
	}
	if gen.session.Phase != clone.PhaseSucceeded {
		t.Fatalf("expected succeeded phase, got %s", gen.session.Phase)
	}

	// Feed the message through Update and check the presenter output.
	next, _ := m.Update(gen)
	updated := next.(model)
	view := updated.resultView()
	if !strings.Contains(view, "https://host/out.wav") {
		t.Error("result view does not expose the resource locator")
	}
	if !strings.Contains(view, clone.SuggestedFilename) {
		t.Error("result view does not suggest the download filename")
	}
}

// TestGenerateKeyIgnoredWhileGenerating verifies the UI-side guard.
func TestGenerateKeyIgnoredWhileGenerating(t *testing.T) {
	m := testModel(t, &cannedSynth{outcome: clone.Success("x")})
	m.session = clone.Session{Phase: clone.PhaseGenerating}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	if cmd != nil {
		t.Error("expected no command while a generation is in flight")
	}
	if next.(model).session.Phase != clone.PhaseGenerating {
		t.Error("in-flight session must stand")
	}
}

// TestFailedSessionRendersMessage verifies error presentation.
func TestFailedSessionRendersMessage(t *testing.T) {
	m := testModel(t, &cannedSynth{})
	m.session = clone.Session{Phase: clone.PhaseFailed, Err: "bad reference audio"}

	if view := m.resultView(); !strings.Contains(view, "bad reference audio") {
		t.Errorf("expected error message in view, got %q", view)
	}
}

// TestReferenceLostClearsSelection verifies the watcher integration
// point: losing the file on disk clears the input state.
func TestReferenceLostClearsSelection(t *testing.T) {
	m := testModel(t, &cannedSynth{})
	m.reference = &clone.ReferenceAudio{Name: "gone.wav", Data: []byte("x")}
	m.refPath = "/tmp/gone.wav"

	next, _ := m.Update(referenceLostMsg{path: "/tmp/gone.wav"})
	updated := next.(model)
	if updated.reference != nil {
		t.Error("expected reference selection to be cleared")
	}

	// A stale message for a different path must be ignored.
	updated.reference = &clone.ReferenceAudio{Name: "new.wav", Data: []byte("y")}
	updated.refPath = "/tmp/new.wav"
	next, _ = updated.Update(referenceLostMsg{path: "/tmp/gone.wav"})
	if next.(model).reference == nil {
		t.Error("lost-file message for a superseded path must be ignored")
	}
}

// TestLanguageFilter verifies fuzzy filtering in the language selector.
func TestLanguageFilter(t *testing.T) {
	lm := newLangModel(clone.DefaultLanguage)
	lm.Focus()

	lm, _ = lm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("fren")})
	if len(lm.filtered) == 0 {
		t.Fatal("expected at least one match for \"fren\"")
	}
	if lm.filtered[0] != clone.LangFrench {
		t.Errorf("expected French as top match, got %q", lm.filtered[0])
	}

	lm, _ = lm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if lm.Selected() != clone.LangFrench {
		t.Errorf("expected French selected, got %q", lm.Selected())
	}
}

// TestFocusCycle verifies tab cycles through the three panes.
func TestFocusCycle(t *testing.T) {
	m := testModel(t, &cannedSynth{})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(model).focus != focusLanguage {
		t.Errorf("expected language focus, got %d", next.(model).focus)
	}
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(model).focus != focusReference {
		t.Errorf("expected reference focus, got %d", next.(model).focus)
	}
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(model).focus != focusScript {
		t.Errorf("expected script focus, got %d", next.(model).focus)
	}
}
