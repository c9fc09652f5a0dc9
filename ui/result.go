package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/voxclone/internal/clone"
)

// resultView renders the outcome pane. It is a pure function of the
// controller's terminal session: nothing to show while idle, a spinner
// while generating, playback/download affordances on success, and the
// stored message on failure.
func (m model) resultView() string {
	switch m.session.Phase {
	case clone.PhaseGenerating:
		return m.spinner.View() + " Cloning voice… this can take a few minutes on free hardware"

	case clone.PhaseSucceeded:
		var b strings.Builder
		b.WriteString(successStyle.Render("✓ Voice cloned"))
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render(truncate(m.session.Outcome.URL, m.contentWidth())))
		b.WriteString("\n")
		controls := []string{
			m.keys.Play.Help().Key + " play",
			m.keys.StopPlay.Help().Key + " stop",
			m.keys.Download.Help().Key + " download " + clone.SuggestedFilename,
			m.keys.CopyURL.Help().Key + " copy url",
		}
		b.WriteString(labelStyle.Render(strings.Join(controls, separatorStyle.Render(" │ "))))
		return b.String()

	case clone.PhaseFailed:
		msg := m.session.Err
		if msg == "" {
			msg = "generation failed"
		}
		return errorStyle.Render("⚠ " + wordwrap.String(msg, m.contentWidth()))

	default:
		return subtleStyle.Render("Fill in a script and a reference sample, then press " +
			m.keys.Generate.Help().Key + " to clone.")
	}
}

// truncate clips a string to the given cell width, accounting for
// double-width runes.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "…")
}
