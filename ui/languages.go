package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/dgnsrekt/voxclone/internal/clone"
)

// langModel is the language selector: a fuzzy filter input over the
// closed set of languages the remote model accepts.
type langModel struct {
	filter   textinput.Model
	choices  []clone.Language
	filtered []clone.Language
	cursor   int
	selected clone.Language
	focused  bool
}

func newLangModel(initial clone.Language) langModel {
	ti := textinput.New()
	ti.Placeholder = "filter languages"
	ti.Prompt = "/ "
	ti.CharLimit = 32

	m := langModel{
		filter:   ti,
		choices:  clone.Languages,
		selected: initial,
	}
	m.applyFilter()

	// Start the cursor on the initial selection.
	for i, l := range m.filtered {
		if l == initial {
			m.cursor = i
		}
	}
	return m
}

func (m *langModel) Focus() tea.Cmd {
	m.focused = true
	return m.filter.Focus()
}

func (m *langModel) Blur() {
	m.focused = false
	m.filter.Blur()
}

func (m langModel) Selected() clone.Language {
	return m.selected
}

func (m langModel) Update(msg tea.Msg) (langModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "ctrl+k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+j":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.filtered) {
				m.selected = m.filtered[m.cursor]
			}
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
	return m, cmd
}

// applyFilter fuzzy-matches the filter text against "code name" pairs so
// both "fr" and "fren" land on French.
func (m *langModel) applyFilter() {
	pattern := strings.TrimSpace(m.filter.Value())
	if pattern == "" {
		m.filtered = m.choices
		return
	}

	haystack := make([]string, len(m.choices))
	for i, l := range m.choices {
		haystack[i] = l.String() + " " + l.DisplayName()
	}

	matches := fuzzy.Find(pattern, haystack)
	filtered := make([]clone.Language, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, m.choices[match.Index])
	}
	m.filtered = filtered
}

func (m langModel) View() string {
	var b strings.Builder

	if m.focused {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	if len(m.filtered) == 0 {
		b.WriteString(subtleStyle.Render("no matching language"))
		return b.String()
	}

	for i, l := range m.filtered {
		row := fmt.Sprintf("%-6s %s", l, l.DisplayName())
		switch {
		case m.focused && i == m.cursor:
			row = focusedLabelStyle.Render("> " + row)
		case l == m.selected:
			row = selectedStyle.Render("* " + row)
		default:
			row = labelStyle.Render("  " + row)
		}
		b.WriteString(row)
		if i < len(m.filtered)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
