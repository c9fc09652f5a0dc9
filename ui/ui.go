// Package ui provides the single-page TUI for the voxclone application.
package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/dgnsrekt/voxclone/internal/audio"
	"github.com/dgnsrekt/voxclone/internal/clone"
)

const statusMessageTimeout = time.Second * 3

// focusArea identifies which input pane receives keystrokes.
type focusArea int

const (
	focusScript focusArea = iota
	focusLanguage
	focusReference

	focusCount
)

// NewProgram returns a new Tea program wired to the remote endpoint.
func NewProgram(cfg Config) (*tea.Program, error) {
	log.Debug("starting voxclone", "endpoint", cfg.Endpoint, "language", cfg.Language)

	client, err := clone.NewClient(clone.ClientConfig{Endpoint: cfg.Endpoint})
	if err != nil {
		return nil, err
	}

	m := newModel(cfg, client, clone.NewController(client), audio.NewOtoPlayer())
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(m, opts...), nil
}

type model struct {
	cfg  Config
	keys keyMap
	help help.Model

	// Input panes.
	script textarea.Model
	langs  langModel
	picker filepicker.Model

	// Collaborators.
	controller *clone.Controller
	client     *clone.Client
	player     audio.Player

	// Selected reference sample.
	reference *clone.ReferenceAudio
	refPath   string
	refWatch  *referenceWatcher

	// Mirror of the controller's session for rendering.
	session clone.Session
	spinner spinner.Model

	status   string
	fatalErr error

	width  int
	height int
	focus  focusArea
}

func newModel(cfg Config, client *clone.Client, controller *clone.Controller, player audio.Player) model {
	ta := textarea.New()
	ta.Placeholder = "Enter the text to speak…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)
	if cfg.Script != "" {
		ta.SetValue(cfg.Script)
	}

	lang := clone.DefaultLanguage
	if cfg.Language != "" {
		parsed, err := clone.ParseLanguage(cfg.Language)
		if err != nil {
			log.Warn("ignoring unsupported language", "language", cfg.Language)
		} else {
			lang = parsed
		}
	}

	fp := filepicker.New()
	fp.AllowedTypes = clone.ReferenceExtensions
	fp.ShowHidden = false
	fp.Height = 8
	if cwd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = cwd
	} else if cfg.HomeDir != "" {
		fp.CurrentDirectory = cfg.HomeDir
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	m := model{
		cfg:        cfg,
		keys:       newKeyMap(),
		help:       help.New(),
		script:     ta,
		langs:      newLangModel(lang),
		picker:     fp,
		controller: controller,
		client:     client,
		player:     player,
		session:    controller.Session(),
		spinner:    sp,
		focus:      focusScript,
	}
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.script.Focus(), textarea.Blink, m.picker.Init()}
	if m.cfg.ReferencePath != "" {
		cmds = append(cmds, loadReferenceCmd(m.cfg.ReferencePath))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.script.SetWidth(m.contentWidth())
		return m, nil

	case tea.KeyMsg:
		if handled, next, cmd := m.handleActionKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		if m.session.Phase == clone.PhaseGenerating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case generateMsg:
		return m.handleGenerateMsg(msg)

	case referenceLoadedMsg:
		if msg.err != nil {
			m.session = clone.Session{Phase: clone.PhaseFailed, Err: msg.err.Error()}
			return m, nil
		}
		m.reference = msg.ref
		m.refPath = msg.path
		m.refWatch.Close()
		m.refWatch = watchReference(msg.path)
		log.Debug("reference audio loaded", "path", msg.path, "bytes", len(msg.ref.Data))
		return m, m.refWatch.waitCmd()

	case referenceLostMsg:
		if msg.path == m.refPath {
			m.reference = nil
			m.refPath = ""
			m.refWatch.Close()
			m.refWatch = nil
			m.status = "reference audio disappeared; pick another sample"
			return m, expireStatusCmd()
		}
		return m, nil

	case playbackMsg:
		if msg.err != nil {
			log.Debug("playback failed", "err", msg.err)
			m.status = "playback failed: " + msg.err.Error()
		} else {
			m.status = "playing"
		}
		return m, expireStatusCmd()

	case downloadMsg:
		if msg.err != nil {
			log.Debug("download failed", "err", msg.err)
			m.status = "download failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("saved %s (%s)", msg.path, humanize.Bytes(uint64(msg.size)))
		}
		return m, expireStatusCmd()

	case clipboardMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "url copied to clipboard"
		}
		return m, expireStatusCmd()

	case editorFinishedMsg:
		defer os.Remove(msg.path) //nolint:errcheck
		if msg.err != nil {
			m.status = "editor failed: " + msg.err.Error()
			return m, expireStatusCmd()
		}
		edited, err := os.ReadFile(msg.path)
		if err != nil {
			m.status = "unable to read edited script: " + err.Error()
			return m, expireStatusCmd()
		}
		m.script.SetValue(strings.TrimRight(string(edited), "\n"))
		return m, nil

	case statusExpiredMsg:
		m.status = ""
		return m, nil
	}

	// Route everything else to the panes. Key messages go only to the
	// focused pane; component-internal messages go everywhere.
	_, isKey := msg.(tea.KeyMsg)

	if !isKey || m.focus == focusScript {
		var cmd tea.Cmd
		m.script, cmd = m.script.Update(msg)
		cmds = append(cmds, cmd)
	}
	if !isKey || m.focus == focusLanguage {
		var cmd tea.Cmd
		m.langs, cmd = m.langs.Update(msg)
		cmds = append(cmds, cmd)
	}
	if !isKey || m.focus == focusReference {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)

		if ok, path := m.picker.DidSelectFile(msg); ok {
			cmds = append(cmds, loadReferenceCmd(path))
		}
		if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
			m.status = fmt.Sprintf("%s is not a supported audio format", path)
			cmds = append(cmds, expireStatusCmd())
		}
	}

	return m, tea.Batch(cmds...)
}

// handleActionKey processes the global control-key chords. It reports
// whether the key was consumed.
func (m model) handleActionKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.refWatch.Close()
		_ = m.player.Close()
		return true, m, tea.Quit

	case key.Matches(msg, m.keys.NextField):
		next := m
		cmd := next.setFocus((m.focus + 1) % focusCount)
		return true, next, cmd

	case key.Matches(msg, m.keys.PrevField):
		next := m
		cmd := next.setFocus((m.focus + focusCount - 1) % focusCount)
		return true, next, cmd

	case key.Matches(msg, m.keys.Generate):
		next, cmd := m.startGeneration()
		return true, next, cmd

	case key.Matches(msg, m.keys.Edit):
		cmd, err := editScriptCmd(m.script.Value())
		if err != nil {
			m.status = err.Error()
			return true, m, expireStatusCmd()
		}
		return true, m, cmd

	case key.Matches(msg, m.keys.Play):
		if m.session.Phase == clone.PhaseSucceeded {
			return true, m, playCmd(m.client, m.player, m.session.Outcome.URL)
		}
		return true, m, nil

	case key.Matches(msg, m.keys.StopPlay):
		return true, m, stopPlaybackCmd(m.player)

	case key.Matches(msg, m.keys.Download):
		if m.session.Phase == clone.PhaseSucceeded {
			return true, m, downloadCmd(m.client, m.session.Outcome.URL, m.cfg.OutputDir)
		}
		return true, m, nil

	case key.Matches(msg, m.keys.CopyURL):
		if m.session.Phase == clone.PhaseSucceeded {
			return true, m, copyURLCmd(m.session.Outcome.URL)
		}
		return true, m, nil
	}

	return false, m, nil
}

// startGeneration dispatches one generation attempt. The controller owns
// the gate check and the in-flight guard; the phase here is flipped
// optimistically so the spinner starts on the very next frame.
func (m model) startGeneration() (tea.Model, tea.Cmd) {
	if m.session.Phase == clone.PhaseGenerating {
		return m, nil
	}

	input := clone.Input{
		Script:    m.script.Value(),
		Reference: m.reference,
		Language:  m.langs.Selected(),
	}
	m.session = clone.Session{Phase: clone.PhaseGenerating}
	return m, tea.Batch(m.spinner.Tick, generateCmd(m.controller, input))
}

func (m model) handleGenerateMsg(msg generateMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, clone.ErrGenerationInFlight) {
		// A stray second dispatch; the active session stands.
		return m, nil
	}
	m.session = msg.session
	if msg.err != nil && clone.IsValidationError(msg.err) {
		log.Debug("generation blocked by validation", "err", msg.err)
	}
	return m, nil
}

func (m *model) setFocus(area focusArea) tea.Cmd {
	m.focus = area
	m.script.Blur()
	m.langs.Blur()

	switch area {
	case focusScript:
		return m.script.Focus()
	case focusLanguage:
		return m.langs.Focus()
	default:
		return nil
	}
}

func (m model) contentWidth() int {
	if m.width == 0 {
		return 74
	}
	w := m.width - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorStyle.Render("fatal: "+m.fatalErr.Error()) + "\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("voxclone"))
	b.WriteString(subtleStyle.Render(" · clone a voice with XTTS-v2"))
	b.WriteString("\n\n")

	b.WriteString(m.paneTitle("Script", focusScript))
	b.WriteString("\n")
	b.WriteString(m.pane(m.script.View(), focusScript))
	b.WriteString("\n")

	langPane := m.paneTitle("Language", focusLanguage) + "\n" + m.pane(m.langs.View(), focusLanguage)
	refPane := m.paneTitle("Reference audio", focusReference) + "\n" + m.pane(m.referenceView(), focusReference)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, langPane, " ", refPane))
	b.WriteString("\n")

	b.WriteString(m.resultView())
	b.WriteString("\n\n")

	b.WriteString(m.statusBarView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m model) paneTitle(title string, area focusArea) string {
	if m.focus == area {
		return focusedLabelStyle.Render(title)
	}
	return labelStyle.Render(title)
}

func (m model) pane(content string, area focusArea) string {
	if m.focus == area {
		return focusedPaneStyle.Render(content)
	}
	return paneStyle.Render(content)
}

// referenceView shows the selected sample, and the picker while the
// reference pane is focused.
func (m model) referenceView() string {
	var b strings.Builder

	if m.reference != nil {
		b.WriteString(selectedStyle.Render(m.reference.Name))
		b.WriteString(subtleStyle.Render(" (" + humanize.Bytes(uint64(len(m.reference.Data))) + ")"))
	} else {
		b.WriteString(subtleStyle.Render("no sample selected"))
	}

	if m.focus == focusReference {
		b.WriteString("\n")
		b.WriteString(m.picker.View())
	}
	return b.String()
}

func (m model) statusBarView() string {
	parts := []string{
		statusBarStyle.Render("state: " + m.session.Phase.String()),
		statusBarStyle.Render("lang: " + m.langs.Selected().String()),
	}
	if m.status != "" {
		parts = append(parts, selectedStyle.Render(m.status))
	}
	return strings.Join(parts, separatorStyle.Render(" │ "))
}

func expireStatusCmd() tea.Cmd {
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}
