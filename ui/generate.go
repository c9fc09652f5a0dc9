package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/editor"

	"github.com/atotto/clipboard"
	"github.com/dgnsrekt/voxclone/internal/audio"
	"github.com/dgnsrekt/voxclone/internal/clone"
)

// Messages for the generation lifecycle. These follow the Bubble Tea
// command pattern: each async operation resolves into exactly one msg.

// generateMsg is sent when a generation attempt resolves (terminal
// session, or the in-flight guard error).
type generateMsg struct {
	session clone.Session
	err     error
}

// referenceLoadedMsg is sent when a picked reference file has been read.
type referenceLoadedMsg struct {
	path string
	ref  *clone.ReferenceAudio
	err  error
}

// referenceLostMsg is sent when the selected reference file disappears
// from disk.
type referenceLostMsg struct {
	path string
}

// playbackMsg is sent when fetch-and-play of the result resolves.
type playbackMsg struct {
	err error
}

// downloadMsg is sent when a download resolves.
type downloadMsg struct {
	path string
	size int64
	err  error
}

// clipboardMsg is sent when the result URL was copied.
type clipboardMsg struct {
	err error
}

// editorFinishedMsg is sent when the external editor exits.
type editorFinishedMsg struct {
	path string
	err  error
}

// statusExpiredMsg clears a transient status message.
type statusExpiredMsg struct{}

// generateCmd runs one generation attempt through the controller. The
// controller enforces the gate check and the in-flight guard; the UI
// only renders whatever session comes back.
func generateCmd(ctrl *clone.Controller, input clone.Input) tea.Cmd {
	return func() tea.Msg {
		session, err := ctrl.Generate(context.Background(), input)
		return generateMsg{session: session, err: err}
	}
}

// loadReferenceCmd reads a picked reference file into memory.
func loadReferenceCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if !clone.AcceptableReference(path) {
			return referenceLoadedMsg{
				path: path,
				err:  fmt.Errorf("%s is not a supported audio format", filepath.Base(path)),
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return referenceLoadedMsg{path: path, err: fmt.Errorf("unable to read reference audio: %w", err)}
		}
		return referenceLoadedMsg{
			path: path,
			ref:  &clone.ReferenceAudio{Name: filepath.Base(path), Data: data},
		}
	}
}

// playCmd fetches the synthesized resource and plays it.
func playCmd(client *clone.Client, player audio.Player, resourceURL string) tea.Cmd {
	return func() tea.Msg {
		wav, err := client.Fetch(context.Background(), resourceURL)
		if err != nil {
			return playbackMsg{err: err}
		}
		if err := player.Play(wav); err != nil {
			return playbackMsg{err: err}
		}
		return playbackMsg{}
	}
}

// stopPlaybackCmd halts playback.
func stopPlaybackCmd(player audio.Player) tea.Cmd {
	return func() tea.Msg {
		if err := player.Stop(); err != nil {
			log.Debug("stop playback failed", "err", err)
		}
		return nil
	}
}

// downloadCmd saves the synthesized resource under the suggested
// filename in dir.
func downloadCmd(client *clone.Client, resourceURL, dir string) tea.Cmd {
	return func() tea.Msg {
		path, size, err := client.Download(context.Background(), resourceURL, dir)
		return downloadMsg{path: path, size: size, err: err}
	}
}

// copyURLCmd puts the resource locator on the system clipboard.
func copyURLCmd(resourceURL string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(resourceURL)}
	}
}

// editScriptCmd hands the script off to $EDITOR via a temp file and
// suspends the TUI while the editor runs.
func editScriptCmd(script string) (tea.Cmd, error) {
	f, err := os.CreateTemp("", "voxclone-script-*.txt")
	if err != nil {
		return nil, fmt.Errorf("unable to create script file: %w", err)
	}
	path := f.Name()
	if _, err := f.WriteString(script); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("unable to write script file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("unable to close script file: %w", err)
	}

	c, err := editor.Cmd("Voxclone", path)
	if err != nil {
		return nil, fmt.Errorf("unable to set up editor: %w", err)
	}
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	}), nil
}
