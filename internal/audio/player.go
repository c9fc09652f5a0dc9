// Package audio provides one-shot playback of synthesized WAV clips
// through the system audio device.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays one audio clip at a time.
type Player interface {
	// Play decodes a WAV clip and starts playback, replacing any clip
	// that is still playing.
	Play(wav []byte) error

	// Stop halts playback.
	Stop() error

	// IsPlaying reports whether a clip is currently audible.
	IsPlaying() bool

	// Close releases the audio device.
	Close() error
}

// Playback errors.
var (
	ErrPlayerClosed   = errors.New("audio player is closed")
	ErrFormatMismatch = errors.New("clip format does not match the audio device")
)

// OtoPlayer implements Player on top of ebitengine/oto. The oto context
// can be created only once per process, so the device is opened lazily
// with the format of the first clip; later clips must match it. The
// synthesis model emits a stable format across calls, so in practice the
// constraint never bites.
type OtoPlayer struct {
	mu      sync.Mutex
	context *oto.Context
	format  Format
	player  *oto.Player

	// Keeps the PCM bytes alive while oto streams them.
	active []byte

	closed bool
}

// NewOtoPlayer creates a player. The audio device is not opened until
// the first Play call.
func NewOtoPlayer() *OtoPlayer {
	return &OtoPlayer{}
}

// Play implements Player.
func (p *OtoPlayer) Play(wav []byte) error {
	format, pcm, err := DecodeWAV(wav)
	if err != nil {
		return fmt.Errorf("decoding clip: %w", err)
	}
	if format.BitDepth != 16 {
		return fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedEncoding, format.BitDepth)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPlayerClosed
	}

	if p.context == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return fmt.Errorf("opening audio device: %w", err)
		}
		<-ready
		p.context = ctx
		p.format = format
	} else if format != p.format {
		return fmt.Errorf("%w: device %v, clip %v", ErrFormatMismatch, p.format, format)
	}

	p.stopLocked()

	p.active = pcm
	p.player = p.context.NewPlayer(bytes.NewReader(p.active))
	p.player.Play()
	return nil
}

// Stop implements Player.
func (p *OtoPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlayerClosed
	}
	p.stopLocked()
	return nil
}

func (p *OtoPlayer) stopLocked() {
	if p.player != nil {
		_ = p.player.Close()
		p.player = nil
		p.active = nil
	}
}

// IsPlaying implements Player.
func (p *OtoPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

// Close implements Player.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.stopLocked()
	p.closed = true
	if p.context != nil {
		// oto contexts cannot be torn down; suspending parks the device loop.
		if err := p.context.Suspend(); err != nil {
			return fmt.Errorf("suspending audio device: %w", err)
		}
	}
	return nil
}

// Duration estimates the play time of a decoded clip.
func Duration(format Format, pcmLen int) time.Duration {
	bytesPerSecond := format.SampleRate * format.Channels * format.BitDepth / 8
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(pcmLen) * time.Second / time.Duration(bytesPerSecond)
}
