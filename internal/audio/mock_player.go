package audio

import "sync"

// MockPlayer implements Player for tests: it records calls instead of
// touching the audio device.
type MockPlayer struct {
	mu        sync.Mutex
	playing   bool
	closed    bool
	playCount int
	stopCount int
	lastClip  []byte

	// PlayErr, when set, is returned from Play.
	PlayErr error
}

// NewMockPlayer creates a mock player.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

// Play implements Player.
func (m *MockPlayer) Play(wav []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrPlayerClosed
	}
	if m.PlayErr != nil {
		return m.PlayErr
	}
	m.playing = true
	m.playCount++
	m.lastClip = append([]byte(nil), wav...)
	return nil
}

// Stop implements Player.
func (m *MockPlayer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrPlayerClosed
	}
	m.playing = false
	m.stopCount++
	return nil
}

// IsPlaying implements Player.
func (m *MockPlayer) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Close implements Player.
func (m *MockPlayer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	m.closed = true
	return nil
}

// PlayCount returns how many clips were played.
func (m *MockPlayer) PlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCount
}

// LastClip returns the bytes of the most recently played clip.
func (m *MockPlayer) LastClip() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastClip
}
