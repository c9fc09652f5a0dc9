package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Endpoint is the remote inference endpoint base URL.
	Endpoint string

	// Language is the initial target language code.
	Language string

	// ReferencePath pre-selects a reference audio file.
	ReferencePath string

	// OutputDir is where downloads land.
	OutputDir string

	// Script pre-fills the script text area.
	Script string

	EnableMouse bool

	HomeDir string `env:"HOME"`

	// For debugging the UI.
	Debug bool `env:"VOXCLONE_DEBUG"`
}
