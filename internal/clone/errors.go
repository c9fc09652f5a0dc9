package clone

import "errors"

// Common errors for the generation lifecycle.
var (
	// Validation errors, detected before any remote call.
	ErrScriptEmpty      = errors.New("script text is empty")
	ErrReferenceMissing = errors.New("reference audio is missing")

	// Controller errors.
	ErrGenerationInFlight = errors.New("a generation is already in flight")

	// Client configuration errors.
	ErrNoEndpoint          = errors.New("synthesis endpoint is not configured")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Fixed user-facing messages for failures the user cannot act on beyond
// retrying. Raw transport errors go to the debug log, never the screen.
const (
	MsgConnectFailed = "Failed to connect to remote synthesis endpoint"
	MsgNoResult      = "no result returned from synthesis endpoint"
)

// IsValidationError reports whether err was raised by the local submission
// gate rather than by the remote call.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrScriptEmpty) || errors.Is(err, ErrReferenceMissing)
}
