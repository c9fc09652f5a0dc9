package clone

import "path/filepath"

// ReferenceExtensions are the audio formats accepted for the reference
// sample. The remote model resamples internally, so no deeper format
// validation happens client-side.
var ReferenceExtensions = []string{".wav", ".mp3", ".flac", ".ogg", ".m4a"}

// Validate checks the submission gate and returns the first violation.
// The gate is re-checked at the start of every Generate call because the
// input can change between UI enablement and invocation (for example the
// reference file disappearing from disk).
func (i Input) Validate() error {
	if i.Script == "" {
		return ErrScriptEmpty
	}
	if i.Reference == nil {
		return ErrReferenceMissing
	}
	return nil
}

// AcceptableReference reports whether a filename carries one of the
// supported reference-audio extensions.
func AcceptableReference(name string) bool {
	ext := filepath.Ext(name)
	for _, allowed := range ReferenceExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
