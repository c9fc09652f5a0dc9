// Package utils provides small path helpers shared across the app.
package utils

import (
	homedir "github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading tilde in the given path. On failure the
// path is returned unchanged.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return s
}
