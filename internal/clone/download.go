package clone

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// SuggestedFilename is the fixed name the synthesized audio is saved
// under when downloaded.
const SuggestedFilename = "cloned_voice.wav"

// Fetch retrieves the synthesized audio resource for in-place playback.
func (c *Client) Fetch(ctx context.Context, resourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching synthesized audio: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching synthesized audio: HTTP status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading synthesized audio: %w", err)
	}
	return data, nil
}

// Download saves the synthesized audio resource under SuggestedFilename
// in dir, returning the written path and byte count.
func (c *Client) Download(ctx context.Context, resourceURL, dir string) (string, int64, error) {
	data, err := c.Fetch(ctx, resourceURL)
	if err != nil {
		return "", 0, err
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", 0, fmt.Errorf("creating output directory: %w", err)
		}
	}

	path := filepath.Join(dir, SuggestedFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return path, int64(len(data)), nil
}
