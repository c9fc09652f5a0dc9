package clone

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	// predictPath is the fixed prediction route on the inference endpoint.
	predictPath = "/api/predict"

	// DefaultEndpoint is the hosted XTTS-v2 cloner space. Replaceable via
	// configuration; nothing secret lives here.
	DefaultEndpoint = "https://dgnsrekt-xtts-voice-cloner.hf.space"

	// DefaultTimeout bounds the whole synthesis round trip. Cloning a
	// voice on free CPU hardware is slow, so this is generous.
	DefaultTimeout = 5 * time.Minute

	// defaultRequestsPerMinute keeps a trigger-happy user from hammering
	// the shared endpoint.
	defaultRequestsPerMinute = 10
)

// ClientConfig holds configuration for the synthesis client.
type ClientConfig struct {
	// Endpoint is the base URL of the remote inference service.
	Endpoint string

	// Timeout for the full round trip. Defaults to DefaultTimeout.
	Timeout time.Duration

	// RequestsPerMinute rate-limits synthesis attempts. Defaults to 10.
	RequestsPerMinute int
}

// Client issues single-shot synthesis calls against a Gradio-style
// prediction endpoint. It implements Synthesizer.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a synthesis client for the configured endpoint.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: %w", cfg.Endpoint, ErrNoEndpoint)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = defaultRequestsPerMinute
	}

	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
	}, nil
}

// Endpoint returns the configured endpoint base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// predictRequest is the Gradio prediction payload: an ordered argument
// list of script text, file payload, and language code.
type predictRequest struct {
	Data [3]any `json:"data"`
}

// filePayload carries the reference sample as a base64 data URI, the way
// the Gradio JS client uploads files inline.
type filePayload struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// predictResponse is the response envelope: an ordered sequence of at
// most two optional slots, [successDescriptor?, errorMessage?].
type predictResponse struct {
	Data []json.RawMessage `json:"data"`
}

// resultDescriptor is slot 0 of a successful response.
type resultDescriptor struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Synthesize performs exactly one network round trip: one attempt, no
// retries. Every failure mode collapses into a Failure outcome; transport
// details are logged at debug level only, never surfaced to the user.
func (c *Client) Synthesize(ctx context.Context, req Request) Outcome {
	if err := c.limiter.Wait(ctx); err != nil {
		log.Debug("rate limit wait canceled", "err", err)
		return Failure(MsgConnectFailed)
	}

	body, err := json.Marshal(predictRequest{
		Data: [3]any{
			req.Script,
			filePayload{Name: req.ReferenceName, Data: encodeReference(req)},
			req.Language.String(),
		},
	})
	if err != nil {
		log.Debug("encoding prediction request failed", "err", err)
		return Failure(MsgConnectFailed)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+predictPath, bytes.NewReader(body))
	if err != nil {
		log.Debug("building prediction request failed", "err", err)
		return Failure(MsgConnectFailed)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug("synthesis request failed", "endpoint", c.endpoint, "err", err)
		return Failure(MsgConnectFailed)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		log.Debug("synthesis endpoint returned non-OK status", "status", resp.StatusCode)
		return Failure(MsgConnectFailed)
	}

	var envelope predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		log.Debug("malformed synthesis response", "err", err)
		return Failure(MsgConnectFailed)
	}

	return c.interpret(envelope)
}

// interpret maps the response envelope onto an Outcome. Both slots are
// validated defensively: a populated slot 0 wins, then a populated slot 1,
// and an envelope with neither is its own explicit failure rather than a
// silent no-op.
func (c *Client) interpret(envelope predictResponse) Outcome {
	if desc, ok := decodeResult(envelope, 0); ok {
		switch {
		case desc.URL != "":
			return Success(desc.URL)
		case desc.Name != "":
			// Older Gradio servers return only the server-side file
			// name; it is retrievable under the file route.
			return Success(c.endpoint + "/file=" + desc.Name)
		}
	}

	if msg, ok := decodeError(envelope, 1); ok {
		return Failure(msg)
	}

	return Failure(MsgNoResult)
}

func decodeResult(envelope predictResponse, slot int) (resultDescriptor, bool) {
	raw, ok := slotValue(envelope, slot)
	if !ok {
		return resultDescriptor{}, false
	}
	var desc resultDescriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		log.Debug("unreadable success descriptor", "err", err)
		return resultDescriptor{}, false
	}
	return desc, true
}

func decodeError(envelope predictResponse, slot int) (string, bool) {
	raw, ok := slotValue(envelope, slot)
	if !ok {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Debug("unreadable error slot", "err", err)
		return "", false
	}
	return msg, msg != ""
}

// slotValue returns the raw JSON for a slot, treating missing slots and
// JSON null as equally absent.
func slotValue(envelope predictResponse, slot int) (json.RawMessage, bool) {
	if slot >= len(envelope.Data) {
		return nil, false
	}
	raw := envelope.Data[slot]
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

// encodeReference packs the reference sample into a data URI.
func encodeReference(req Request) string {
	mimeType := mime.TypeByExtension(filepath.Ext(req.ReferenceName))
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(req.ReferenceData)
}
