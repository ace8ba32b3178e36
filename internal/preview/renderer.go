package preview

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hollis/feedform/internal/injection"
)

// DefaultHandshakeTimeout bounds the websocket dial
const DefaultHandshakeTimeout = 10 * time.Second

// DefaultRenderTimeout bounds a single render round-trip
const DefaultRenderTimeout = 20 * time.Second

// Preview is the rendered output for one injection, keyed by placeholder
// label. The snippets are opaque to feedform; the server already evaluated
// the CSS selectors against the scraped page.
type Preview struct {
	InjectionID  string            `json:"injectionId"`
	Placeholders map[string]string `json:"placeholders"`
}

// Renderer renders a preview for an injection. The form passes synthetic
// single-selector injections so each row previews independently.
type Renderer interface {
	Render(inj injection.Injection) (*Preview, error)
}

// request is the wire format sent to the preview endpoint.
type request struct {
	FeedID    string              `json:"feedId"`
	Injection injection.Injection `json:"injection"`
}

// response is the wire format received from the preview endpoint.
type response struct {
	Result *Preview `json:"result"`
	Error  string   `json:"error,omitempty"`
}

// WSRenderer renders previews over a websocket connection to the feedd
// preview endpoint. Each Render call performs one dial/request/response
// round-trip; previews are occasional enough that holding a connection
// open is not worth the reconnect handling.
type WSRenderer struct {
	// URL is the websocket endpoint (e.g., "ws://feedd.local:8080/api/v1/preview")
	URL string

	// Token is the bearer token used during the websocket handshake
	Token string

	// FeedID identifies the feed whose latest article the server renders
	// the selectors against
	FeedID string

	// Dialer is the underlying websocket dialer
	Dialer *websocket.Dialer

	// RenderTimeout bounds the wait for the server's response
	RenderTimeout time.Duration
}

// NewWSRenderer creates a renderer for the given API base URL and feed.
// The base URL uses the http/https scheme; it is rewritten to ws/wss.
func NewWSRenderer(baseURL, token, feedID string) *WSRenderer {
	return &WSRenderer{
		URL:    wsURL(baseURL) + "/api/v1/preview",
		Token:  token,
		FeedID: feedID,
		Dialer: &websocket.Dialer{
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
		RenderTimeout: DefaultRenderTimeout,
	}
}

// wsURL rewrites an http(s) base URL to its websocket equivalent.
func wsURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}

// Render sends the injection to the preview endpoint and waits for the
// rendered placeholders.
func (r *WSRenderer) Render(inj injection.Injection) (*Preview, error) {
	header := http.Header{}
	if r.Token != "" {
		header.Set("Authorization", "Bearer "+r.Token)
	}

	conn, _, err := r.Dialer.Dial(r.URL, header)
	if err != nil {
		return nil, fmt.Errorf("preview dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetWriteDeadline(time.Now().Add(r.RenderTimeout)); err != nil {
		return nil, fmt.Errorf("preview deadline: %w", err)
	}
	if err := conn.WriteJSON(request{FeedID: r.FeedID, Injection: inj}); err != nil {
		return nil, fmt.Errorf("preview request failed: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(r.RenderTimeout)); err != nil {
		return nil, fmt.Errorf("preview deadline: %w", err)
	}
	var resp response
	if err := conn.ReadJSON(&resp); err != nil {
		return nil, fmt.Errorf("preview response failed: %w", err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("preview render failed: %s", resp.Error)
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("preview response is missing the result field")
	}
	return resp.Result, nil
}
