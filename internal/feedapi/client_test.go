package feedapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hollis/feedform/internal/injection"
)

const mockFeedResult = `{"result":{"id":"f-12","title":"Example Blog","url":"https://example.com/feed.xml","disabled":false,"injectionsEligible":true,"articleInjections":[{"id":"inj-1","sourceField":"title","selectors":[{"id":"sel-1","label":"img","cssSelector":"img"}]}]}}`

const mockUserResult = `{"result":{"id":"u-1","login":"dana","email":"dana@example.com","preferences":{"alertOnDisabledFeed":true,"dateFormat":"2006-01-02","dateTimezone":"Europe/Berlin","dateLocale":"de-DE"}}}`

func newTestClient(serverURL string) *Client {
	c := NewClient(serverURL, "test-token")
	c.SetRetry(0, time.Millisecond)
	return c
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://feedd.local:8080", "tok")

	if client.BaseURL != "http://feedd.local:8080" {
		t.Errorf("BaseURL = %s, want http://feedd.local:8080", client.BaseURL)
	}
	if client.Token != "tok" {
		t.Errorf("Token = %s, want tok", client.Token)
	}
	if client.HTTPClient == nil {
		t.Error("HTTPClient should not be nil")
	}
	if client.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", client.MaxRetries, DefaultMaxRetries)
	}
}

func TestUpdateFeed_Success(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mockFeedResult))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	injections := []injection.Injection{
		{
			ID:          "inj-1",
			SourceField: "title",
			Selectors: []injection.Selector{
				{ID: "sel-1", Label: "img", CSSSelector: "img"},
				{ID: "sel-2", Label: "link", CSSSelector: "a"},
			},
		},
	}
	update := &FeedUpdate{ArticleInjections: &injections}

	feed, err := client.UpdateFeed("f-12", update)
	if err != nil {
		t.Fatalf("UpdateFeed failed: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
	if gotPath != "/api/v1/feeds/f-12" {
		t.Errorf("path = %s, want /api/v1/feeds/f-12", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}

	// The wire payload must carry the articleInjections list in order, and
	// nothing else for a pure injections update.
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if len(payload) != 1 {
		t.Errorf("payload has %d fields, want only articleInjections: %s", len(payload), gotBody)
	}
	var sent []injection.Injection
	if err := json.Unmarshal(payload["articleInjections"], &sent); err != nil {
		t.Fatalf("articleInjections missing or malformed: %v", err)
	}
	if len(sent) != 1 || len(sent[0].Selectors) != 2 {
		t.Fatalf("unexpected payload shape: %+v", sent)
	}
	if sent[0].Selectors[0].Label != "img" || sent[0].Selectors[1].Label != "link" {
		t.Errorf("selector order not preserved: %+v", sent[0].Selectors)
	}

	if feed.ID != "f-12" {
		t.Errorf("feed.ID = %s, want f-12", feed.ID)
	}
	if !feed.InjectionsEligible {
		t.Error("feed.InjectionsEligible should be true")
	}
}

func TestUpdateFeed_EmptyInjectionsListIsSerialized(t *testing.T) {
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"result":{"id":"f-12","title":"Example Blog","url":"https://example.com/feed.xml","disabled":false,"injectionsEligible":true,"articleInjections":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	empty := injection.CloneAll(nil)
	feed, err := client.UpdateFeed("f-12", &FeedUpdate{ArticleInjections: &empty})
	if err != nil {
		t.Fatalf("UpdateFeed failed: %v", err)
	}

	// Removing the last injection is a change the server must see: the
	// emptied list has to survive serialization as [] instead of being
	// dropped from the partial body.
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	raw, ok := payload["articleInjections"]
	if !ok {
		t.Fatalf("articleInjections dropped from the PATCH body: %s", gotBody)
	}
	if string(raw) != "[]" {
		t.Errorf("articleInjections = %s, want []", raw)
	}

	if len(feed.ArticleInjections) != 0 {
		t.Errorf("feed result should round-trip the emptied list, got %+v", feed.ArticleInjections)
	}
}

func TestUpdateFeed_MissingResultIsSchemaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.UpdateFeed("f-12", &FeedUpdate{})
	if err == nil {
		t.Fatal("expected schema error for missing result field")
	}
	if !IsSchemaError(err) {
		t.Errorf("expected schema error, got %v", err)
	}
}

func TestUpdateFeed_MalformedResultIsSchemaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Result present but the feed identity is blank.
		_, _ = w.Write([]byte(`{"result":{"title":"No id"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.UpdateFeed("f-12", &FeedUpdate{})
	if !IsSchemaError(err) {
		t.Errorf("expected schema error, got %v", err)
	}
}

func TestUpdateFeed_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "feed not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.UpdateFeed("missing", &FeedUpdate{})
	if !IsHTTPError(err) {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %v", err)
	}
	if IsRetryable(err) {
		t.Error("4xx errors must not be retryable")
	}
}

func TestUpdateFeed_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.UpdateFeed("f-12", &FeedUpdate{})
	if !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestUpdateFeed_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(mockFeedResult))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	client.SetRetry(3, time.Millisecond)
	client.UseExponentialBackoff = false

	feed, err := client.UpdateFeed("f-12", &FeedUpdate{})
	if err != nil {
		t.Fatalf("UpdateFeed should succeed after retries: %v", err)
	}
	if feed.ID != "f-12" {
		t.Errorf("feed.ID = %s, want f-12", feed.ID)
	}
	if calls.Load() != 3 {
		t.Errorf("server saw %d calls, want 3", calls.Load())
	}
}

func TestUpdateFeed_TransportError(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.UpdateFeed("f-12", &FeedUpdate{})
	if !IsNetworkError(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestGetFeed_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/v1/feeds/f-12" {
			t.Errorf("path = %s, want /api/v1/feeds/f-12", r.URL.Path)
		}
		_, _ = w.Write([]byte(mockFeedResult))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	feed, err := client.GetFeed("f-12")
	if err != nil {
		t.Fatalf("GetFeed failed: %v", err)
	}
	if len(feed.ArticleInjections) != 1 {
		t.Fatalf("got %d injections, want 1", len(feed.ArticleInjections))
	}
	if feed.ArticleInjections[0].Selectors[0].CSSSelector != "img" {
		t.Errorf("unexpected selector: %+v", feed.ArticleInjections[0].Selectors[0])
	}
}

func TestUpdateUserPreferences_Success(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(mockUserResult))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	alert := true
	format := "2006-01-02"
	user, err := client.UpdateUserPreferences(&UserPreferencesUpdate{
		AlertOnDisabledFeed: &alert,
		DateFormat:          &format,
	})
	if err != nil {
		t.Fatalf("UpdateUserPreferences failed: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
	if gotPath != "/api/v1/user" {
		t.Errorf("path = %s, want /api/v1/user", gotPath)
	}

	// Unset fields stay out of the partial body.
	var payload map[string]any
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if len(payload) != 2 {
		t.Errorf("payload has %d fields, want 2: %s", len(payload), gotBody)
	}
	if _, present := payload["dateTimezone"]; present {
		t.Error("unset dateTimezone must not be serialized")
	}

	if user.Login != "dana" {
		t.Errorf("user.Login = %s, want dana", user.Login)
	}
	if !user.Preferences.AlertOnDisabledFeed {
		t.Error("preferences should round-trip from the result envelope")
	}
}

func TestUpdateUserPreferences_MissingResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.UpdateUserPreferences(&UserPreferencesUpdate{})
	if !IsSchemaError(err) {
		t.Errorf("expected schema error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr func(error) bool
	}{
		{"healthy", http.StatusOK, nil},
		{"unauthorized", http.StatusUnauthorized, IsAuthError},
		{"server error", http.StatusInternalServerError, IsHTTPError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != pingPath {
					t.Errorf("path = %s, want %s", r.URL.Path, pingPath)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := newTestClient(server.URL).Ping()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Ping failed: %v", err)
				}
				return
			}
			if !tt.wantErr(err) {
				t.Errorf("unexpected error type: %v", err)
			}
		})
	}
}
