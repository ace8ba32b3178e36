package feedapi

import (
	"fmt"

	"github.com/hollis/feedform/internal/injection"
)

// Feed represents a subscribed feed as returned by the server. This is the
// full schema the PATCH response envelope is validated against.
type Feed struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`               // Feed source URL
	SiteURL  string `json:"siteUrl,omitempty"` // Link target of the feed
	Disabled bool   `json:"disabled"`          // Fetching paused server-side

	// InjectionsEligible reports whether this feed may have article
	// injections configured. The form uses it purely as a UI gate: when
	// false, adding new injections is disabled but existing ones stay
	// editable.
	InjectionsEligible bool `json:"injectionsEligible"`

	ArticleInjections []injection.Injection `json:"articleInjections"`
}

// FeedUpdate is a partial feed object sent as a PATCH body. Only non-nil
// fields are serialized; the injections form only ever sets
// ArticleInjections. The injections field is a slice pointer so that an
// emptied list is sent as [] instead of vanishing from the body - removing
// the last injection is a change the server must see.
type FeedUpdate struct {
	Title             *string                `json:"title,omitempty"`
	Disabled          *bool                  `json:"disabled,omitempty"`
	ArticleInjections *[]injection.Injection `json:"articleInjections,omitempty"`
}

// UserPreferences holds the display preferences stored on the user record.
type UserPreferences struct {
	AlertOnDisabledFeed bool   `json:"alertOnDisabledFeed"` // Notify when a feed gets disabled
	DateFormat          string `json:"dateFormat"`          // e.g. "2006-01-02 15:04"
	DateTimezone        string `json:"dateTimezone"`        // IANA zone name
	DateLocale          string `json:"dateLocale"`          // BCP 47 tag
}

// User represents the current user as returned by the server.
type User struct {
	ID          string          `json:"id"`
	Login       string          `json:"login"`
	Email       string          `json:"email,omitempty"`
	Preferences UserPreferences `json:"preferences"`
}

// UserPreferencesUpdate is a partial preferences object sent as a PATCH
// body to the current-user resource. Only non-nil fields are serialized.
type UserPreferencesUpdate struct {
	AlertOnDisabledFeed *bool   `json:"alertOnDisabledFeed,omitempty"`
	DateFormat          *string `json:"dateFormat,omitempty"`
	DateTimezone        *string `json:"dateTimezone,omitempty"`
	DateLocale          *string `json:"dateLocale,omitempty"`
}

// feedEnvelope is the response wrapper for feed resources. The server wraps
// every mutation response in a "result" field.
type feedEnvelope struct {
	Result *Feed `json:"result"`
}

// userEnvelope is the response wrapper for the current-user resource.
type userEnvelope struct {
	Result *User `json:"result"`
}

// validateFeed checks a decoded feed against the expected schema. A missing
// envelope or blank identity means the server response cannot be trusted and
// the call fails as a schema error.
func validateFeed(feed *Feed) error {
	if feed == nil {
		return NewSchemaError("response is missing the result field", nil)
	}
	if feed.ID == "" {
		return NewSchemaError("feed result has an empty id", nil)
	}
	for i, inj := range feed.ArticleInjections {
		if inj.ID == "" {
			return NewSchemaError(fmt.Sprintf("feed result injection %d has an empty id", i), nil)
		}
		for j, sel := range inj.Selectors {
			if sel.ID == "" {
				return NewSchemaError(fmt.Sprintf("feed result injection %d selector %d has an empty id", i, j), nil)
			}
		}
	}
	return nil
}

// validateUser checks a decoded user against the expected schema.
func validateUser(user *User) error {
	if user == nil {
		return NewSchemaError("response is missing the result field", nil)
	}
	if user.ID == "" || user.Login == "" {
		return NewSchemaError("user result has an empty identity", nil)
	}
	return nil
}
