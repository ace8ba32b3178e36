package config

import "time"

// Registry represents the entire user configuration file. It stores the
// known feedd servers and client-side preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Servers     map[string]*Server `yaml:"servers,omitempty"` // Keyed by nickname
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Server represents one known feedd instance.
type Server struct {
	BaseURL  string    `yaml:"base_url"`            // API base URL (e.g., "http://study-pi.local:8080")
	TokenEnv string    `yaml:"token_env,omitempty"` // Environment variable holding the API token
	LastFeed string    `yaml:"last_feed,omitempty"` // Feed id last opened in the injections form
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last successful connection or discovery
}

// Preferences represents client-side preferences. Display preferences for
// dates live on the server user record; these only control this tool.
type Preferences struct {
	DefaultServer   string `yaml:"default_server,omitempty"` // Nickname used when --server is omitted
	AutoDiscover    bool   `yaml:"auto_discover"`            // Run mDNS discovery when no server is configured
	DiscoverTimeout int    `yaml:"discover_timeout"`         // mDNS discovery timeout in seconds
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Servers: make(map[string]*Server),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 5,
		},
	}
}

// DefaultServer returns the configured default server, or any single known
// server when exactly one exists. Returns nil when the choice is ambiguous.
func (r *Registry) DefaultServer() *Server {
	if r.Preferences != nil && r.Preferences.DefaultServer != "" {
		if s, ok := r.Servers[r.Preferences.DefaultServer]; ok {
			return s
		}
	}
	if len(r.Servers) == 1 {
		for _, s := range r.Servers {
			return s
		}
	}
	return nil
}

// RememberServer records a server under the given nickname, updating the
// last-seen timestamp. Call Save afterwards to persist.
func (r *Registry) RememberServer(nickname, baseURL string) *Server {
	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}
	s, ok := r.Servers[nickname]
	if !ok {
		s = &Server{}
		r.Servers[nickname] = s
	}
	s.BaseURL = baseURL
	s.LastSeen = time.Now()
	return s
}
