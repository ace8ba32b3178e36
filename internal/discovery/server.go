package discovery

import (
	"fmt"
	"time"
)

// Server represents a feedd instance discovered on the local network
type Server struct {
	// Name is the mDNS instance name (e.g., "feedd on study-pi")
	Name string

	// Hostname is the mDNS hostname (e.g., "study-pi.local.")
	Hostname string

	// IP is the IPv4 address (IPv6 as a fallback)
	IP string

	// Port is the HTTP API port
	Port int

	// Version is the server version advertised in the TXT records, if any
	Version string

	// Metadata contains the remaining mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the instance was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	return fmt.Sprintf("feedd %q at %s:%d", s.Name, s.IP, s.Port)
}

// BaseURL returns the HTTP base URL for the server's API
func (s *Server) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", s.IP, s.Port)
}

// GetMetadata retrieves a TXT record value by key, or returns empty string
// if not present
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
