// Package discovery finds feedd instances on the local network via mDNS.
//
// Self-hosted feedd servers advertise themselves as "_feedd._tcp" services.
// The scanner browses for those advertisements and returns the instances it
// hears from within the timeout, with the API port and any TXT metadata
// (notably "version").
//
// Discovery is best-effort: an empty result usually means no instance is
// advertising on this network segment, not that the scan failed.
package discovery
