// Package preview carries selector rules to the feedd live-preview endpoint
// and returns the rendered placeholder snippets.
//
// All selector evaluation happens server-side: the server fetches (or has
// cached) the page behind the feed's latest article, applies the CSS
// selectors, and streams back one snippet per placeholder label. This
// package only moves the rule over and the render back, over a websocket.
//
// The Renderer interface keeps the form decoupled from the transport; tests
// substitute an in-memory renderer.
package preview
