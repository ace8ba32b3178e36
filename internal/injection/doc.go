// Package injection defines the article-injection data model and the
// client-side validation schema that gates submission.
//
// An injection is a rule that maps one source field of an upstream article
// (title, link, content, ...) to one or more placeholders, each extracted
// from the scraped page by a CSS selector. The placeholders are substituted
// into templates elsewhere in the system; nothing in this package evaluates
// a selector.
//
// # Identity
//
// Injections and selectors are created client-side with collision-resistant
// random ids (UUID v4). The id is generated once, never recomputed, and is
// sent back to the server on save so existing rules keep their identity
// across edits. UI state (preview toggles, accordion position) is keyed by
// these ids rather than by slice position.
//
// # Validation
//
// Validate runs synchronously against the full form state before any remote
// call. It enforces:
//   - non-empty id and sourceField per injection, at least one selector
//   - non-empty id, cssSelector and label per selector
//   - labels pairwise distinct within their injection (case-sensitive);
//     the same label may appear in different injections
//
// Errors carry indexed field paths ("injections[0].selectors[1].label") so
// the form can attach each message to the exact field that caused it.
package injection
