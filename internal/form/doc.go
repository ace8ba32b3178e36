// Package form implements the interactive article injections editor.
//
// The form is a Bubble Tea model. Its single source of truth is a
// working copy of the feed's injections; text inputs, the accordion
// and per-row preview toggles are presentation state layered on top
// and keyed by stable entry ids. A deep copy of the last saved
// injections serves as the dirty baseline: it is replaced only when a
// save round-trips successfully, so a failed save leaves both the
// working copy and the baseline exactly as they were.
//
// Validation runs locally before every save. A submit with validation
// errors never reaches the network; the messages are attached to the
// offending fields and cleared as the user edits them.
package form
