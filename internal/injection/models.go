package injection

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Selector represents one CSS-selector-to-placeholder mapping within an
// Injection. The CSS expression is free-form user input; it is evaluated by
// the server, never locally.
type Selector struct {
	ID          string `json:"id"`          // Opaque stable identifier, generated client-side
	Label       string `json:"label"`       // Placeholder name referenced by templates
	CSSSelector string `json:"cssSelector"` // CSS selector expression applied to the scraped page
}

// Injection represents one "source field -> extracted placeholders" rule.
// The selector order is significant: it reflects display order and is
// preserved on save.
type Injection struct {
	ID          string     `json:"id"`          // Opaque stable identifier, generated client-side
	SourceField string     `json:"sourceField"` // Which part of the upstream article this rule reads from
	Selectors   []Selector `json:"selectors"`   // Ordered, never empty
}

// NewSelector creates a blank selector with a freshly generated id.
// The id stays with the selector for its whole lifetime and is sent back to
// the server on save.
func NewSelector() Selector {
	return Selector{ID: uuid.NewString()}
}

// NewInjection creates an injection for the given source field with exactly
// one blank selector, matching what the form shows right after "add".
func NewInjection(sourceField string) Injection {
	return Injection{
		ID:          uuid.NewString(),
		SourceField: sourceField,
		Selectors:   []Selector{NewSelector()},
	}
}

// AppendSelector appends a blank selector with a fresh id to the end of the
// sequence and returns it.
func (inj *Injection) AppendSelector() Selector {
	sel := NewSelector()
	inj.Selectors = append(inj.Selectors, sel)
	return sel
}

// RemoveSelector removes the selector at index. It refuses to remove the
// last remaining selector: every injection must keep at least one row.
// Returns true if a selector was removed.
func (inj *Injection) RemoveSelector(index int) bool {
	if len(inj.Selectors) <= 1 {
		return false
	}
	if index < 0 || index >= len(inj.Selectors) {
		return false
	}
	inj.Selectors = append(inj.Selectors[:index], inj.Selectors[index+1:]...)
	return true
}

// PreviewInjection returns a synthetic single-selector injection for the
// preview renderer, carrying the parent's id and source field but only the
// selector at index.
func (inj Injection) PreviewInjection(index int) Injection {
	if index < 0 || index >= len(inj.Selectors) {
		return Injection{ID: inj.ID, SourceField: inj.SourceField}
	}
	return Injection{
		ID:          inj.ID,
		SourceField: inj.SourceField,
		Selectors:   []Selector{inj.Selectors[index]},
	}
}

// Clone returns a deep copy of inj, including its selector slice.
func (inj Injection) Clone() Injection {
	out := inj
	out.Selectors = make([]Selector, len(inj.Selectors))
	copy(out.Selectors, inj.Selectors)
	return out
}

// CloneAll deep-copies a full injections list. Used for the dirty baseline
// and the submit snapshot: the copy must not alias the live form state. The
// result is never nil, so a snapshot of an emptied form still serializes as
// an empty JSON array rather than disappearing from the payload.
func CloneAll(injections []Injection) []Injection {
	out := make([]Injection, len(injections))
	for i, inj := range injections {
		out[i] = inj.Clone()
	}
	return out
}

// Equal reports whether two injection lists are identical, including order.
func Equal(a, b []Injection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].SourceField != b[i].SourceField {
			return false
		}
		if len(a[i].Selectors) != len(b[i].Selectors) {
			return false
		}
		for j := range a[i].Selectors {
			if a[i].Selectors[j] != b[i].Selectors[j] {
				return false
			}
		}
	}
	return true
}

// String returns a one-line summary of the injection, for logs.
func (inj Injection) String() string {
	labels := make([]string, len(inj.Selectors))
	for i, sel := range inj.Selectors {
		labels[i] = sel.Label
	}
	return fmt.Sprintf("injection %s (%s -> %s)", inj.ID, inj.SourceField, strings.Join(labels, ", "))
}
