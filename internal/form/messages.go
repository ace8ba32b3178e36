package form

import (
	"github.com/hollis/feedform/internal/feedapi"
	"github.com/hollis/feedform/internal/injection"
	"github.com/hollis/feedform/internal/preview"
)

// submitResultMsg is delivered when the asynchronous feed update
// finishes. snapshot holds the injections exactly as they were sent,
// so a success can promote them to the new saved baseline.
type submitResultMsg struct {
	feed     *feedapi.Feed
	snapshot []injection.Injection
	err      error
}

// previewResultMsg is delivered when a selector row's preview render
// finishes. Rows are addressed by selector id so the result survives
// rows being reordered or removed while the render was in flight.
type previewResultMsg struct {
	selectorID string
	renderKey  string
	preview    *preview.Preview
	err        error
}

// AddInjectionMsg asks the form to append a new injection for the
// given source field. The built-in prompt sends it on enter; an
// embedding program may send it directly.
type AddInjectionMsg struct {
	SourceField string
}
