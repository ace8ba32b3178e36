package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hollis/feedform/internal/injection"
	"github.com/hollis/feedform/internal/preview"
)

// rowField identifies which input of a selector row has focus.
type rowField int

const (
	fieldLabel rowField = iota
	fieldCSS
)

// fieldsPerRow is the number of focusable inputs in a selector row.
const fieldsPerRow = 2

// selectorRow holds the editable inputs and preview state for one
// selector. The selector itself lives in the form's injection slice;
// the row only mirrors it for display and editing.
type selectorRow struct {
	labelInput textinput.Model
	cssInput   textinput.Model

	previewOn  bool
	preview    *preview.Preview
	previewErr error
	previewKey string // inputs the current preview was rendered from
}

func newSelectorRow(sel injection.Selector) *selectorRow {
	label := textinput.New()
	label.Placeholder = "placeholder label"
	label.CharLimit = 64
	label.Width = 24
	label.SetValue(sel.Label)

	css := textinput.New()
	css.Placeholder = "CSS selector"
	css.CharLimit = 256
	css.Width = 40
	css.SetValue(sel.CSSSelector)

	return &selectorRow{labelInput: label, cssInput: css}
}

// syncTo copies the input values back into the selector. The injection
// slice stays the single source of truth for validation and submit.
func (r *selectorRow) syncTo(sel *injection.Selector) {
	sel.Label = strings.TrimSpace(r.labelInput.Value())
	sel.CSSSelector = strings.TrimSpace(r.cssInput.Value())
}

// previewKeyFor derives the identity of a render: if none of these
// inputs changed since the last render, the cached preview is reused.
func previewKeyFor(sourceField string, sel injection.Selector) string {
	return fmt.Sprintf("%s\x00%s\x00%s", sourceField, sel.CSSSelector, sel.Label)
}

func (r *selectorRow) focus(f rowField) tea.Cmd {
	r.blur()
	switch f {
	case fieldLabel:
		return r.labelInput.Focus()
	case fieldCSS:
		return r.cssInput.Focus()
	}
	return nil
}

func (r *selectorRow) blur() {
	r.labelInput.Blur()
	r.cssInput.Blur()
}

// update routes a message to whichever input is focused.
func (r *selectorRow) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if r.labelInput.Focused() {
		r.labelInput, cmd = r.labelInput.Update(msg)
	} else if r.cssInput.Focused() {
		r.cssInput, cmd = r.cssInput.Update(msg)
	}
	return cmd
}

// viewPreview renders the preview box below a row, or nothing when the
// preview is off.
func (r *selectorRow) viewPreview() string {
	if !r.previewOn {
		return ""
	}
	var body string
	switch {
	case r.previewErr != nil:
		body = PreviewErrStyle.Render("preview failed: " + r.previewErr.Error())
	case r.preview == nil:
		body = "rendering..."
	default:
		lines := make([]string, 0, len(r.preview.Placeholders))
		for label, value := range r.preview.Placeholders {
			lines = append(lines, fmt.Sprintf("{%s} → %s", label, value))
		}
		if len(lines) == 0 {
			lines = append(lines, "no matches")
		}
		body = strings.Join(lines, "\n")
	}
	return PreviewBoxStyle.Render(body)
}
