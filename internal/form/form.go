package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hollis/feedform/internal/feedapi"
	"github.com/hollis/feedform/internal/injection"
	"github.com/hollis/feedform/internal/logging"
	"github.com/hollis/feedform/internal/preview"
)

// FeedUpdater persists the edited injections. *feedapi.Client
// satisfies it; tests substitute a fake.
type FeedUpdater interface {
	UpdateFeed(feedID string, update *feedapi.FeedUpdate) (*feedapi.Feed, error)
}

// IneligibleNotice explains a disabled add-injection action.
const IneligibleNotice = "This feed is not eligible for article injections. Enable full content fetching for the feed first."

// Model is the article injections form. It owns the working copy of
// the feed's injections (the single source of truth for edits,
// validation and submit) plus the saved baseline used for dirty
// tracking. Everything else - accordion state, focus, preview
// toggles - is presentation and never leaves this package.
type Model struct {
	feedID   string
	updater  FeedUpdater
	renderer preview.Renderer // nil disables previews

	injections []injection.Injection
	baseline   []injection.Injection
	groups     map[string]*group // keyed by injection id

	active   int // expanded injection, -1 when all collapsed
	focusSel int // focused selector index within the active injection
	focusFld rowField

	eligible   bool
	errors     map[string]string // validation messages by field path
	submitting bool

	notification string
	notifyErr    bool

	adding      bool // source field prompt visible
	sourceInput textinput.Model

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	done    bool
}

// New builds a form for the given feed. The feed itself is not
// mutated; the form works on deep copies until a submit succeeds.
func New(feed *feedapi.Feed, updater FeedUpdater, renderer preview.Renderer) Model {
	source := textinput.New()
	source.Placeholder = "source field (e.g. content)"
	source.CharLimit = 64
	source.Width = 32

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	m := Model{
		feedID:      feed.ID,
		updater:     updater,
		renderer:    renderer,
		injections:  injection.CloneAll(feed.ArticleInjections),
		baseline:    injection.CloneAll(feed.ArticleInjections),
		groups:      make(map[string]*group, len(feed.ArticleInjections)),
		active:      -1,
		eligible:    feed.InjectionsEligible,
		sourceInput: source,
		spinner:     sp,
		help:        help.New(),
		keys:        defaultKeyMap(),
		width:       GetTerminalWidth(),
	}
	for _, inj := range m.injections {
		m.groups[inj.ID] = newGroup(inj)
	}
	if len(m.injections) > 0 {
		m.active = 0
	}
	return m
}

// Dirty reports whether the working copy differs from the last saved
// baseline.
func (m Model) Dirty() bool {
	return !injection.Equal(m.injections, m.baseline)
}

// Injections returns the current working copy.
func (m Model) Injections() []injection.Injection {
	return m.injections
}

// Errors returns the validation messages from the last rejected
// submit, keyed by field path.
func (m Model) Errors() map[string]string {
	return m.errors
}

// Submitting reports whether a save is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.active >= 0 && len(m.injections[m.active].Selectors) > 0 {
		// focus the first field of the first injection
		sel := m.injections[m.active].Selectors[0]
		if row := m.groups[m.injections[m.active].ID].row(sel.ID); row != nil {
			return tea.Batch(textinput.Blink, row.focus(fieldLabel))
		}
	}
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width > MaxContentWidth {
			m.width = MaxContentWidth
		}
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitResultMsg:
		return m.handleSubmitResult(msg)

	case previewResultMsg:
		m.handlePreviewResult(msg)
		return m, nil

	case AddInjectionMsg:
		return m.addInjection(msg.SourceField)

	case tea.KeyMsg:
		if m.adding {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		// The working copy is untouched; the user fixes or retries.
		m.notification = feedapi.ShortMessage(msg.err)
		m.notifyErr = true
		logging.Error("feed update failed", zap.String("feed_id", m.feedID), zap.Error(msg.err))
		return m, nil
	}
	m.baseline = msg.snapshot
	m.errors = nil
	m.notification = "Injections saved"
	m.notifyErr = false
	if msg.feed != nil {
		m.eligible = msg.feed.InjectionsEligible
	}
	return m, nil
}

func (m *Model) handlePreviewResult(msg previewResultMsg) {
	for _, inj := range m.injections {
		g := m.groups[inj.ID]
		if g == nil {
			continue
		}
		row := g.row(msg.selectorID)
		if row == nil || !row.previewOn {
			continue
		}
		if msg.renderKey != row.previewKey {
			// inputs changed while this render was in flight
			return
		}
		row.preview = msg.preview
		row.previewErr = msg.err
		return
	}
}

func (m Model) addInjection(sourceField string) (tea.Model, tea.Cmd) {
	m.adding = false
	sourceField = strings.TrimSpace(sourceField)
	if !m.eligible || sourceField == "" {
		return m, nil
	}
	inj := injection.NewInjection(sourceField)
	m.injections = append(m.injections, inj)
	m.groups[inj.ID] = newGroup(inj)
	return m.setActive(len(m.injections) - 1)
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		field := m.sourceInput.Value()
		m.sourceInput.SetValue("")
		m.sourceInput.Blur()
		return m.Update(AddInjectionMsg{SourceField: field})
	case "esc", "ctrl+c":
		m.adding = false
		m.sourceInput.SetValue("")
		m.sourceInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.sourceInput, cmd = m.sourceInput.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, k.Submit):
		return m.submit()

	case key.Matches(msg, k.AddGroup):
		if !m.eligible {
			m.notification = IneligibleNotice
			m.notifyErr = true
			return m, nil
		}
		m.adding = true
		return m, m.sourceInput.Focus()

	case key.Matches(msg, k.RemoveGroup):
		return m.removeActiveInjection()

	case key.Matches(msg, k.AddSelector):
		return m.addSelector()

	case key.Matches(msg, k.DelSelector):
		return m.removeFocusedSelector()

	case key.Matches(msg, k.Preview):
		return m.togglePreview()

	case key.Matches(msg, k.NextGroup):
		return m.shiftActive(1)

	case key.Matches(msg, k.PrevGroup):
		return m.shiftActive(-1)

	case key.Matches(msg, k.NextField):
		return m.moveFocus(1)

	case key.Matches(msg, k.PrevField):
		return m.moveFocus(-1)
	}
	return m.editFocused(msg)
}

// editFocused forwards a key to the focused input, syncs the value
// back into the injection slice, and re-renders a live preview when
// its inputs changed.
func (m Model) editFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inj, sel, row := m.focusedRow()
	if row == nil {
		return m, nil
	}
	cmd := row.update(msg)
	row.syncTo(sel)

	var path string
	if m.focusFld == fieldLabel {
		path = injection.SelectorFieldPath(m.active, m.focusSel, "label")
	} else {
		path = injection.SelectorFieldPath(m.active, m.focusSel, "cssSelector")
	}
	delete(m.errors, path)

	if row.previewOn {
		if pk := previewKeyFor(inj.SourceField, *sel); pk != row.previewKey {
			row.previewKey = pk
			row.preview = nil
			row.previewErr = nil
			return m, tea.Batch(cmd, m.previewCmd(*inj, m.focusSel))
		}
	}
	return m, cmd
}

// focusedRow resolves the focused injection, selector and row.
// Everything is nil when nothing has focus.
func (m *Model) focusedRow() (*injection.Injection, *injection.Selector, *selectorRow) {
	if m.active < 0 || m.active >= len(m.injections) {
		return nil, nil, nil
	}
	inj := &m.injections[m.active]
	if m.focusSel < 0 || m.focusSel >= len(inj.Selectors) {
		return inj, nil, nil
	}
	sel := &inj.Selectors[m.focusSel]
	g := m.groups[inj.ID]
	if g == nil {
		return inj, sel, nil
	}
	return inj, sel, g.row(sel.ID)
}

// setActive expands the given injection and focuses its first field.
func (m Model) setActive(idx int) (tea.Model, tea.Cmd) {
	for _, g := range m.groups {
		g.blurAll()
	}
	m.active = idx
	m.focusSel = 0
	m.focusFld = fieldLabel
	if idx < 0 || idx >= len(m.injections) {
		m.active = -1
		return m, nil
	}
	_, _, row := m.focusedRow()
	if row == nil {
		return m, nil
	}
	return m, row.focus(fieldLabel)
}

func (m Model) shiftActive(delta int) (tea.Model, tea.Cmd) {
	if len(m.injections) == 0 {
		return m, nil
	}
	next := m.active + delta
	if m.active < 0 {
		next = 0
	}
	if next < 0 {
		next = len(m.injections) - 1
	}
	if next >= len(m.injections) {
		next = 0
	}
	return m.setActive(next)
}

// moveFocus steps through the fields of the active injection:
// label, selector, label of the next row, and so on, wrapping.
func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	if m.active < 0 {
		return m.shiftActive(1)
	}
	inj := m.injections[m.active]
	total := len(inj.Selectors) * fieldsPerRow
	if total == 0 {
		return m, nil
	}
	pos := m.focusSel*fieldsPerRow + int(m.focusFld) + delta
	pos = ((pos % total) + total) % total
	m.focusSel = pos / fieldsPerRow
	m.focusFld = rowField(pos % fieldsPerRow)

	m.groups[inj.ID].blurAll()
	_, _, row := m.focusedRow()
	if row == nil {
		return m, nil
	}
	return m, row.focus(m.focusFld)
}

func (m Model) addSelector() (tea.Model, tea.Cmd) {
	if m.active < 0 {
		return m, nil
	}
	inj := &m.injections[m.active]
	sel := inj.AppendSelector()
	g := m.groups[inj.ID]
	g.ensureRows(*inj)
	g.blurAll()
	m.focusSel = len(inj.Selectors) - 1
	m.focusFld = fieldLabel
	return m, g.row(sel.ID).focus(fieldLabel)
}

func (m Model) removeFocusedSelector() (tea.Model, tea.Cmd) {
	inj, _, _ := m.focusedRow()
	if inj == nil {
		return m, nil
	}
	if !inj.RemoveSelector(m.focusSel) {
		// the last selector of an injection cannot be deleted
		return m, nil
	}
	// validation messages are keyed by position; a removal shifts the
	// rows behind it, so stale messages would land on the wrong fields
	m.errors = nil
	g := m.groups[inj.ID]
	g.ensureRows(*inj)
	if m.focusSel >= len(inj.Selectors) {
		m.focusSel = len(inj.Selectors) - 1
	}
	m.focusFld = fieldLabel
	g.blurAll()
	_, _, row := m.focusedRow()
	if row == nil {
		return m, nil
	}
	return m, row.focus(fieldLabel)
}

func (m Model) removeActiveInjection() (tea.Model, tea.Cmd) {
	if m.active < 0 || m.active >= len(m.injections) {
		return m, nil
	}
	inj := m.injections[m.active]
	m.injections = append(m.injections[:m.active], m.injections[m.active+1:]...)
	delete(m.groups, inj.ID)
	// positional validation messages would shift onto the wrong rows
	m.errors = nil
	// collapse the accordion; the next pgdn reopens from the top
	m.active = -1
	m.focusSel = 0
	m.focusFld = fieldLabel
	return m, nil
}

func (m Model) togglePreview() (tea.Model, tea.Cmd) {
	if m.renderer == nil {
		m.notification = "Preview is not available for this server"
		m.notifyErr = true
		return m, nil
	}
	inj, sel, row := m.focusedRow()
	if row == nil {
		return m, nil
	}
	row.previewOn = !row.previewOn
	if !row.previewOn {
		return m, nil
	}
	pk := previewKeyFor(inj.SourceField, *sel)
	if pk == row.previewKey && (row.preview != nil || row.previewErr != nil) {
		// inputs unchanged since the last render, reuse it
		return m, nil
	}
	row.previewKey = pk
	row.preview = nil
	row.previewErr = nil
	return m, m.previewCmd(*inj, m.focusSel)
}

func (m Model) previewCmd(inj injection.Injection, selIdx int) tea.Cmd {
	renderer := m.renderer
	req := inj.PreviewInjection(selIdx)
	selID := inj.Selectors[selIdx].ID
	renderKey := previewKeyFor(inj.SourceField, inj.Selectors[selIdx])
	return func() tea.Msg {
		p, err := renderer.Render(req)
		return previewResultMsg{selectorID: selID, renderKey: renderKey, preview: p, err: err}
	}
}

// submit validates the working copy and, when clean, persists it. A
// validation failure never reaches the network. A second save while
// one is in flight is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	errs := injection.Validate(m.injections)
	if len(errs) > 0 {
		m.errors = errs.ByPath()
		m.notification = "Fix the highlighted fields"
		m.notifyErr = true
		return m, nil
	}
	m.errors = nil
	m.submitting = true
	m.notification = ""

	snapshot := injection.CloneAll(m.injections)
	updater := m.updater
	feedID := m.feedID
	save := func() tea.Msg {
		update := &feedapi.FeedUpdate{ArticleInjections: &snapshot}
		feed, err := updater.UpdateFeed(feedID, update)
		return submitResultMsg{feed: feed, snapshot: snapshot, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, save)
}

// View implements tea.Model
func (m Model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder

	title := "Article injections"
	if m.Dirty() {
		title += "  " + DirtyStyle.Render(DirtyMarker+" unsaved changes")
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	if m.adding {
		b.WriteString(PromptBoxStyle.Render(
			"New injection\n\nSource field: " + m.sourceInput.View()))
		b.WriteString("\n\n")
	}

	if len(m.injections) == 0 {
		b.WriteString(HeaderStyle.Render("No injections yet."))
		b.WriteString("\n")
	}
	for i := range m.injections {
		m.viewInjection(&b, i)
	}

	if !m.eligible {
		b.WriteString("\n")
		b.WriteString(NoticeStyle.Width(m.width - 2).Render(IneligibleNotice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(m.spinner.View() + " Saving...")
	case m.notification != "" && m.notifyErr:
		b.WriteString(ErrorNoteStyle.Render(m.notification))
	case m.notification != "":
		b.WriteString(SuccessNoteStyle.Render(m.notification))
	}
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) viewInjection(b *strings.Builder, i int) {
	inj := m.injections[i]
	expanded := i == m.active

	marker := MarkerCollapsed
	style := HeaderStyle
	if expanded {
		marker = MarkerExpanded
		style = ActiveHeaderStyle
	}
	header := fmt.Sprintf("%s %s (%d selectors)", marker, inj.SourceField, len(inj.Selectors))
	b.WriteString(style.Render(header))
	b.WriteString("\n")
	if !expanded {
		return
	}

	g := m.groups[inj.ID]
	for j, sel := range inj.Selectors {
		row := g.row(sel.ID)
		if row == nil {
			continue
		}
		m.viewField(b, row.labelInput.View(), "label",
			injection.SelectorFieldPath(i, j, "label"),
			m.focusSel == j && m.focusFld == fieldLabel)
		m.viewField(b, row.cssInput.View(), "selector",
			injection.SelectorFieldPath(i, j, "cssSelector"),
			m.focusSel == j && m.focusFld == fieldCSS)
		if pv := row.viewPreview(); pv != "" {
			b.WriteString(pv)
			b.WriteString("\n")
		}
	}
}

func (m Model) viewField(b *strings.Builder, input, caption, path string, focused bool) {
	labelStyle := FieldLabelStyle
	if focused {
		labelStyle = FocusedFieldLabelStyle
	}
	b.WriteString("  " + labelStyle.Render(caption+":") + " " + input)
	b.WriteString("\n")
	if msg, ok := m.errors[path]; ok {
		b.WriteString(FieldErrorStyle.Render(msg))
		b.WriteString("\n")
	}
}
