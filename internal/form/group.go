package form

import "github.com/hollis/feedform/internal/injection"

// group holds the selector rows of one injection, keyed by selector id
// so per-row state (focus, preview toggle) follows the selector when
// its neighbors are added or removed.
type group struct {
	rows map[string]*selectorRow
}

func newGroup(inj injection.Injection) *group {
	g := &group{rows: make(map[string]*selectorRow, len(inj.Selectors))}
	for _, sel := range inj.Selectors {
		g.rows[sel.ID] = newSelectorRow(sel)
	}
	return g
}

func (g *group) row(id string) *selectorRow {
	return g.rows[id]
}

// ensureRows creates rows for selectors that gained one and drops rows
// whose selector no longer exists.
func (g *group) ensureRows(inj injection.Injection) {
	live := make(map[string]bool, len(inj.Selectors))
	for _, sel := range inj.Selectors {
		live[sel.ID] = true
		if _, ok := g.rows[sel.ID]; !ok {
			g.rows[sel.ID] = newSelectorRow(sel)
		}
	}
	for id := range g.rows {
		if !live[id] {
			delete(g.rows, id)
		}
	}
}

// blurAll removes focus from every row in the group.
func (g *group) blurAll() {
	for _, r := range g.rows {
		r.blur()
	}
}
