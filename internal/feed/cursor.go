package feed

// Cursor is a session's pointer into its filtered candidate list. It only
// moves forward; the engine replaces the whole cursor when the feed is
// rebuilt (login, preference change, block).
type Cursor struct {
	items []CandidateView
	pos   int
}

func NewCursor(items []CandidateView) *Cursor {
	return &Cursor{items: items}
}

// Current returns the candidate under the cursor, or false when the
// session has swiped through everyone.
func (c *Cursor) Current() (CandidateView, bool) {
	if c.pos >= len(c.items) {
		return CandidateView{}, false
	}
	return c.items[c.pos], true
}

// Advance moves past the current candidate. Advancing past the end is a
// no-op.
func (c *Cursor) Advance() {
	if c.pos < len(c.items) {
		c.pos++
	}
}

// Remaining reports how many candidates are left, including the current one.
func (c *Cursor) Remaining() int {
	return len(c.items) - c.pos
}

// Items returns the full filtered list backing the cursor.
func (c *Cursor) Items() []CandidateView {
	return c.items
}
