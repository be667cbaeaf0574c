package engine

// History retains at most one prior state for undo.
type History struct {
	slot *GameState
}

// Save stores a deep copy of gs, replacing any earlier snapshot.
func (h *History) Save(gs GameState) {
	c := gs.Clone()
	h.slot = &c
}

// Undo hands back the retained snapshot and empties the slot. A second call
// without an intervening Save reports false.
func (h *History) Undo() (GameState, bool) {
	if h.slot == nil {
		return GameState{}, false
	}
	gs := *h.slot
	h.slot = nil
	return gs, true
}

// HasUndo reports whether a snapshot is available.
func (h *History) HasUndo() bool {
	return h.slot != nil
}

// Clear drops any retained snapshot.
func (h *History) Clear() {
	h.slot = nil
}
