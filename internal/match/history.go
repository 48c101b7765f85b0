package match

import "time"

// MaxUndo bounds the undo stack.
const MaxUndo = 200

// History is a state plus the states it replaced, newest last.
type History struct {
	Present State   `json:"present"`
	Past    []State `json:"past"`
}

// NewHistory starts a history at initial with nothing to undo.
func NewHistory(initial State) History {
	return History{Present: initial.Clone()}
}

// Apply runs a through the reducer, or pops the last state for Undo.
// It reports whether Present changed.
func (h *History) Apply(a Action, now time.Time) bool {
	if a.Type == Undo {
		if len(h.Past) == 0 {
			return false
		}
		last := len(h.Past) - 1
		h.Present = h.Past[last]
		h.Past[last] = State{}
		h.Past = h.Past[:last]
		return true
	}

	next, changed := Reduce(h.Present, a, now)
	if !changed {
		return false
	}
	h.Past = append(h.Past, h.Present)
	if over := len(h.Past) - MaxUndo; over > 0 {
		h.Past = append(h.Past[:0:0], h.Past[over:]...)
	}
	h.Present = next
	return true
}

// CanUndo reports whether there is a previous state.
func (h *History) CanUndo() bool { return len(h.Past) > 0 }
