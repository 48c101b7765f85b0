// Package match models a volleyball match and the actions that change it.
package match

import (
	"slices"

	"github.com/google/uuid"
)

// Side identifies a team.
type Side string

const (
	Home Side = "home"
	Away Side = "away"
)

// Valid reports whether s names a team.
func (s Side) Valid() bool { return s == Home || s == Away }

// Label is the display name used when a team has no name of its own.
func (s Side) Label() string {
	if s == Home {
		return "Casa"
	}
	return "Ospite"
}

// Status of a match.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Rules configure scoring.
type Rules struct {
	BestOf               int  `json:"bestOf"` // 3 or 5
	PointsToWinSet       int  `json:"pointsToWinSet"`
	PointsToWinTiebreak  int  `json:"pointsToWinTiebreak"`
	WinByTwo             bool `json:"winByTwo"`
	ApplyAutomaticSetWin bool `json:"applyAutomaticSetWin"`
	TimeoutsPerSet       int  `json:"timeoutsPerSet"`
}

// DefaultRules are standard indoor rules: best of five, 25 points, 15 in
// the tie-break, two-point lead, two timeouts per set.
func DefaultRules() Rules {
	return Rules{
		BestOf:               5,
		PointsToWinSet:       25,
		PointsToWinTiebreak:  15,
		WinByTwo:             true,
		ApplyAutomaticSetWin: true,
		TimeoutsPerSet:       2,
	}
}

// MaxSets is the number of sets that can be played.
func (r Rules) MaxSets() int { return r.BestOf }

// SetsToWin is the number of sets needed to win the match.
func (r Rules) SetsToWin() int { return (r.BestOf + 1) / 2 }

// IsTiebreak reports whether setNumber is the deciding set.
func (r Rules) IsTiebreak(setNumber int) bool { return setNumber >= r.BestOf }

// PointsTarget is the score needed to win setNumber.
func (r Rules) PointsTarget(setNumber int) int {
	if r.IsTiebreak(setNumber) {
		return r.PointsToWinTiebreak
	}
	return r.PointsToWinSet
}

// Team is one side's live state.
type Team struct {
	Name         string `json:"name"`
	Points       int    `json:"points"`
	SetsWon      int    `json:"setsWon"`
	TimeoutsLeft int    `json:"timeoutsLeft"`
	IsServing    bool   `json:"isServing"`
}

// SetSnapshot records a finished set. Timestamp is Unix milliseconds.
type SetSnapshot struct {
	SetNumber  int   `json:"setNumber"`
	HomePoints int   `json:"homePoints"`
	AwayPoints int   `json:"awayPoints"`
	Winner     Side  `json:"winner"`
	Timestamp  int64 `json:"timestamp"`
}

// State is the whole match. It is a value: Reduce never mutates its input.
type State struct {
	ID         string        `json:"id,omitempty"`
	Status     Status        `json:"status"`
	CurrentSet int           `json:"currentSet"`
	Rules      Rules         `json:"rules"`
	Home       Team          `json:"home"`
	Away       Team          `json:"away"`
	SetHistory []SetSnapshot `json:"setHistory"`
}

// NewState starts a fresh match; home serves first.
func NewState(rules Rules) State {
	return State{
		ID:         uuid.NewString(),
		Status:     StatusInProgress,
		CurrentSet: 1,
		Rules:      rules,
		Home: Team{
			Name:         Home.Label(),
			TimeoutsLeft: rules.TimeoutsPerSet,
			IsServing:    true,
		},
		Away: Team{
			Name:         Away.Label(),
			TimeoutsLeft: rules.TimeoutsPerSet,
		},
		SetHistory: []SetSnapshot{},
	}
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	s.SetHistory = slices.Clone(s.SetHistory)
	if s.SetHistory == nil {
		s.SetHistory = []SetSnapshot{}
	}
	return s
}

// Team returns the state of side.
func (s State) Team(side Side) Team {
	if side == Home {
		return s.Home
	}
	return s.Away
}

// Winner returns the side that won a finished match.
func (s State) Winner() (Side, bool) {
	if s.Status != StatusFinished {
		return "", false
	}
	if s.Home.SetsWon > s.Away.SetsWon {
		return Home, true
	}
	return Away, true
}

func (s *State) team(side Side) *Team {
	if side == Home {
		return &s.Home
	}
	return &s.Away
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
