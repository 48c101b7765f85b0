package match

import (
	"strings"
	"time"
)

// Reduce applies a to s and returns the next state. The bool is false when
// the action was a no-op (finished match, no timeouts left, unknown type);
// in that case the returned state is s itself. now stamps set snapshots.
//
// Undo is not handled here; see History.
func Reduce(s State, a Action, now time.Time) (State, bool) {
	switch a.Type {
	case PointIncrement:
		if s.Status == StatusFinished {
			return s, false
		}
		next := s.Clone()
		next.team(a.Team).Points++
		next.setServing(a.Team)
		if !next.Rules.ApplyAutomaticSetWin {
			return next, true
		}
		if winner, ok := next.autoSetWinner(); ok {
			return next.awardSet(winner, now), true
		}
		return next, true

	case PointDecrement:
		if s.Status == StatusFinished {
			return s, false
		}
		next := s.Clone()
		t := next.team(a.Team)
		t.Points = clampNonNegative(t.Points - 1)
		return next, true

	case TimeoutTake:
		if s.Status == StatusFinished || s.Team(a.Team).TimeoutsLeft <= 0 {
			return s, false
		}
		next := s.Clone()
		next.team(a.Team).TimeoutsLeft--
		return next, true

	case ServingSet:
		next := s.Clone()
		next.setServing(a.Team)
		return next, true

	case SetAward:
		if s.Status == StatusFinished {
			return s, false
		}
		return s.Clone().awardSet(a.Winner, now), true

	case SetResetCurrent:
		next := s.Clone()
		next.resetSetCounters()
		return next, true

	case MatchRenameTeam:
		next := s.Clone()
		name := strings.TrimSpace(a.Name)
		if name == "" {
			name = a.Team.Label()
		}
		next.team(a.Team).Name = name
		return next, true

	case RulesUpdate:
		next := s.Clone()
		if a.Rules != nil {
			next.Rules = a.Rules.apply(next.Rules)
		}
		next.CurrentSet = min(next.CurrentSet, next.Rules.MaxSets())
		next.Home.TimeoutsLeft = min(next.Home.TimeoutsLeft, next.Rules.TimeoutsPerSet)
		next.Away.TimeoutsLeft = min(next.Away.TimeoutsLeft, next.Rules.TimeoutsPerSet)
		return next, true

	case MatchReset:
		next := NewState(s.Rules)
		next.Home.Name, next.Home.IsServing = s.Home.Name, s.Home.IsServing
		next.Away.Name, next.Away.IsServing = s.Away.Name, s.Away.IsServing
		return next, true
	}
	return s, false
}

func (s *State) setServing(side Side) {
	s.Home.IsServing = side == Home
	s.Away.IsServing = side == Away
}

func (s *State) resetSetCounters() {
	s.Home.Points, s.Away.Points = 0, 0
	s.Home.TimeoutsLeft = s.Rules.TimeoutsPerSet
	s.Away.TimeoutsLeft = s.Rules.TimeoutsPerSet
}

// autoSetWinner reports the side that has reached the set target with the
// required lead.
func (s *State) autoSetWinner() (Side, bool) {
	target := s.Rules.PointsTarget(s.CurrentSet)
	home, away := s.Home.Points, s.Away.Points

	diff := home - away
	if diff < 0 {
		diff = -diff
	}
	if s.Rules.WinByTwo && diff < 2 {
		return "", false
	}
	switch {
	case home >= target && home > away:
		return Home, true
	case away >= target && away > home:
		return Away, true
	}
	return "", false
}

// awardSet closes the current set in favour of winner. s must already be a
// private copy.
func (s State) awardSet(winner Side, now time.Time) State {
	s.SetHistory = append(s.SetHistory, SetSnapshot{
		SetNumber:  s.CurrentSet,
		HomePoints: s.Home.Points,
		AwayPoints: s.Away.Points,
		Winner:     winner,
		Timestamp:  now.UnixMilli(),
	})
	s.team(winner).SetsWon++
	s.CurrentSet = min(s.CurrentSet+1, s.Rules.MaxSets())
	s.resetSetCounters()

	if s.Home.SetsWon >= s.Rules.SetsToWin() || s.Away.SetsWon >= s.Rules.SetsToWin() {
		s.Status = StatusFinished
	}
	return s
}
