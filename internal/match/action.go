package match

import (
	"errors"
	"fmt"
)

// ErrInvalidAction is returned by Validate.
var ErrInvalidAction = errors.New("invalid match action")

// ActionType names a state transition.
type ActionType string

const (
	PointIncrement  ActionType = "point.increment"
	PointDecrement  ActionType = "point.decrement"
	TimeoutTake     ActionType = "timeout.take"
	ServingSet      ActionType = "serving.set"
	SetAward        ActionType = "set.award"
	SetResetCurrent ActionType = "set.reset_current"
	MatchReset      ActionType = "match.reset"
	MatchRenameTeam ActionType = "match.rename_team"
	RulesUpdate     ActionType = "rules.update"
	Undo            ActionType = "undo"
)

// Action is sent by the front-end. Only the fields relevant to Type are read.
type Action struct {
	Type   ActionType  `json:"type"`
	Team   Side        `json:"team,omitempty"`
	Winner Side        `json:"winner,omitempty"`
	Name   string      `json:"name,omitempty"`
	Rules  *RulesPatch `json:"rules,omitempty"`
}

// RulesPatch is a partial Rules update; nil fields are left unchanged.
type RulesPatch struct {
	BestOf               *int  `json:"bestOf,omitempty"`
	PointsToWinSet       *int  `json:"pointsToWinSet,omitempty"`
	PointsToWinTiebreak  *int  `json:"pointsToWinTiebreak,omitempty"`
	WinByTwo             *bool `json:"winByTwo,omitempty"`
	ApplyAutomaticSetWin *bool `json:"applyAutomaticSetWin,omitempty"`
	TimeoutsPerSet       *int  `json:"timeoutsPerSet,omitempty"`
}

func (p RulesPatch) apply(r Rules) Rules {
	if p.BestOf != nil {
		r.BestOf = *p.BestOf
	}
	if p.PointsToWinSet != nil {
		r.PointsToWinSet = *p.PointsToWinSet
	}
	if p.PointsToWinTiebreak != nil {
		r.PointsToWinTiebreak = *p.PointsToWinTiebreak
	}
	if p.WinByTwo != nil {
		r.WinByTwo = *p.WinByTwo
	}
	if p.ApplyAutomaticSetWin != nil {
		r.ApplyAutomaticSetWin = *p.ApplyAutomaticSetWin
	}
	if p.TimeoutsPerSet != nil {
		r.TimeoutsPerSet = *p.TimeoutsPerSet
	}
	return r
}

// Validate checks that a is well formed before it reaches the reducer.
func Validate(a Action) error {
	switch a.Type {
	case PointIncrement, PointDecrement, TimeoutTake, ServingSet, MatchRenameTeam:
		if !a.Team.Valid() {
			return fmt.Errorf("%w: %s needs team home or away, got %q", ErrInvalidAction, a.Type, a.Team)
		}
	case SetAward:
		if !a.Winner.Valid() {
			return fmt.Errorf("%w: %s needs winner home or away, got %q", ErrInvalidAction, a.Type, a.Winner)
		}
	case RulesUpdate:
		if a.Rules == nil {
			return fmt.Errorf("%w: %s without rules", ErrInvalidAction, a.Type)
		}
		return validatePatch(*a.Rules)
	case SetResetCurrent, MatchReset, Undo:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAction, a.Type)
	}
	return nil
}

func validatePatch(p RulesPatch) error {
	if p.BestOf != nil && *p.BestOf != 3 && *p.BestOf != 5 {
		return fmt.Errorf("%w: bestOf must be 3 or 5, got %d", ErrInvalidAction, *p.BestOf)
	}
	if p.PointsToWinSet != nil && *p.PointsToWinSet <= 0 {
		return fmt.Errorf("%w: pointsToWinSet must be positive", ErrInvalidAction)
	}
	if p.PointsToWinTiebreak != nil && *p.PointsToWinTiebreak <= 0 {
		return fmt.Errorf("%w: pointsToWinTiebreak must be positive", ErrInvalidAction)
	}
	if p.TimeoutsPerSet != nil && *p.TimeoutsPerSet < 0 {
		return fmt.Errorf("%w: timeoutsPerSet must not be negative", ErrInvalidAction)
	}
	return nil
}
