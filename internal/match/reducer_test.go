package match

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 18, 20, 30, 0, 0, time.UTC)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

// scored returns a fresh default match with the given live score.
func scored(home, away int) State {
	s := NewState(DefaultRules())
	s.Home.Points, s.Away.Points = home, away
	return s
}

func TestNewStateDefaults(t *testing.T) {
	s := NewState(DefaultRules())

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StatusInProgress, s.Status)
	assert.Equal(t, 1, s.CurrentSet)
	assert.Equal(t, Team{Name: "Casa", TimeoutsLeft: 2, IsServing: true}, s.Home)
	assert.Equal(t, Team{Name: "Ospite", TimeoutsLeft: 2}, s.Away)
	assert.NotNil(t, s.SetHistory)
	assert.Empty(t, s.SetHistory)
}

func TestRulesHelpers(t *testing.T) {
	r := DefaultRules()
	assert.Equal(t, 5, r.MaxSets())
	assert.Equal(t, 3, r.SetsToWin())
	assert.Equal(t, 25, r.PointsTarget(4))
	assert.Equal(t, 15, r.PointsTarget(5))

	r.BestOf = 3
	assert.Equal(t, 2, r.SetsToWin())
	assert.True(t, r.IsTiebreak(3))
	assert.Equal(t, 15, r.PointsTarget(3))
}

func TestPointIncrementMovesServe(t *testing.T) {
	s := scored(3, 4)

	next, changed := Reduce(s, Action{Type: PointIncrement, Team: Away}, fixedNow)
	require.True(t, changed)
	assert.Equal(t, 5, next.Away.Points)
	assert.True(t, next.Away.IsServing)
	assert.False(t, next.Home.IsServing)
}

func TestPointIncrementAwardsSetAtTarget(t *testing.T) {
	s := scored(24, 20)
	s.Home.TimeoutsLeft, s.Away.TimeoutsLeft = 0, 1

	next, changed := Reduce(s, Action{Type: PointIncrement, Team: Home}, fixedNow)
	require.True(t, changed)

	want := []SetSnapshot{{SetNumber: 1, HomePoints: 25, AwayPoints: 20, Winner: Home, Timestamp: fixedNow.UnixMilli()}}
	if diff := cmp.Diff(want, next.SetHistory); diff != "" {
		t.Fatalf("set history mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, next.CurrentSet)
	assert.Equal(t, 1, next.Home.SetsWon)
	assert.Equal(t, 0, next.Home.Points)
	assert.Equal(t, 0, next.Away.Points)
	assert.Equal(t, 2, next.Home.TimeoutsLeft)
	assert.Equal(t, 2, next.Away.TimeoutsLeft)
	assert.True(t, next.Home.IsServing)
	assert.Equal(t, StatusInProgress, next.Status)
}

func TestPointIncrementNeedsTwoPointLead(t *testing.T) {
	s := scored(24, 24)

	s, _ = Reduce(s, Action{Type: PointIncrement, Team: Home}, fixedNow)
	assert.Equal(t, 25, s.Home.Points)
	assert.Empty(t, s.SetHistory)

	s, _ = Reduce(s, Action{Type: PointIncrement, Team: Home}, fixedNow)
	require.Len(t, s.SetHistory, 1)
	assert.Equal(t, 26, s.SetHistory[0].HomePoints)
	assert.Equal(t, 24, s.SetHistory[0].AwayPoints)
}

func TestPointIncrementWithoutWinByTwo(t *testing.T) {
	s := scored(24, 24)
	s.Rules.WinByTwo = false

	next, _ := Reduce(s, Action{Type: PointIncrement, Team: Away}, fixedNow)
	require.Len(t, next.SetHistory, 1)
	assert.Equal(t, Away, next.SetHistory[0].Winner)
}

func TestPointIncrementManualSetWin(t *testing.T) {
	s := scored(30, 10)
	s.Rules.ApplyAutomaticSetWin = false

	next, changed := Reduce(s, Action{Type: PointIncrement, Team: Home}, fixedNow)
	require.True(t, changed)
	assert.Equal(t, 31, next.Home.Points)
	assert.Empty(t, next.SetHistory)
}

func TestTiebreakTargetAndMatchEnd(t *testing.T) {
	s := scored(14, 10)
	s.CurrentSet = 5
	s.Home.SetsWon, s.Away.SetsWon = 2, 2

	next, _ := Reduce(s, Action{Type: PointIncrement, Team: Home}, fixedNow)
	assert.Equal(t, StatusFinished, next.Status)
	assert.Equal(t, 3, next.Home.SetsWon)
	assert.Equal(t, 5, next.CurrentSet, "current set is capped at bestOf")

	winner, ok := next.Winner()
	require.True(t, ok)
	assert.Equal(t, Home, winner)
}

func TestFinishedMatchIgnoresScoring(t *testing.T) {
	s := scored(3, 3)
	s.Status = StatusFinished

	for _, a := range []Action{
		{Type: PointIncrement, Team: Home},
		{Type: PointDecrement, Team: Away},
		{Type: TimeoutTake, Team: Home},
		{Type: SetAward, Winner: Away},
	} {
		next, changed := Reduce(s, a, fixedNow)
		assert.False(t, changed, a.Type)
		assert.Equal(t, s, next)
	}
}

func TestPointDecrementClampsAtZero(t *testing.T) {
	s := scored(0, 1)

	next, changed := Reduce(s, Action{Type: PointDecrement, Team: Home}, fixedNow)
	assert.True(t, changed)
	assert.Equal(t, 0, next.Home.Points)

	next, _ = Reduce(next, Action{Type: PointDecrement, Team: Away}, fixedNow)
	assert.Equal(t, 0, next.Away.Points)
}

func TestTimeoutTake(t *testing.T) {
	s := NewState(DefaultRules())

	s, changed := Reduce(s, Action{Type: TimeoutTake, Team: Away}, fixedNow)
	require.True(t, changed)
	s, _ = Reduce(s, Action{Type: TimeoutTake, Team: Away}, fixedNow)
	assert.Equal(t, 0, s.Away.TimeoutsLeft)
	assert.Equal(t, 2, s.Home.TimeoutsLeft)

	_, changed = Reduce(s, Action{Type: TimeoutTake, Team: Away}, fixedNow)
	assert.False(t, changed)
}

func TestServingSet(t *testing.T) {
	s := NewState(DefaultRules())

	next, changed := Reduce(s, Action{Type: ServingSet, Team: Away}, fixedNow)
	require.True(t, changed)
	assert.True(t, next.Away.IsServing)
	assert.False(t, next.Home.IsServing)
}

func TestSetAwardCapsCurrentSet(t *testing.T) {
	r := DefaultRules()
	r.BestOf = 3
	s := NewState(r)

	s, _ = Reduce(s, Action{Type: SetAward, Winner: Home}, fixedNow)
	s, _ = Reduce(s, Action{Type: SetAward, Winner: Away}, fixedNow.Add(20*time.Minute))
	assert.Equal(t, 3, s.CurrentSet)
	assert.Equal(t, StatusInProgress, s.Status)

	s, _ = Reduce(s, Action{Type: SetAward, Winner: Home}, fixedNow.Add(35*time.Minute))
	assert.Equal(t, 3, s.CurrentSet)
	assert.Equal(t, StatusFinished, s.Status)
	require.Len(t, s.SetHistory, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{s.SetHistory[0].SetNumber, s.SetHistory[1].SetNumber, s.SetHistory[2].SetNumber})
}

func TestSetResetCurrent(t *testing.T) {
	s := scored(12, 9)
	s.Home.TimeoutsLeft = 0
	s.Home.SetsWon = 1

	next, changed := Reduce(s, Action{Type: SetResetCurrent}, fixedNow)
	require.True(t, changed)
	assert.Equal(t, 0, next.Home.Points)
	assert.Equal(t, 0, next.Away.Points)
	assert.Equal(t, 2, next.Home.TimeoutsLeft)
	assert.Equal(t, 1, next.Home.SetsWon)
}

func TestRenameTeam(t *testing.T) {
	s := NewState(DefaultRules())

	s, _ = Reduce(s, Action{Type: MatchRenameTeam, Team: Home, Name: "  Modena  "}, fixedNow)
	assert.Equal(t, "Modena", s.Home.Name)

	s, _ = Reduce(s, Action{Type: MatchRenameTeam, Team: Home, Name: "   "}, fixedNow)
	assert.Equal(t, "Casa", s.Home.Name)

	s, _ = Reduce(s, Action{Type: MatchRenameTeam, Team: Away, Name: ""}, fixedNow)
	assert.Equal(t, "Ospite", s.Away.Name)
}

func TestRulesUpdateClamps(t *testing.T) {
	s := NewState(DefaultRules())
	s.CurrentSet = 5
	s.Away.TimeoutsLeft = 1

	next, changed := Reduce(s, Action{Type: RulesUpdate, Rules: &RulesPatch{BestOf: intp(3), TimeoutsPerSet: intp(1)}}, fixedNow)
	require.True(t, changed)
	assert.Equal(t, 3, next.Rules.BestOf)
	assert.Equal(t, 25, next.Rules.PointsToWinSet, "unset fields are kept")
	assert.Equal(t, 3, next.CurrentSet)
	assert.Equal(t, 1, next.Home.TimeoutsLeft)
	assert.Equal(t, 1, next.Away.TimeoutsLeft)

	more, _ := Reduce(next, Action{Type: RulesUpdate, Rules: &RulesPatch{TimeoutsPerSet: intp(3), WinByTwo: boolp(false)}}, fixedNow)
	assert.Equal(t, 1, more.Home.TimeoutsLeft, "raising the limit does not refill timeouts")
	assert.False(t, more.Rules.WinByTwo)
}

func TestMatchResetKeepsNamesRulesAndServe(t *testing.T) {
	r := DefaultRules()
	r.BestOf = 3
	s := NewState(r)
	s.Home.Name, s.Away.Name = "Trento", "Perugia"
	s, _ = Reduce(s, Action{Type: SetAward, Winner: Away}, fixedNow)
	s, _ = Reduce(s, Action{Type: PointIncrement, Team: Away}, fixedNow)
	s, _ = Reduce(s, Action{Type: TimeoutTake, Team: Home}, fixedNow)

	next, changed := Reduce(s, Action{Type: MatchReset}, fixedNow)
	require.True(t, changed)

	want := State{
		Status:     StatusInProgress,
		CurrentSet: 1,
		Rules:      r,
		Home:       Team{Name: "Trento", TimeoutsLeft: 2},
		Away:       Team{Name: "Perugia", TimeoutsLeft: 2, IsServing: true},
		SetHistory: []SetSnapshot{},
	}
	if diff := cmp.Diff(want, next, cmpopts.IgnoreFields(State{}, "ID")); diff != "" {
		t.Fatalf("reset state mismatch (-want +got):\n%s", diff)
	}
	assert.NotEqual(t, s.ID, next.ID)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := scored(24, 10)
	s.SetHistory = append(s.SetHistory, SetSnapshot{SetNumber: 0, Winner: Away})
	before := s.Clone()

	for _, a := range []Action{
		{Type: PointIncrement, Team: Home},
		{Type: PointDecrement, Team: Away},
		{Type: TimeoutTake, Team: Home},
		{Type: SetAward, Winner: Away},
		{Type: RulesUpdate, Rules: &RulesPatch{BestOf: intp(3)}},
		{Type: MatchRenameTeam, Team: Away, Name: "X"},
	} {
		_, _ = Reduce(s, a, fixedNow)
		if diff := cmp.Diff(before, s); diff != "" {
			t.Fatalf("%s mutated its input (-before +after):\n%s", a.Type, diff)
		}
	}
}

func TestReduceUnknownIsNoop(t *testing.T) {
	s := NewState(DefaultRules())
	next, changed := Reduce(s, Action{Type: "bogus"}, fixedNow)
	assert.False(t, changed)
	assert.Equal(t, s, next)

	_, changed = Reduce(s, Action{Type: Undo}, fixedNow)
	assert.False(t, changed)
}
