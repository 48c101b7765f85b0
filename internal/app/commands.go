package app

import (
	"context"

	"github.com/riky97/volleyball-scoreboard/internal/commands"
	"github.com/riky97/volleyball-scoreboard/internal/match"
)

// Command names reachable through Invoke and the dev server.
const (
	CmdGetMatch        = "get_match"
	CmdDispatch        = "dispatch_match_action"
	CmdUndo            = "undo_match"
	CmdNewMatch        = "new_match"
	CmdResetCurrentSet = "reset_current_set"
	CmdBuildReport     = "build_match_report"
	CmdBuildInfo       = "build_info"
)

type noArgs struct{}

func (a *App) registerCommands() {
	r := a.registry
	commands.RegisterWriteTextFile(r)

	r.Register(CmdGetMatch, commands.Typed(func(context.Context, noArgs) (any, error) {
		return a.session.State(), nil
	}))
	r.Register(CmdDispatch, commands.Typed(func(_ context.Context, action match.Action) (any, error) {
		return a.session.Dispatch(action)
	}))
	r.Register(CmdUndo, commands.Typed(func(context.Context, noArgs) (any, error) {
		return a.Undo(), nil
	}))
	r.Register(CmdNewMatch, commands.Typed(func(context.Context, noArgs) (any, error) {
		return a.NewMatch()
	}))
	r.Register(CmdResetCurrentSet, commands.Typed(func(context.Context, noArgs) (any, error) {
		return a.ResetCurrentSet()
	}))
	r.Register(CmdBuildReport, commands.Typed(func(context.Context, noArgs) (any, error) {
		return a.buildReport()
	}))
	r.Register(CmdBuildInfo, commands.Typed(func(context.Context, noArgs) (any, error) {
		return a.BuildInfo(), nil
	}))
}
