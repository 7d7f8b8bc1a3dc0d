package cmd

import (
	"github.com/huangsam/orghealth/core"
	"github.com/spf13/cobra"
)

// updateCmd records a health update on a project.
var updateCmd = &cobra.Command{
	Use:   "update <project-id> <health>",
	Short: "Record a weekly health update on a project.",
	Long: `Record on_track, at_risk or off_track on a project for a day.

A second update on the same day replaces the first.

Examples:
  orghealth update checkout at_risk --description "vendor slipped"
  orghealth update checkout on_track --date "1 week ago"`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteRecordUpdate, "Cannot record update")
	},
}

// transitionCmd moves a project or initiative to a new state.
var transitionCmd = &cobra.Command{
	Use:   "transition <kind> <id> <state>",
	Short: "Move a project or initiative to a new work state.",
	Long: `Move a project along its lifecycle, or set an initiative's state.

Projects follow a fixed transition table. Initiatives accept todo, in_progress,
blocked, on_hold and done; with --cascade, todo, on_hold and done are also
applied to every leaf project beneath them.

Examples:
  orghealth transition project checkout blocked
  orghealth transition initiative growth done --cascade`,
	Args:    cobra.ExactArgs(3),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteTransition, "Cannot transition")
	},
}

// createCmd adds a project, team or initiative.
var createCmd = &cobra.Command{
	Use:   "create <kind> <name>",
	Short: "Create a project, team or initiative.",
	Long: `Create an entity with a generated id. Names are unique per kind, ignoring case.

Examples:
  orghealth create team Web
  orghealth create project Refunds --parent checkout --team web
  orghealth create initiative "Faster checkout"`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteCreate, "Cannot create")
	},
}

// assignCmd reparents a project or team.
var assignCmd = &cobra.Command{
	Use:   "assign <kind> <id>",
	Short: "Attach a project to a parent or team, or a team to a leading team.",
	Long: `Wire an existing entity into the hierarchy.

A project keeps at most one parent and never forms a cycle. A team either owns
projects or leads other teams, never both.

Examples:
  orghealth assign project refunds --parent checkout --team web
  orghealth assign team web --parent engineering`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteAssign, "Cannot assign")
	},
}

// linkCmd relates a root project to an initiative.
var linkCmd = &cobra.Command{
	Use:     "link <initiative-id> <project-id>",
	Short:   "Relate a root project to an initiative.",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteLink, "Cannot link")
	},
}
