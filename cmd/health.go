package cmd

import (
	"github.com/huangsam/orghealth/core"
	"github.com/spf13/cobra"
)

// healthCmd evaluates one entity or ranks a whole kind.
var healthCmd = &cobra.Command{
	Use:   "health [kind] [id]",
	Short: "Show the rolled-up health of a project, team or initiative.",
	Long: `Evaluate health as of the configured day and show how it rolls up.

Projects take their own latest update when they have no children, and the
average of their children otherwise. Teams average the projects they own and
the teams they lead. Initiatives average their related root projects.

With only a kind, every entity of that kind is evaluated in parallel and
ranked worst-first. With only an id, the kind is inferred.

Examples:
  # One project, inferring its kind
  orghealth health checkout

  # Every team, worst first
  orghealth health team --limit 10

  # Evaluate last month with the rounded classifier
  orghealth health initiative growth --today "4 weeks ago" --node-policy rounded`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteHealth, "Cannot evaluate health")
	},
}

// trendCmd prints the weekly history of one entity.
var trendCmd = &cobra.Command{
	Use:   "trend [kind] <id>",
	Short: "Show the weekly health buckets of one entity.",
	Long: `Show six completed weekly buckets ending at the last Monday before today,
plus the in-progress week when updates arrived after that Monday.

Examples:
  orghealth trend checkout
  orghealth trend team web --output csv`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteTrend, "Cannot build trend")
	},
}

// leavesCmd lists leaf projects beneath a node.
var leavesCmd = &cobra.Command{
	Use:   "leaves [kind] <id>",
	Short: "List the leaf projects beneath a project, team or initiative.",
	Long: `List every childless project reachable from a node.

For initiatives, the state derived from those leaves is shown too.

Examples:
  orghealth leaves initiative growth
  orghealth leaves web --output json`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteLeaves, "Cannot list leaves")
	},
}

// confidenceCmd scores the system-wide trend.
var confidenceCmd = &cobra.Command{
	Use:   "confidence",
	Short: "Score the system-wide trend and how far it can be trusted.",
	Long: `Combine the weekly trend of every active root project into one system
trend, then score confidence from update freshness, coverage and data volume.

Examples:
  orghealth confidence
  orghealth confidence --today 2026-03-18 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteConfidence, "Cannot score confidence")
	},
}

// reportCmd ranks the whole organization.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rank every team, initiative and active project worst-first.",
	Long: `Evaluate the whole organization in parallel and print one ranked table
followed by the system-wide confidence block.

Examples:
  orghealth report --limit 20
  orghealth report --output json --output-file org.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteReport, "Cannot build report")
	},
}

// checkCmd dry-runs a project transition.
var checkCmd = &cobra.Command{
	Use:   "check <project-id> <state>",
	Short: "Check whether a project may move to a state (exits 1 when not).",
	Long: `Validate a project state change without writing it.

Useful for scripts that gate on the lifecycle before calling transition.

Examples:
  orghealth check checkout done`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteCheckTransition, "Cannot check transition")
	},
}
