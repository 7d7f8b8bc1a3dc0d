// Package lifecycle has the project and initiative state machines and the
// validated mutations that keep the org graph consistent.
package lifecycle

import (
	"fmt"

	"github.com/huangsam/orghealth/schema"
)

// projectTransitions lists the allowed moves out of each project state.
var projectTransitions = map[schema.WorkState][]schema.WorkState{
	schema.StateNew:        {schema.StateTodo},
	schema.StateTodo:       {schema.StateInProgress, schema.StateBlocked, schema.StateOnHold, schema.StateDone},
	schema.StateInProgress: {schema.StateBlocked, schema.StateOnHold, schema.StateDone},
	schema.StateBlocked:    {schema.StateTodo, schema.StateDone},
	schema.StateOnHold:     {schema.StateTodo, schema.StateDone},
	schema.StateDone:       {},
}

// InitiativeStates lists the states an initiative can be set to.
var InitiativeStates = []schema.WorkState{
	schema.StateTodo, schema.StateInProgress, schema.StateBlocked, schema.StateOnHold, schema.StateDone,
}

// cascadingStates are pushed down to every leaf when an initiative is set with cascade.
var cascadingStates = map[schema.WorkState]struct{}{
	schema.StateTodo:   {},
	schema.StateOnHold: {},
	schema.StateDone:   {},
}

// AllowedTransitions returns the states a project may move to from the given state.
func AllowedTransitions(from schema.WorkState) []schema.WorkState {
	return projectTransitions[from]
}

// CanTransition reports whether a project may move from one state to another.
// A self-transition is never allowed.
func CanTransition(from, to schema.WorkState) bool {
	if from == to {
		return false
	}
	for _, s := range projectTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateProjectTransition explains why a transition is rejected, if it is.
func ValidateProjectTransition(from, to schema.WorkState) schema.Result {
	if !to.IsValid() {
		return schema.Fail(fmt.Sprintf("invalid target state %q", to))
	}
	if from == to {
		return schema.Fail(fmt.Sprintf("project is already %s", to))
	}
	if !CanTransition(from, to) {
		return schema.Fail(fmt.Sprintf("transition from %s to %s is not allowed", from, to))
	}
	return schema.Result{}
}

// IsInitiativeState reports whether an initiative can be set to s.
func IsInitiativeState(s schema.WorkState) bool {
	for _, st := range InitiativeStates {
		if st == s {
			return true
		}
	}
	return false
}

// CascadesState reports whether setting an initiative to s propagates to its leaves.
func CascadesState(s schema.WorkState) bool {
	_, ok := cascadingStates[s]
	return ok
}

// DeriveState summarises leaf states into one initiative state.
// With no leaves the initiative keeps its own state.
func DeriveState(own schema.WorkState, leaves []schema.Project) schema.WorkState {
	if len(leaves) == 0 {
		return own
	}

	counts := make(map[schema.WorkState]int)
	for _, l := range leaves {
		counts[l.State]++
	}
	open := len(leaves) - counts[schema.StateDone]

	switch {
	case open == 0:
		return schema.StateDone
	case counts[schema.StateInProgress] > 0:
		return schema.StateInProgress
	case counts[schema.StateBlocked] > 0:
		return schema.StateBlocked
	case counts[schema.StateOnHold] == open:
		return schema.StateOnHold
	default:
		return schema.StateTodo
	}
}
