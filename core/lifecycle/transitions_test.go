package lifecycle

import (
	"testing"

	"github.com/huangsam/orghealth/schema"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to schema.WorkState
		want     bool
	}{
		{schema.StateNew, schema.StateTodo, true},
		{schema.StateNew, schema.StateDone, false},
		{schema.StateTodo, schema.StateInProgress, true},
		{schema.StateTodo, schema.StateDone, true},
		{schema.StateTodo, schema.StateTodo, false},
		{schema.StateInProgress, schema.StateTodo, false},
		{schema.StateInProgress, schema.StateOnHold, true},
		{schema.StateBlocked, schema.StateTodo, true},
		{schema.StateBlocked, schema.StateInProgress, false},
		{schema.StateOnHold, schema.StateDone, true},
		{schema.StateDone, schema.StateTodo, false},
		{schema.StateDone, schema.StateDone, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidateProjectTransition(t *testing.T) {
	tests := []struct {
		name     string
		from, to schema.WorkState
		errMsg   string
	}{
		{"done to todo rejected", schema.StateDone, schema.StateTodo, "transition from done to todo is not allowed"},
		{"self transition rejected", schema.StateTodo, schema.StateTodo, "project is already todo"},
		{"unknown target", schema.StateTodo, "finished", `invalid target state "finished"`},
		{"allowed", schema.StateTodo, schema.StateInProgress, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateProjectTransition(tt.from, tt.to)
			if tt.errMsg == "" {
				assert.True(t, res.OK())
				return
			}
			assert.False(t, res.OK())
			assert.Equal(t, []string{tt.errMsg}, res.Errors)
		})
	}
}

func TestAllowedTransitionsDoneIsTerminal(t *testing.T) {
	assert.Empty(t, AllowedTransitions(schema.StateDone))
	assert.Equal(t, []schema.WorkState{schema.StateTodo}, AllowedTransitions(schema.StateNew))
}

func TestInitiativeStates(t *testing.T) {
	assert.False(t, IsInitiativeState(schema.StateNew))
	for _, s := range []schema.WorkState{schema.StateTodo, schema.StateInProgress, schema.StateBlocked, schema.StateOnHold, schema.StateDone} {
		assert.True(t, IsInitiativeState(s), s)
	}

	assert.True(t, CascadesState(schema.StateTodo))
	assert.True(t, CascadesState(schema.StateOnHold))
	assert.True(t, CascadesState(schema.StateDone))
	assert.False(t, CascadesState(schema.StateInProgress))
	assert.False(t, CascadesState(schema.StateBlocked))
	assert.False(t, CascadesState(schema.StateNew))
}

func TestDeriveState(t *testing.T) {
	leaves := func(states ...schema.WorkState) []schema.Project {
		out := make([]schema.Project, len(states))
		for i, s := range states {
			out[i] = schema.Project{ID: string(rune('a' + i)), State: s}
		}
		return out
	}

	tests := []struct {
		name   string
		own    schema.WorkState
		leaves []schema.Project
		want   schema.WorkState
	}{
		{"no leaves keeps own", schema.StateBlocked, nil, schema.StateBlocked},
		{"all done", schema.StateTodo, leaves(schema.StateDone, schema.StateDone), schema.StateDone},
		{"any in progress", schema.StateTodo, leaves(schema.StateDone, schema.StateBlocked, schema.StateInProgress), schema.StateInProgress},
		{"blocked without progress", schema.StateTodo, leaves(schema.StateBlocked, schema.StateTodo), schema.StateBlocked},
		{"open leaves on hold", schema.StateTodo, leaves(schema.StateOnHold, schema.StateDone), schema.StateOnHold},
		{"mixed open leaves", schema.StateDone, leaves(schema.StateNew, schema.StateOnHold), schema.StateTodo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveState(tt.own, tt.leaves))
		})
	}
}
