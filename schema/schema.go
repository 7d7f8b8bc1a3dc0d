// Package schema has enums, records and result models for all parts of orghealth.
package schema

import "time"

// Project is a node in the project tree. A project has at most one parent.
type Project struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	State    WorkState `json:"state" yaml:"state"`
	Archived bool      `json:"archived,omitempty" yaml:"archived,omitempty"`
	ParentID string    `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	TeamID   string    `json:"team_id,omitempty" yaml:"team_id,omitempty"`
	Position int       `json:"position" yaml:"position"`
}

// WithState returns a copy of the project with the state replaced.
func (p Project) WithState(state WorkState) Project {
	p.State = state
	return p
}

// IsRoot reports whether the project has no parent.
func (p Project) IsRoot() bool {
	return p.ParentID == ""
}

// IsActive reports whether the project counts toward system-wide trend and confidence.
// Only the work state decides; archiving hides a project from listings, not from the trend.
func (p Project) IsActive() bool {
	return p.State != StateDone && p.State != StateOnHold
}

// Team is a node in the team tree. It owns leaf projects or has subordinate teams.
type Team struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Position int    `json:"position" yaml:"position"`
}

// Initiative groups root projects across the project tree.
type Initiative struct {
	ID    string    `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	State WorkState `json:"state" yaml:"state"`
}

// WithState returns a copy of the initiative with the state replaced.
func (i Initiative) WithState(state WorkState) Initiative {
	i.State = state
	return i
}

// HealthUpdate is a dated status observation for an owner.
// At most one update exists per owner and date.
type HealthUpdate struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"owner_id"`
	Date        time.Time   `json:"date"`
	Health      HealthValue `json:"health"`
	Description string      `json:"description,omitempty"`
}

// NewHealthUpdate builds an update with the date truncated to its day.
func NewHealthUpdate(id, ownerID string, date time.Time, health HealthValue, description string) HealthUpdate {
	return HealthUpdate{
		ID:          id,
		OwnerID:     ownerID,
		Date:        Day(date),
		Health:      health,
		Description: description,
	}
}

// WithHealth returns a copy of the update with the health replaced.
func (u HealthUpdate) WithHealth(health HealthValue) HealthUpdate {
	u.Health = health
	return u
}

// WithDescription returns a copy of the update with the description replaced.
func (u HealthUpdate) WithDescription(description string) HealthUpdate {
	u.Description = description
	return u
}

// Result is the outcome of a validated operation. It carries messages instead of errors.
type Result struct {
	Errors []string `json:"errors,omitempty"`
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Fail returns a failed result with a single message.
func Fail(msg string) Result {
	return Result{Errors: []string{msg}}
}

// Add appends a message to the result.
func (r *Result) Add(msg string) {
	r.Errors = append(r.Errors, msg)
}
