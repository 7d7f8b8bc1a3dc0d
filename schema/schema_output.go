package schema

// EntityHealth is the evaluated health of a single node.
type EntityHealth struct {
	Kind     EntityKind   `json:"kind"`
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	State    WorkState    `json:"state,omitempty"` // Empty for teams
	Health   HealthValue  `json:"health"`
	RawScore *float64     `json:"raw_score,omitempty"`
	Trend    []TrendPoint `json:"trend,omitempty"`
	Leaves   int          `json:"leaves,omitempty"`
}

// EnrichedEntityHealth adds presentation data to an EntityHealth.
type EnrichedEntityHealth struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	EntityHealth
}

// ReportResult is the organization-wide health report.
type ReportResult struct {
	Entities   []EntityHealth        `json:"entities"`
	Confidence TrendConfidenceResult `json:"confidence"`
}

// LeavesResult lists the leaf projects beneath a node.
type LeavesResult struct {
	Kind         EntityKind `json:"kind"`
	ID           string     `json:"id"`
	Leaves       []Project  `json:"leaves"`
	DerivedState WorkState  `json:"derived_state,omitempty"` // Initiatives only
}

// CascadeResult is the outcome of an initiative state change.
type CascadeResult struct {
	Result
	InitiativeID string    `json:"initiative_id"`
	State        WorkState `json:"state"`
	Cascaded     []string  `json:"cascaded,omitempty"` // Leaf project IDs that were force-set
}

// GetPlainLabel returns a plain text label for a health value.
func GetPlainLabel(h HealthValue) string {
	switch h {
	case OnTrack:
		return "On Track"
	case AtRisk:
		return "At Risk"
	case OffTrack:
		return "Off Track"
	default:
		return "N/A"
	}
}

// EnrichEntities adds rank and label to a list of entity health results.
func EnrichEntities(entities []EntityHealth) []EnrichedEntityHealth {
	output := make([]EnrichedEntityHealth, len(entities))
	for i, e := range entities {
		output[i] = EnrichedEntityHealth{
			Rank:         i + 1,
			Label:        GetPlainLabel(e.Health),
			EntityHealth: e,
		}
	}
	return output
}

// MutationResult is the printable outcome of a write command.
type MutationResult struct {
	Result
	Action   string   `json:"action"`
	Kind     string   `json:"kind,omitempty"`
	ID       string   `json:"id,omitempty"`
	Detail   string   `json:"detail,omitempty"`
	Cascaded []string `json:"cascaded,omitempty"`
}

// TransitionCheckResult reports whether a project may move to a target state.
type TransitionCheckResult struct {
	Result
	ProjectID string      `json:"project_id"`
	From      WorkState   `json:"from,omitempty"`
	To        WorkState   `json:"to"`
	Allowed   []WorkState `json:"allowed"`
}
