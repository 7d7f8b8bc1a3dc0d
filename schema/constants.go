package schema

// Custom string types for type safety.
type (
	// HealthValue represents a qualitative health status.
	HealthValue string

	// WorkState represents the lifecycle state of a project or initiative.
	WorkState string

	// EntityKind represents the kind of node in the organization graph.
	EntityKind string

	// Direction represents the direction of the system-wide trend.
	Direction string

	// ConfidenceLevel represents the bucketed confidence score.
	ConfidenceLevel string

	// DragFactor names the penalty that lowers confidence the most.
	DragFactor string

	// NodePolicy selects the classifier used for node rollups.
	NodePolicy string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the store.
	DatabaseBackend string
)

// All health values supported.
const (
	OnTrack      HealthValue = "on_track"
	AtRisk       HealthValue = "at_risk"
	OffTrack     HealthValue = "off_track"
	NotAvailable HealthValue = "not_available" // never averaged
)

// All work states supported.
const (
	StateNew        WorkState = "new"
	StateTodo       WorkState = "todo"
	StateInProgress WorkState = "in_progress"
	StateBlocked    WorkState = "blocked"
	StateOnHold     WorkState = "on_hold"
	StateDone       WorkState = "done"
)

// All entity kinds supported.
const (
	ProjectKind    EntityKind = "project"
	TeamKind       EntityKind = "team"
	InitiativeKind EntityKind = "initiative"
)

// All trend directions supported.
const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// All confidence levels supported.
const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// All drag factors supported. The first three are declared in tie-break order.
const (
	DragVariance         DragFactor = "variance"
	DragStaleness        DragFactor = "staleness"
	DragCoverage         DragFactor = "coverage"
	DragNone             DragFactor = "none"
	DragInsufficientData DragFactor = "insufficient_data"
)

// All node policies supported.
const (
	StrictPolicy  NodePolicy = "strict" // default
	RoundedPolicy NodePolicy = "rounded"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	MemoryBackend     DatabaseBackend = "memory"
)

// AllWorkStates lists every work state in lifecycle order.
var AllWorkStates = []WorkState{StateNew, StateTodo, StateInProgress, StateBlocked, StateOnHold, StateDone}

// ValidHealthValues lists all health values, including not_available.
var ValidHealthValues = map[HealthValue]struct{}{
	OnTrack:      {},
	AtRisk:       {},
	OffTrack:     {},
	NotAvailable: {},
}

// ReportableHealthValues lists the health values a health update may carry.
var ReportableHealthValues = map[HealthValue]struct{}{
	OnTrack:  {},
	AtRisk:   {},
	OffTrack: {},
}

// ValidWorkStates lists all work states.
var ValidWorkStates = map[WorkState]struct{}{
	StateNew:        {},
	StateTodo:       {},
	StateInProgress: {},
	StateBlocked:    {},
	StateOnHold:     {},
	StateDone:       {},
}

// WorkingStates lists the states in which health reporting is meaningful.
var WorkingStates = map[WorkState]struct{}{
	StateInProgress: {},
	StateBlocked:    {},
}

// ValidEntityKinds lists all entity kinds.
var ValidEntityKinds = map[EntityKind]struct{}{
	ProjectKind:    {},
	TeamKind:       {},
	InitiativeKind: {},
}

// ValidNodePolicies lists all node policies.
var ValidNodePolicies = map[NodePolicy]struct{}{
	StrictPolicy:  {},
	RoundedPolicy: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	MemoryBackend:     {},
}

// IsWorking reports whether the state is a working state.
func (s WorkState) IsWorking() bool {
	_, ok := WorkingStates[s]
	return ok
}

// IsValid reports whether the state is a known work state.
func (s WorkState) IsValid() bool {
	_, ok := ValidWorkStates[s]
	return ok
}

// IsValid reports whether the value is a known health value.
func (h HealthValue) IsValid() bool {
	_, ok := ValidHealthValues[h]
	return ok
}

// IsReportable reports whether the value may be stored in a health update.
func (h HealthValue) IsReportable() bool {
	_, ok := ReportableHealthValues[h]
	return ok
}

// IsValid reports whether the kind is a known entity kind.
func (k EntityKind) IsValid() bool {
	_, ok := ValidEntityKinds[k]
	return ok
}
