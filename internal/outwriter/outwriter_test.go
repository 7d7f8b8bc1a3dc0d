package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func textConfig() *contract.Config {
	return &contract.Config{Output: schema.TextOut, Precision: 2, Width: 160, Workers: 2, StoreBackend: schema.MemoryBackend}
}

func sampleEntities() []schema.EntityHealth {
	raw := -1.0
	return []schema.EntityHealth{
		{
			Kind: schema.ProjectKind, ID: "p1", Name: "Checkout", State: schema.StateInProgress,
			Health: schema.OffTrack, RawScore: &raw, Leaves: 2,
			Trend: []schema.TrendPoint{{Date: day(3, 2), Health: schema.OnTrack}, {Date: day(3, 9), Health: schema.OffTrack}},
		},
		{Kind: schema.TeamKind, ID: "t1", Name: "Web", Health: schema.NotAvailable},
	}
}

func sampleConfidence() schema.TrendConfidenceResult {
	days := 3
	return schema.TrendConfidenceResult{
		Points: []schema.WeeklyPoint{
			{WeekStart: day(3, 2), Score: 1, Health: schema.OnTrack},
			{WeekStart: day(3, 9), Score: 0, Health: schema.AtRisk},
		},
		Direction:       schema.DirectionDown,
		Delta:           -1,
		WeeksOfData:     2,
		ConfidenceScore: 53,
		ConfidenceLevel: schema.ConfidenceMedium,
		Factors: schema.ConfidenceFactors{
			BiggestDrag:     schema.DragVariance,
			VariancePenalty: 30,
			DaysSinceUpdate: &days,
			ActiveProjects:  2,
			FreshProjects:   2,
		},
	}
}

func TestWriteEntityTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEntityTable(&buf, sampleEntities(), textConfig(), createFormatter(2)))
	out := buf.String()
	assert.Contains(t, out, "Checkout")
	assert.Contains(t, out, "Off Track")
	assert.Contains(t, out, "-1.00")
	assert.Contains(t, out, "+-")
	assert.Contains(t, out, "N/A")
}

func TestWriteEntityCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEntityCSV(&buf, sampleEntities(), createFormatter(1)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"rank", "kind", "id", "name", "state", "health", "label", "raw_score", "trend", "leaves"}, records[0])
	assert.Equal(t, []string{"1", "project", "p1", "Checkout", "in_progress", "off_track", "Off Track", "-1.0", "+-", "2"}, records[1])
	assert.Equal(t, "", records[2][7], "no raw score for an empty team")
}

func TestPrintEntityHealthJSON(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "health.json")
	require.NoError(t, PrintEntityHealth(sampleEntities(), cfg, time.Second))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, float64(1), got[0]["rank"])
	assert.Equal(t, "Off Track", got[0]["label"])
	assert.Equal(t, "p1", got[0]["id"])
	assert.NotContains(t, got[1], "raw_score")
}

func TestPrintEntityHealthText(t *testing.T) {
	cfg := textConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "health.txt")
	require.NoError(t, PrintEntityHealth(sampleEntities(), cfg, time.Second))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Evaluated 2 entities")
	assert.Contains(t, string(data), "Store backend: memory")
}

func TestWriteTrendTable(t *testing.T) {
	updated := day(3, 10)
	entity := schema.EntityHealth{
		Kind: schema.ProjectKind, ID: "p1", Name: "Checkout",
		Trend: []schema.TrendPoint{
			{Date: day(3, 2), Health: schema.NotAvailable},
			{Date: day(3, 10), Health: schema.AtRisk, UpdateDate: &updated, Description: "vendor slip", Current: true},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, writeTrendTable(&buf, entity, textConfig()))
	out := buf.String()
	assert.Contains(t, out, "Trend for project Checkout (p1): .~")
	assert.Contains(t, out, "2026-03-10 (current)")
	assert.Contains(t, out, "vendor slip")

	buf.Reset()
	require.NoError(t, writeTrendTable(&buf, schema.EntityHealth{Kind: schema.TeamKind, ID: "t1"}, textConfig()))
	assert.Contains(t, buf.String(), "No health updates recorded.")
}

func TestWriteTrendCSV(t *testing.T) {
	updated := day(3, 4)
	entity := schema.EntityHealth{
		Kind: schema.InitiativeKind, ID: "i1",
		Trend: []schema.TrendPoint{{Date: day(3, 2), Health: schema.OnTrack, UpdateDate: &updated}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeTrendCSV(&buf, entity))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "initiative,i1,2026-03-02,on_track,2026-03-04,false,", lines[1])
}

func TestWriteConfidenceSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConfidenceSummary(&buf, sampleConfidence(), textConfig(), createFormatter(2)))
	out := buf.String()
	assert.Contains(t, out, "2026-03-09")
	assert.Contains(t, out, "53 (medium)")
	assert.Contains(t, out, "variance=30, staleness=0, coverage=0")
	assert.Contains(t, out, "2 of 2 active projects fresh")

	buf.Reset()
	require.NoError(t, writeConfidenceSummary(&buf, schema.TrendConfidenceResult{ConfidenceLevel: schema.ConfidenceLow}, textConfig(), createFormatter(2)))
	assert.Contains(t, buf.String(), "Days since update:  -")
}

func TestWriteConfidenceCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConfidenceCSV(&buf, sampleConfidence(), createFormatter(2)))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2026-03-09", "0.00", "at_risk", "down", "53", "medium"}, records[2])
}

func TestPrintReportJSON(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "report.json")
	report := schema.ReportResult{Entities: sampleEntities(), Confidence: sampleConfidence()}
	require.NoError(t, PrintReport(report, cfg, time.Second))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var got struct {
		Entities   []schema.EnrichedEntityHealth `json:"entities"`
		Confidence schema.TrendConfidenceResult  `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Entities, 2)
	assert.Equal(t, 2, got.Entities[1].Rank)
	assert.Equal(t, 53, got.Confidence.ConfidenceScore)
}

func TestPrintReportText(t *testing.T) {
	cfg := textConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "report.txt")
	report := schema.ReportResult{Entities: sampleEntities(), Confidence: sampleConfidence()}
	require.NoError(t, PrintReport(report, cfg, time.Second))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	out := string(data)
	assert.Less(t, strings.Index(out, "Checkout"), strings.Index(out, "Direction:"))
	assert.Contains(t, out, "Report completed")
}

func TestWriteLeaves(t *testing.T) {
	result := schema.LeavesResult{
		Kind: schema.InitiativeKind, ID: "i1", DerivedState: schema.StateTodo,
		Leaves: []schema.Project{
			{ID: "a", Name: "Alpha", State: schema.StateDone, TeamID: "web"},
			{ID: "b", Name: "Beta", State: schema.StateTodo},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeLeavesTable(&buf, result, textConfig()))
	assert.Contains(t, buf.String(), "Leaf projects of initiative i1: 2")
	assert.Contains(t, buf.String(), "Alpha")
	assert.Contains(t, buf.String(), "Derived state: todo")

	buf.Reset()
	require.NoError(t, writeLeavesCSV(&buf, result))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "Beta", "todo", "false", "", ""}, records[2])
}

func TestWriteMutationText(t *testing.T) {
	tests := []struct {
		name     string
		result   schema.MutationResult
		contains []string
	}{
		{
			name:     "success with detail",
			result:   schema.MutationResult{Action: "Transitioned", Kind: "project", ID: "p1", Detail: "todo -> in_progress"},
			contains: []string{"✅ Transitioned project p1: todo -> in_progress"},
		},
		{
			name:     "cascade",
			result:   schema.MutationResult{Action: "Set state of", Kind: "initiative", ID: "i1", Cascaded: []string{"a", "b"}},
			contains: []string{"Cascaded to 2 leaf projects: a, b"},
		},
		{
			name:     "failure",
			result:   schema.MutationResult{Result: schema.Fail("project is already done"), Action: "Transition", Kind: "project", ID: "p1"},
			contains: []string{"❌ Transition project p1 failed: 1 problem(s)", "  - project is already done"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeMutationText(&buf, tt.result))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestPrintMutationResultJSON(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, PrintMutationResult(schema.MutationResult{Result: schema.Fail("nope"), Action: "Create"}, cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Create", got["action"])
	assert.Equal(t, []any{"nope"}, got["errors"])
}

func TestWriteTransitionText(t *testing.T) {
	tests := []struct {
		name     string
		result   schema.TransitionCheckResult
		contains []string
	}{
		{
			name:     "allowed",
			result:   schema.TransitionCheckResult{ProjectID: "p1", From: schema.StateTodo, To: schema.StateBlocked, Allowed: []schema.WorkState{schema.StateInProgress, schema.StateBlocked}},
			contains: []string{"✅ project p1: todo -> blocked", "Allowed from todo: in_progress, blocked"},
		},
		{
			name:     "terminal state",
			result:   schema.TransitionCheckResult{Result: schema.Fail("project is already done"), ProjectID: "p1", From: schema.StateDone, To: schema.StateTodo},
			contains: []string{"❌ project p1: done -> todo", "  - project is already done", "Allowed from done: none"},
		},
		{
			name:     "unknown project",
			result:   schema.TransitionCheckResult{Result: schema.Fail("not found"), ProjectID: "zz", To: schema.StateTodo},
			contains: []string{"❌ project zz: ? -> todo"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeTransitionText(&buf, tt.result))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}
