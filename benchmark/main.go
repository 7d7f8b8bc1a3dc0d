// Package main provides a performance benchmarking tool for the orghealth CLI.
// It generates synthetic orgs of several sizes, imports each into a private SQLite store
// and times the evaluation commands with one worker and with many,
// treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - orghealth binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated snapshots and stores (defaults to a temp dir)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/orghealth/internal/store"
	"github.com/huangsam/orghealth/schema"
)

// BenchmarkResult holds the result of a benchmark run (serial average, cold run and average of warm runs).
type BenchmarkResult struct {
	Org        string
	Command    string
	SerialTime string
	ColdTime   string
	WarmTime   string
}

// OrgSize describes one synthetic org.
type OrgSize struct {
	Name     string
	Teams    int
	Roots    int // Root projects per team
	Depth    int // Levels of children beneath each root
	Fanout   int // Children per project
	Weeks    int // Weekly updates per leaf
	Linkages int // Root projects per initiative
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	Workers    int
	SerialRuns int
	WarmRuns   int
	Today      string
	Sizes      []OrgSize
	Commands   map[string][]string
}

func main() {
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := ""
	if len(os.Args) == 2 {
		workDir = os.Args[1]
	} else {
		dir, err := os.MkdirTemp("", "orghealth-bench-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	}

	config := BenchmarkConfig{
		WorkDir:    workDir,
		Timeout:    5 * time.Minute,
		Workers:    14,
		SerialRuns: 3,
		WarmRuns:   4,
		Today:      "2026-03-18",
		Sizes: []OrgSize{
			{Name: "small", Teams: 3, Roots: 2, Depth: 1, Fanout: 3, Weeks: 6, Linkages: 2},
			{Name: "medium", Teams: 10, Roots: 4, Depth: 2, Fanout: 4, Weeks: 8, Linkages: 4},
			{Name: "large", Teams: 40, Roots: 5, Depth: 3, Fanout: 4, Weeks: 12, Linkages: 6},
		},
		Commands: map[string][]string{
			"report":     {"report", "--limit", "0"},
			"confidence": {"confidence"},
			"teams":      {"health", "team", "--limit", "0"},
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config)
}

// checkPrerequisites verifies that the orghealth binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("orghealth"); err != nil {
		return fmt.Errorf("orghealth binary not found in PATH")
	}
	return nil
}

// buildSnapshot generates a synthetic org with a mix of health values and states.
func buildSnapshot(size OrgSize, today time.Time) store.Snapshot {
	healths := []schema.HealthValue{schema.OnTrack, schema.OnTrack, schema.AtRisk, schema.OffTrack}
	var snap store.Snapshot
	seq := 0

	var project func(prefix string, depth int) store.ProjectSpec
	project = func(prefix string, depth int) store.ProjectSpec {
		seq++
		spec := store.ProjectSpec{
			ID:    fmt.Sprintf("%s-%d", prefix, seq),
			Name:  fmt.Sprintf("Project %d", seq),
			State: schema.StateInProgress,
		}
		if depth == 0 {
			for w := range size.Weeks {
				day := today.AddDate(0, 0, -7*(size.Weeks-w))
				spec.Updates = append(spec.Updates, store.UpdateSpec{
					Date:   schema.FormatDay(day),
					Health: healths[(seq+w)%len(healths)],
				})
			}
			return spec
		}
		for range size.Fanout {
			spec.Children = append(spec.Children, project(prefix, depth-1))
		}
		return spec
	}

	var roots []string
	for t := range size.Teams {
		teamID := fmt.Sprintf("team-%d", t)
		snap.Teams = append(snap.Teams, store.TeamSpec{ID: teamID, Name: fmt.Sprintf("Team %d", t)})
		for range size.Roots {
			root := project(teamID, size.Depth)
			root.Team = teamID
			roots = append(roots, root.ID)
			snap.Projects = append(snap.Projects, root)
		}
	}

	for i := 0; i*size.Linkages < len(roots); i++ {
		end := min((i+1)*size.Linkages, len(roots))
		snap.Initiatives = append(snap.Initiatives, store.InitiativeSpec{
			ID:       fmt.Sprintf("init-%d", i),
			Name:     fmt.Sprintf("Initiative %d", i),
			State:    schema.StateInProgress,
			Projects: roots[i*size.Linkages : end],
		})
	}
	return snap
}

// prepareOrg writes the snapshot for a size and imports it into a private store.
func prepareOrg(config BenchmarkConfig, size OrgSize) (string, error) {
	home := filepath.Join(config.WorkDir, size.Name)
	if err := os.MkdirAll(home, 0o755); err != nil {
		return "", err
	}
	today, err := time.Parse(time.DateOnly, config.Today)
	if err != nil {
		return "", err
	}

	path := filepath.Join(home, "org.yaml")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := store.WriteSnapshot(file, buildSnapshot(size, today)); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	for _, args := range [][]string{{"store", "clear"}, {"snapshot", "import", path}} {
		cmd := orghealthCommand(home, args)
		if output, err := cmd.CombinedOutput(); err != nil {
			return "", fmt.Errorf("%s failed: %w\nOutput: %s", strings.Join(args, " "), err, string(output))
		}
	}
	return home, nil
}

// orghealthCommand builds a command that uses the store under home.
func orghealthCommand(home string, args []string) *exec.Cmd {
	cmd := exec.Command("orghealth", args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "HOME="+home)
	return cmd
}

// runBenchmarks executes all benchmark commands across configured org sizes
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d orgs, %v timeout, %d workers, serial: %d runs, parallel: %d runs\n",
		len(config.Sizes), config.Timeout, config.Workers, config.SerialRuns, config.WarmRuns)

	for _, size := range config.Sizes {
		fmt.Printf("Preparing %s org\n", size.Name)
		home, err := prepareOrg(config, size)
		if err != nil {
			return nil, err
		}
		for _, name := range []string{"report", "confidence", "teams"} {
			results = append(results, runBenchmarkSuite(config, size.Name, home, name, config.Commands[name]))
		}
	}
	return results, nil
}

// runBenchmarkSuite runs both serial and parallel benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, org, home, name string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", name, org)

	runPhase := func(workers, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, home, args, workers, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: one worker
	_, serialAvg := runPhase(1, config.SerialRuns, "Serial")

	// Phase 2: full worker pool
	coldTime, warmAvg := runPhase(config.Workers, config.WarmRuns, "Parallel")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Serial average: %s, Cold time: %s, Warm average: %s\n", serialAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Org:        org,
		Command:    name,
		SerialTime: serialAvg,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes a command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, home string, args []string, workers, numRuns int) (coldTime float64, warmTimes []float64) {
	full := append([]string{}, args...)
	full = append(full, "--workers", fmt.Sprint(workers), "--today", config.Today, "--output", "json")

	var times []float64
	for range numRuns {
		start := time.Now()
		cmd := orghealthCommand(home, full)

		done := make(chan error, 1)
		go func() {
			_, err := cmd.Output()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("orghealth_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"org", "cmd", "serial_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Org, result.Command, result.SerialTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, config BenchmarkConfig) {
	fmt.Printf("Benchmark complete\n")
	for _, name := range []string{"report", "confidence", "teams"} {
		fmt.Printf("%s:\n", name)
		for _, result := range results {
			if result.Command == name {
				fmt.Printf("  %-8s: Serial: %s, Cold: %s, Warm: %s (%d workers)\n",
					result.Org, result.SerialTime, result.ColdTime, result.WarmTime, config.Workers)
			}
		}
	}
}
