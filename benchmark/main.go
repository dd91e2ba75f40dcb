// Package main provides a performance benchmarking tool for the cardiorisk CLI.
// It measures training time across forest sizes and batch assessment time with
// and without assessment history, running each test multiple times, treating
// the first successful run as cold and averaging the rest as warm, and
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - cardiorisk binary installed and available in PATH
// - A labelled training CSV (the eleven clinical fields plus HeartDisease)
//
// Usage: go run ./benchmark [heart.csv]
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of one benchmark suite (cold run and average of warm runs).
type BenchmarkResult struct {
	Command  string
	Variant  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DataPath  string
	WorkDir   string
	Timeout   time.Duration
	Workers   int
	Runs      int
	TreeSizes []int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [heart.csv]\n", os.Args[0])
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "cardiorisk-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		DataPath:  os.Args[1],
		WorkDir:   workDir,
		Timeout:   5 * time.Minute,
		Workers:   8,
		Runs:      4,
		TreeSizes: []int{25, 100, 300},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the cardiorisk binary and the dataset exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("cardiorisk"); err != nil {
		return fmt.Errorf("cardiorisk binary not found in PATH")
	}
	if _, err := os.Stat(config.DataPath); os.IsNotExist(err) {
		return fmt.Errorf("dataset not found at %s", config.DataPath)
	}
	return nil
}

// runBenchmarks executes the training and batch suites
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %v timeout, %d workers, %d runs per suite\n",
		config.Timeout, config.Workers, config.Runs)

	modelPath := filepath.Join(config.WorkDir, "model.crm")
	for _, trees := range config.TreeSizes {
		variant := fmt.Sprintf("%d trees", trees)
		args := []string{"train", config.DataPath, "--out", modelPath, "--trees", fmt.Sprint(trees), "--model-backend", "none"}
		results = append(results, runBenchmarkSuite(config, "train", variant, args, nil))
	}

	// Batch assessment reuses the last trained model
	batchArgs := []string{"batch", config.DataPath, "--model", modelPath, "--model-backend", "none", "--output-file", os.DevNull}
	results = append(results, runBenchmarkSuite(config, "batch", "no history", batchArgs, []string{"CARDIORISK_HISTORY_BACKEND=none"}))
	historyEnv := []string{
		"CARDIORISK_HISTORY_BACKEND=sqlite",
		"CARDIORISK_HISTORY_DB_CONNECT=" + filepath.Join(config.WorkDir, "history.db"),
	}
	results = append(results, runBenchmarkSuite(config, "batch", "sqlite history", batchArgs, historyEnv))

	return results
}

// runBenchmarkSuite runs one command several times and summarizes the timings
func runBenchmarkSuite(config BenchmarkConfig, command, variant string, args, env []string) BenchmarkResult {
	fmt.Printf("Running %s (%s)\n", command, variant)

	coldTime, warmTimes := runBenchmark(config, command, args, env)

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}
	warmAvg := "N/A"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Command:  command,
		Variant:  variant,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a cardiorisk command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command string, args, env []string) (coldTime float64, warmTimes []float64) {
	args = append(args, "--workers", fmt.Sprint(config.Workers), "--color", "no")

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("cardiorisk", args...)
		cmd.Dir = config.WorkDir
		cmd.Env = append(os.Environ(), env...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "train" {
		return strings.Contains(outputStr, "Trained") && strings.Contains(outputStr, "trees")
	}
	return strings.Contains(outputStr, "Assessing") && strings.Contains(outputStr, "rows")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/cardiorisk_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"cmd", "variant", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Command, result.Variant, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "train", "Training:")
	printCommandSummary(results, "batch", "Batch Assessment:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-16s: Cold: %s, Warm: %s\n", result.Variant, result.ColdTime, result.WarmTime)
		}
	}
}
