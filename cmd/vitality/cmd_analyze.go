// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/vitality/services/analyzer"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	analyzeJob       string // Job name: keyword-evolution, dependency-status, audit
	analyzeWorkspace string // Checked-out workspace path on the server host
	analyzeBranch    string // Branch label recorded on result modules
	analyzeWait      bool   // Block until the run completes
	analyzeTimeout   string // How long to wait when --wait is set
	analyzeJSON      bool   // Output as JSON
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// analyzeCmd triggers an analysis run on the service and optionally
// waits for its completion.
//
// # Examples
//
//	vitality analyze 5 --workspace /srv/checkouts/dashboard
//	vitality analyze 5 -w /srv/checkouts/dashboard --job audit --wait
var analyzeCmd = &cobra.Command{
	Use:   "analyze [appId]",
	Short: "Trigger an analysis run for one application",
	Long: `Triggers an asynchronous analysis run on the vitality service.

The run clears the job's result kinds and rebuilds them from the
application's workspace. By default the command prints the run id and
returns immediately; use --wait to block until the run finishes.

Examples:
  vitality analyze 5 --workspace /srv/checkouts/dashboard
  vitality analyze 5 -w /srv/checkouts/dashboard --job dependency-status
  vitality analyze 5 -w /srv/checkouts/dashboard --wait --json`,
	Args: cobra.ExactArgs(1),
	Run:  runAnalyzeCommand,
}

// statusCmd shows the current state of a run.
var statusCmd = &cobra.Command{
	Use:   "status [runId]",
	Short: "Show the status of an analysis run",
	Args:  cobra.ExactArgs(1),
	Run:   runStatusCommand,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", analyzer.JobKeywordEvolution,
		"Job to run (keyword-evolution, dependency-status, audit)")
	analyzeCmd.Flags().StringVarP(&analyzeWorkspace, "workspace", "w", "",
		"Path to the application's checked-out workspace on the server host")
	analyzeCmd.Flags().StringVarP(&analyzeBranch, "branch", "b", "",
		"Branch label recorded on the analyzed modules")
	analyzeCmd.Flags().BoolVar(&analyzeWait, "wait", false,
		"Block until the run completes and report the outcome")
	analyzeCmd.Flags().StringVar(&analyzeTimeout, "timeout", "15m",
		"How long to wait for completion when --wait is set")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"Output as JSON for scripting")
	statusCmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"Output as JSON for scripting")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statusCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runAnalyzeCommand(cmd *cobra.Command, args []string) {
	if analyzeWorkspace == "" {
		fmt.Fprintln(os.Stderr, "Error: --workspace is required")
		os.Exit(1)
	}
	waitFor, err := time.ParseDuration(analyzeTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid timeout %q: %v\n", analyzeTimeout, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	client := newAPIClient(serverURL)
	req := analyzer.JobRequest{
		ApplicationID: args[0],
		Workspace:     analyzeWorkspace,
		Branch:        analyzeBranch,
		Job:           analyzeJob,
	}

	var triggered struct {
		RunID string `json:"runId"`
	}
	if err := client.postJSON(ctx, "/v1/analysis/runs", req, &triggered); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to trigger analysis: %v\n", err)
		os.Exit(1)
	}

	if !analyzeWait {
		if analyzeJSON {
			printJSON(triggered)
		} else {
			fmt.Printf("Run %s started (%s, application %s)\n", triggered.RunID, req.Job, req.ApplicationID)
		}
		return
	}

	status, err := awaitRun(ctx, client, triggered.RunID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Waiting for run %s: %v\n", triggered.RunID, err)
		os.Exit(1)
	}
	printRunStatus(status)
	if status.Completion != nil && !status.Completion.OK {
		os.Exit(1)
	}
}

func runStatusCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := newAPIClient(serverURL)
	var status analyzer.RunStatus
	if err := client.getJSON(ctx, "/v1/analysis/runs/"+args[0], &status); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch run status: %v\n", err)
		os.Exit(1)
	}
	printRunStatus(&status)
}

// awaitRun polls the run until it reaches a terminal state or ctx
// expires.
func awaitRun(ctx context.Context, client *apiClient, runID string) (*analyzer.RunStatus, error) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		var status analyzer.RunStatus
		if err := client.getJSON(ctx, "/v1/analysis/runs/"+runID, &status); err != nil {
			return nil, err
		}
		if status.State == analyzer.StateCompleted || status.State == analyzer.StateFailed {
			return &status, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func printRunStatus(status *analyzer.RunStatus) {
	if analyzeJSON {
		printJSON(status)
		return
	}
	fmt.Printf("Run:         %s\n", status.ID)
	fmt.Printf("Job:         %s\n", status.Request.Job)
	fmt.Printf("Application: %s\n", status.Request.ApplicationID)
	fmt.Printf("State:       %s\n", status.State)
	if c := status.Completion; c != nil {
		if c.OK {
			fmt.Printf("Outcome:     ok, %d records written in %s\n", c.RecordsWritten, c.Duration.Round(time.Millisecond))
		} else {
			fmt.Printf("Outcome:     failed (%s) after %s\n", c.ErrorKind, c.Duration.Round(time.Millisecond))
		}
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		os.Exit(1)
	}
}
