// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/vitality/pkg/logging"
	"github.com/AleutianAI/vitality/services/analyzer"
	"github.com/AleutianAI/vitality/services/providers"
	"github.com/AleutianAI/vitality/services/storage"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	portfolioStore       string // Badger store path written by the cycle
	portfolioParallelism int    // Concurrent per-application computations
	portfolioRate        float64
	portfolioJSON        bool
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Work with portfolio definition files",
}

// portfolioValidateCmd parses a portfolio file without touching any
// store, so broken definitions are caught before a scheduled cycle
// picks them up.
var portfolioValidateCmd = &cobra.Command{
	Use:   "validate [portfolio.yaml]",
	Short: "Validate a portfolio definition file",
	Args:  cobra.ExactArgs(1),
	Run:   runPortfolioValidateCommand,
}

// portfolioRunCmd executes one full analysis cycle in-process.
//
// # Description
//
// Opens the result store directly and runs every built-in job over
// the portfolio, exactly as the service's scheduler would. The store
// must not be held by a running service; Badger takes an exclusive
// directory lock.
//
// # Examples
//
//	vitality portfolio run portfolio.yaml --store ./data/vitality
//	vitality portfolio run portfolio.yaml --parallelism 8 --rate 5
var portfolioRunCmd = &cobra.Command{
	Use:   "run [portfolio.yaml]",
	Short: "Run one full analysis cycle over a portfolio",
	Args:  cobra.ExactArgs(1),
	Run:   runPortfolioRunCommand,
}

func init() {
	portfolioRunCmd.Flags().StringVar(&portfolioStore, "store", "./data/vitality",
		"Path of the result store directory")
	portfolioRunCmd.Flags().IntVar(&portfolioParallelism, "parallelism", 4,
		"Concurrent per-application computations")
	portfolioRunCmd.Flags().Float64Var(&portfolioRate, "rate", 1,
		"Per-application computations started per second")
	portfolioRunCmd.Flags().BoolVar(&portfolioJSON, "json", false,
		"Output as JSON for scripting")

	portfolioCmd.AddCommand(portfolioValidateCmd)
	portfolioCmd.AddCommand(portfolioRunCmd)
	rootCmd.AddCommand(portfolioCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runPortfolioValidateCommand(cmd *cobra.Command, args []string) {
	portfolio, err := analyzer.LoadPortfolio(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid portfolio file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Portfolio is valid: %d application(s)\n", len(portfolio.Applications))
	for _, entry := range portfolio.Applications {
		branch := entry.Branch
		if branch == "" {
			branch = "default"
		}
		fmt.Printf("  - %s: %s (branch %s)\n", entry.AppID, entry.Workspace, branch)
	}
}

func runPortfolioRunCommand(cmd *cobra.Command, args []string) {
	portfolio, err := analyzer.LoadPortfolio(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid portfolio file: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{Service: "vitality-cli"})
	store, err := storage.Open(storage.DefaultConfig(portfolioStore))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store at %s: %v\n", portfolioStore, err)
		os.Exit(1)
	}
	defer store.Close()

	runner := analyzer.NewRunner(store, analyzer.Writers{
		Keywords:     providers.NewKeywordProvider(store, log),
		Evolutions:   providers.NewEvolutionProvider(store, log),
		Dependencies: providers.NewDependencyProvider(store, log),
		AuditReports: providers.NewAuditProvider(store, log),
	}, analyzer.RunnerConfig{}, log, nil)

	scheduler := analyzer.NewScheduler(runner, analyzer.SchedulerConfig{
		Parallelism:       portfolioParallelism,
		AnalysesPerSecond: rate.Limit(portfolioRate),
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	summary, err := scheduler.RunCycle(ctx, portfolio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cycle aborted: %v\n", err)
		os.Exit(1)
	}

	if portfolioJSON {
		printJSON(summary.Completions)
	} else {
		jobs := make([]string, 0, len(summary.Completions))
		for job := range summary.Completions {
			jobs = append(jobs, job)
		}
		sort.Strings(jobs)
		for _, job := range jobs {
			c := summary.Completions[job]
			if c.OK {
				fmt.Printf("%-20s ok      %d records in %s\n", job, c.RecordsWritten, c.Duration.Round(time.Millisecond))
			} else {
				fmt.Printf("%-20s failed  %s\n", job, c.ErrorKind)
			}
		}
		fmt.Printf("Cycle finished in %s\n", time.Since(started).Round(time.Millisecond))
	}
	if !summary.OK() {
		os.Exit(1)
	}
}
