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
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/vitality/services/datatypes"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	appsSearch   string // Free-text filter on name, acronym, description
	appsKeywords string // Comma-separated keyword labels
	appsOffset   int    // Page offset
	appsLimit    int    // Page size
	appsJSON     bool   // Output as JSON
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Inspect the application portfolio",
}

// appsListCmd lists applications with the same filters the API exposes.
//
// # Examples
//
//	vitality apps list
//	vitality apps list --search dashboard
//	vitality apps list --keywords React,TypeScript --limit 10
var appsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications matching a search or keyword filter",
	Run:   runAppsListCommand,
}

var appsGetCmd = &cobra.Command{
	Use:   "get [appId]",
	Short: "Show the aggregated profile of one application",
	Args:  cobra.ExactArgs(1),
	Run:   runAppsGetCommand,
}

var appsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show portfolio-wide keyword statistics",
	Run:   runAppsStatsCommand,
}

func init() {
	appsListCmd.Flags().StringVarP(&appsSearch, "search", "s", "",
		"Free-text filter on name, acronym and description")
	appsListCmd.Flags().StringVarP(&appsKeywords, "keywords", "k", "",
		"Comma-separated keyword labels; matches applications owning any of them")
	appsListCmd.Flags().IntVar(&appsOffset, "offset", 0, "Page offset")
	appsListCmd.Flags().IntVar(&appsLimit, "limit", 50, "Page size")
	appsListCmd.Flags().BoolVar(&appsJSON, "json", false, "Output as JSON")
	appsGetCmd.Flags().BoolVar(&appsJSON, "json", false, "Output as JSON")
	appsStatsCmd.Flags().BoolVar(&appsJSON, "json", false, "Output as JSON")

	appsCmd.AddCommand(appsListCmd)
	appsCmd.AddCommand(appsGetCmd)
	appsCmd.AddCommand(appsStatsCmd)
	rootCmd.AddCommand(appsCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runAppsListCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	query := url.Values{}
	if appsSearch != "" {
		query.Set("searchText", appsSearch)
	}
	if appsKeywords != "" {
		query.Set("keywords", appsKeywords)
	}
	query.Set("offset", strconv.Itoa(appsOffset))
	query.Set("limit", strconv.Itoa(appsLimit))

	client := newAPIClient(serverURL)
	var listed struct {
		Applications []datatypes.Application `json:"applications"`
	}
	if err := client.getJSON(ctx, "/v1/applications?"+query.Encode(), &listed); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list applications: %v\n", err)
		os.Exit(1)
	}

	if appsJSON {
		printJSON(listed)
		return
	}
	if len(listed.Applications) == 0 {
		fmt.Println("No applications found.")
		return
	}
	for _, app := range listed.Applications {
		line := fmt.Sprintf("%-8s %s", app.AppID, app.Name)
		if app.Acronym != "" {
			line += " (" + app.Acronym + ")"
		}
		fmt.Println(line)
	}
}

func runAppsGetCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := newAPIClient(serverURL)
	var profile datatypes.ApplicationProfile
	if err := client.getJSON(ctx, "/v1/applications/"+args[0]+"/profile", &profile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch application profile: %v\n", err)
		os.Exit(1)
	}

	if appsJSON {
		printJSON(profile)
		return
	}
	if profile.Info == nil {
		fmt.Printf("Application %s has no recorded profile.\n", args[0])
		return
	}
	fmt.Printf("Application: %s (%s)\n", profile.Info.Name, profile.Info.AppID)
	if profile.Info.Description != "" {
		fmt.Printf("Description: %s\n", profile.Info.Description)
	}
	fmt.Printf("Keywords:    %d\n", len(profile.Keywords))
	fmt.Printf("Evolutions:  %d\n", len(profile.Evolutions))
	fmt.Printf("Modules:     %d dependency records, %d audit reports\n",
		len(profile.Dependencies), len(profile.AuditReports))
	for _, kw := range profile.Keywords {
		label := kw.Label
		if kw.Version != "" {
			label += " " + kw.Version
		}
		fmt.Printf("  - %s [%s]\n", label, kw.Status)
	}
}

func runAppsStatsCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	query := url.Values{}
	if appsKeywords != "" {
		query.Set("keywords", appsKeywords)
	}
	path := "/v1/applications/stats"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	client := newAPIClient(serverURL)
	var result struct {
		Stats []datatypes.KeywordStat `json:"stats"`
	}
	if err := client.getJSON(ctx, path, &result); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch keyword stats: %v\n", err)
		os.Exit(1)
	}

	if appsJSON {
		printJSON(result)
		return
	}
	if len(result.Stats) == 0 {
		fmt.Println("No keyword statistics recorded.")
		return
	}
	for _, group := range result.Stats {
		parts := []string{group.Keyword.Label}
		if group.Keyword.Version != "" {
			parts = append(parts, group.Keyword.Version)
		}
		fmt.Printf("%-40s %d\n", strings.Join(parts, " ")+" ["+group.Keyword.Status+"]", group.Total)
	}
}
