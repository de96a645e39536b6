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
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var healthJSON bool

// healthCmd checks whether the vitality service and its store are up.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the vitality service",
	Long: `Checks the service's /health endpoint and reports whether the
result store is available. Exits with code 1 when the service is
unreachable or degraded.`,
	Run: runHealthCommand,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false,
		"Output as JSON for scripting")
	rootCmd.AddCommand(healthCmd)
}

func runHealthCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The degraded response is a 503 with a useful body, so read it
	// directly instead of going through the generic JSON client.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/health", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid server URL %s: %v\n", serverURL, err)
		os.Exit(1)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service unreachable at %s: %v\n", serverURL, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var health struct {
		Status string `json:"status"`
		Store  string `json:"store,omitempty"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &health); err != nil || health.Status == "" {
		fmt.Fprintf(os.Stderr, "Unexpected health response (status %d) from %s\n", resp.StatusCode, serverURL)
		os.Exit(1)
	}

	if healthJSON {
		printJSON(health)
	} else {
		fmt.Printf("Service: %s\n", serverURL)
		fmt.Printf("Status:  %s\n", health.Status)
		if health.Store != "" {
			fmt.Printf("Store:   %s\n", health.Store)
		}
	}
	if health.Status != "ok" {
		os.Exit(1)
	}
}
