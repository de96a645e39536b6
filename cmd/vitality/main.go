// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds the optional CLI configuration loaded from vitality.yaml.
//
// # Fields
//
//   - Server: base URL of the vitality service, e.g. "http://localhost:12300"
type Config struct {
	Server string `yaml:"server"`
}

var (
	config    Config
	serverURL string

	rootCmd = &cobra.Command{
		Use:   "vitality",
		Short: "A CLI to manage the Vitality portfolio analysis service",
		Long: `Vitality tracks the health of an application portfolio: which
frameworks each application uses, how far behind its dependencies are,
and how its codebase is trending over time.`,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Base URL of the vitality service (overrides vitality.yaml)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// vitality.yaml is optional; flags and env win over it.
		if yamlFile, err := os.ReadFile("vitality.yaml"); err == nil {
			if err := yaml.Unmarshal(yamlFile, &config); err != nil {
				log.Fatalf("Error parsing vitality.yaml: %v", err)
			}
		}
		if serverURL == "" {
			serverURL = config.Server
		}
		if serverURL == "" {
			serverURL = os.Getenv("VITALITY_SERVER")
		}
		if serverURL == "" {
			serverURL = "http://localhost:12300"
		}
	}
}
