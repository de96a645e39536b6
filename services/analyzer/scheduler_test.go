// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/time/rate"

	"github.com/AleutianAI/vitality/services/providers"
)

func TestLoadPortfolio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	content := `applications:
  - appId: "5"
    workspace: /srv/workspaces/dashboard
    branch: main
  - appId: "7"
    workspace: /srv/workspaces/checkout
    branch: develop
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing portfolio: %v", err)
	}

	p, err := LoadPortfolio(path)
	if err != nil {
		t.Fatalf("LoadPortfolio() error = %v", err)
	}
	if len(p.Applications) != 2 {
		t.Fatalf("LoadPortfolio() found %d applications, want 2", len(p.Applications))
	}
	if p.Applications[0].AppID != "5" || p.Applications[0].Branch != "main" {
		t.Fatalf("first entry = %+v", p.Applications[0])
	}
}

func TestLoadPortfolio_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"missing appId", "applications:\n  - workspace: /tmp/ws\n"},
		{"missing workspace", "applications:\n  - appId: \"5\"\n"},
		{"malformed yaml", "applications: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("writing portfolio: %v", err)
			}
			if _, err := LoadPortfolio(path); err == nil {
				t.Fatal("LoadPortfolio() accepted an invalid portfolio")
			}
		})
	}
}

func TestScheduler_RunCycle(t *testing.T) {
	f := newRunnerFixture(t)
	ctx := context.Background()

	portfolio := &Portfolio{Applications: []PortfolioEntry{
		{AppID: "5", Workspace: writeWorkspace(t, reactManifest), Branch: "main"},
		{AppID: "7", Workspace: writeWorkspace(t, `{"name":"checkout","dependencies":{"vue":"3.4.0"}}`), Branch: "main"},
	}}

	s := NewScheduler(f.runner, SchedulerConfig{Parallelism: 2, AnalysesPerSecond: rate.Inf}, nil)
	summary, err := s.RunCycle(ctx, portfolio)
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if !summary.OK() {
		t.Fatalf("cycle summary = %+v, want all jobs ok", summary.Completions)
	}
	if len(summary.Completions) != 3 {
		t.Fatalf("cycle ran %d jobs, want 3", len(summary.Completions))
	}

	// Both applications' keywords survive one cycle: the kind is
	// cleared once per cycle, not once per application.
	for _, appID := range []string{"5", "7"} {
		keywords, err := f.keywords.ListByApp(ctx, appID, providers.Page{})
		if err != nil {
			t.Fatalf("ListByApp(%s) error = %v", appID, err)
		}
		if len(keywords) == 0 {
			t.Fatalf("application %s has no keywords after the cycle", appID)
		}
	}
}
