// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_DebounceCoalescesBursts(t *testing.T) {
	workspace := t.TempDir()
	portfolio := &Portfolio{Applications: []PortfolioEntry{
		{AppID: "5", Workspace: workspace, Branch: "main"},
	}}

	triggers := make(chan PortfolioEntry, 16)
	w, err := NewWatcher(portfolio, 200*time.Millisecond, func(e PortfolioEntry) {
		triggers <- e
	}, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// A burst of writes, as a checkout would produce.
	for i := 0; i < 5; i++ {
		name := filepath.Join(workspace, fmt.Sprintf("file-%d.ts", i))
		if err := os.WriteFile(name, []byte("export {};\n"), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case entry := <-triggers:
		if entry.AppID != "5" {
			t.Fatalf("trigger for app %q, want 5", entry.AppID)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no trigger after workspace burst")
	}

	// The burst must have collapsed into a single trigger.
	select {
	case <-triggers:
		t.Fatal("burst produced more than one trigger")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_IgnoresForeignPaths(t *testing.T) {
	workspace := t.TempDir()
	w := &Watcher{entries: []PortfolioEntry{{AppID: "5", Workspace: workspace}}}

	if _, found := w.entryFor(filepath.Join(workspace, "src", "index.ts")); !found {
		t.Fatal("entryFor() missed a path inside the workspace")
	}
	if _, found := w.entryFor("/somewhere/else/index.ts"); found {
		t.Fatal("entryFor() matched a path outside every workspace")
	}
}
