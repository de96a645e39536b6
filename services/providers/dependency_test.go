// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package providers

import (
	"context"
	"testing"

	"github.com/AleutianAI/vitality/services/datatypes"
)

func TestDependencyProvider_ListByAppFiltersUnreadable(t *testing.T) {
	p := NewDependencyProvider(newTestStore(t), nil)
	ctx := context.Background()

	readable := datatypes.Dependency{
		Name:    "react",
		Version: "16.8.0",
		Module:  datatypes.ModuleDescriptor{AppID: "5", Branch: "main"},
		StatusHelp: datatypes.StatusHelp{
			Category: "dependency",
			Title:    "Outdated major version",
		},
	}
	// Valid record, but missing the display fields the list endpoint
	// requires: no branch and no status help title.
	unreadable := datatypes.Dependency{
		Name:   "lodash",
		Module: datatypes.ModuleDescriptor{AppID: "5"},
	}

	for _, d := range []datatypes.Dependency{readable, unreadable} {
		dep := d
		if _, err := p.Create(ctx, &dep); err != nil {
			t.Fatalf("Create(%q) error = %v", d.Name, err)
		}
	}

	deps, err := p.ListByApp(ctx, "5", Page{})
	if err != nil {
		t.Fatalf("ListByApp() error = %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("ListByApp() returned %d dependencies, want 1", len(deps))
	}
	if deps[0].Name != "react" {
		t.Fatalf("ListByApp() kept %q, want react", deps[0].Name)
	}
}

func TestDependencyProvider_CreateRequiresName(t *testing.T) {
	p := NewDependencyProvider(newTestStore(t), nil)

	_, err := p.Create(context.Background(), &datatypes.Dependency{Version: "1.0.0"})
	if err == nil {
		t.Fatal("Create() accepted a dependency without a name")
	}
	if got := ErrorKind(err); got != "invalid_record" {
		t.Fatalf("ErrorKind() = %q, want invalid_record", got)
	}
}
