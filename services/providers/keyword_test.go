// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/AleutianAI/vitality/services/datatypes"
	"github.com/AleutianAI/vitality/services/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(storage.InMemoryConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestKeywordProvider_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		keyword datatypes.Keyword
		wantErr bool
	}{
		{
			name:    "valid keyword",
			keyword: datatypes.Keyword{Label: "React", Status: datatypes.StatusError, Version: "16.8.0"},
			wantErr: false,
		},
		{
			name:    "version is optional",
			keyword: datatypes.Keyword{Label: "Express", Status: datatypes.StatusSuccess},
			wantErr: false,
		},
		{
			name:    "empty label rejected",
			keyword: datatypes.Keyword{Status: datatypes.StatusError},
			wantErr: true,
		},
		{
			name:    "empty status rejected",
			keyword: datatypes.Keyword{Label: "React"},
			wantErr: true,
		},
		{
			name:    "unknown status rejected",
			keyword: datatypes.Keyword{Label: "React", Status: "critical"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewKeywordProvider(newTestStore(t), nil)
			created, err := p.Create(context.Background(), &tt.keyword)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRecord) {
					t.Fatalf("Create() error = %v, want ErrInvalidRecord", err)
				}
				// A rejected create must leave the store untouched.
				all, listErr := p.ListByApp(context.Background(), tt.keyword.Module.AppID, Page{})
				if listErr != nil {
					t.Fatalf("ListByApp() error = %v", listErr)
				}
				if len(all) != 0 {
					t.Fatalf("store has %d keywords after rejected create, want 0", len(all))
				}
				return
			}

			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if created.ID == "" {
				t.Fatal("Create() left ID empty")
			}
		})
	}
}

func TestKeywordProvider_EditRequiresIdentity(t *testing.T) {
	p := NewKeywordProvider(newTestStore(t), nil)

	_, err := p.Edit(context.Background(), &datatypes.Keyword{Label: "React", Status: datatypes.StatusError})
	if !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("Edit() error = %v, want ErrMissingIdentity", err)
	}
}

func TestKeywordProvider_DeleteMissingIsNoop(t *testing.T) {
	p := NewKeywordProvider(newTestStore(t), nil)

	id, err := p.Delete(context.Background(), "no-such-keyword")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if id != "no-such-keyword" {
		t.Fatalf("Delete() id = %q", id)
	}
}

func TestKeywordProvider_StatsAndDeleteAll(t *testing.T) {
	p := NewKeywordProvider(newTestStore(t), nil)
	ctx := context.Background()

	module := datatypes.ModuleDescriptor{AppID: "5", Branch: "feature/x"}
	seed := []datatypes.Keyword{
		{Label: "React", Status: datatypes.StatusError, Version: "16.8.0", Module: module},
		{Label: "Next.js", Status: datatypes.StatusWarning, Version: "13.0.0", Module: module},
	}
	for i := range seed {
		if _, err := p.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create(%q) error = %v", seed[i].Label, err)
		}
	}
	// A keyword of another application must not leak into the stats.
	other := datatypes.Keyword{Label: "Angular", Status: datatypes.StatusSuccess, Version: "17.0.0",
		Module: datatypes.ModuleDescriptor{AppID: "7", Branch: "main"}}
	if _, err := p.Create(ctx, &other); err != nil {
		t.Fatalf("Create(other app) error = %v", err)
	}

	stats, err := p.Stats(ctx, StatsParams{AppID: "5"})
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Stats() returned %d groups, want 2", len(stats))
	}
	// Ordered by label: Next.js before React.
	if stats[0].Keyword.Label != "Next.js" || stats[0].Total != 1 {
		t.Fatalf("stats[0] = %q/%d, want Next.js/1", stats[0].Keyword.Label, stats[0].Total)
	}
	if stats[1].Keyword.Label != "React" || stats[1].Total != 1 {
		t.Fatalf("stats[1] = %q/%d, want React/1", stats[1].Keyword.Label, stats[1].Total)
	}

	if err := p.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	keywords, err := p.ListByApp(ctx, "5", Page{})
	if err != nil {
		t.Fatalf("ListByApp() after truncation error = %v", err)
	}
	if len(keywords) != 0 {
		t.Fatalf("ListByApp() after truncation returned %d keywords, want empty", len(keywords))
	}
}

func TestKeywordProvider_StatsGroupsDuplicates(t *testing.T) {
	p := NewKeywordProvider(newTestStore(t), nil)
	ctx := context.Background()

	// Same (label, version, status) across two apps collapses into one
	// group when no app filter is set.
	for _, appID := range []string{"1", "2", "2"} {
		k := datatypes.Keyword{Label: "React", Status: datatypes.StatusWarning, Version: "18.2.0",
			Module: datatypes.ModuleDescriptor{AppID: appID, Branch: "main"}}
		if _, err := p.Create(ctx, &k); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	diverging := datatypes.Keyword{Label: "React", Status: datatypes.StatusError, Version: "16.8.0",
		Module: datatypes.ModuleDescriptor{AppID: "3", Branch: "main"}}
	if _, err := p.Create(ctx, &diverging); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stats, err := p.Stats(ctx, StatsParams{Labels: []string{"React"}})
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Stats() returned %d groups, want 2", len(stats))
	}
	if stats[0].Keyword.Version != "16.8.0" || stats[0].Total != 1 {
		t.Fatalf("stats[0] = %q/%d, want 16.8.0/1", stats[0].Keyword.Version, stats[0].Total)
	}
	if stats[1].Keyword.Version != "18.2.0" || stats[1].Total != 3 {
		t.Fatalf("stats[1] = %q/%d, want 18.2.0/3", stats[1].Keyword.Version, stats[1].Total)
	}
}

func TestKeywordProvider_ListByAppPagination(t *testing.T) {
	p := NewKeywordProvider(newTestStore(t), nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		k := datatypes.Keyword{Label: "React", Status: datatypes.StatusSuccess,
			Module: datatypes.ModuleDescriptor{AppID: "app-1", Branch: "main"}}
		if _, err := p.Create(ctx, &k); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	page, err := p.ListByApp(ctx, "app-1", Page{Offset: 3, Limit: 10})
	if err != nil {
		t.Fatalf("ListByApp() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("ListByApp(offset=3) returned %d keywords, want 2", len(page))
	}

	beyond, err := p.ListByApp(ctx, "app-1", Page{Offset: 50, Limit: 10})
	if err != nil {
		t.Fatalf("ListByApp() error = %v", err)
	}
	if len(beyond) != 0 {
		t.Fatalf("ListByApp(offset=50) returned %d keywords, want empty", len(beyond))
	}
}

func TestProvider_ClosedStore(t *testing.T) {
	store := newTestStore(t)
	p := NewKeywordProvider(store, nil)
	store.Close()

	_, err := p.Create(context.Background(), &datatypes.Keyword{Label: "React", Status: datatypes.StatusSuccess})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Create() on closed store error = %v, want ErrStoreUnavailable", err)
	}
	if got := ErrorKind(err); got != "store_unavailable" {
		t.Fatalf("ErrorKind() = %q, want store_unavailable", got)
	}
}
