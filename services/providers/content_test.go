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
)

func TestFaqProvider_CreateAndList(t *testing.T) {
	p := NewFaqProvider(newTestStore(t), nil)
	ctx := context.Background()

	for _, title := range []string{"What is a keyword?", "How often do analyses run?"} {
		faq := datatypes.Faq{Title: title, Description: "see the docs"}
		created, err := p.Create(ctx, &faq)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", title, err)
		}
		if created.ID == "" {
			t.Fatal("Create() left ID empty")
		}
	}

	faqs, err := p.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(faqs) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(faqs))
	}
	// Ordered by title.
	if faqs[0].Title != "How often do analyses run?" {
		t.Fatalf("List()[0].Title = %q", faqs[0].Title)
	}
}

func TestFaqProvider_CreateRequiresTitle(t *testing.T) {
	p := NewFaqProvider(newTestStore(t), nil)

	_, err := p.Create(context.Background(), &datatypes.Faq{Description: "untitled"})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("Create() error = %v, want ErrInvalidRecord", err)
	}
}

func TestNotificationProvider_Lifecycle(t *testing.T) {
	p := NewNotificationProvider(newTestStore(t), nil)
	ctx := context.Background()

	created, err := p.Create(ctx, &datatypes.Notification{Title: "Maintenance window"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	created.Description = "Sunday 02:00 UTC"
	if _, err := p.Edit(ctx, created); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	notifications, err := p.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notifications) != 1 || notifications[0].Description != "Sunday 02:00 UTC" {
		t.Fatalf("List() = %+v, want the edited notification", notifications)
	}

	if _, err := p.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	notifications, err = p.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notifications) != 0 {
		t.Fatalf("List() after delete returned %d entries, want 0", len(notifications))
	}
}
