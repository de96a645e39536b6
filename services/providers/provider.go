// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package providers implements the Result Providers: one per result
// kind, the only code path allowed to touch the Result Store for that
// kind.
//
// Providers enforce required-field validation before writes and expose
// create/edit/delete/delete-all/list-by-owner/stats operations. Every
// failure is a typed error from the taxonomy in errors.go; providers
// never panic and never return a half-written result. Degrading errors
// to empty values is the aggregator's job, not the provider's.
package providers

import (
	"context"

	"github.com/google/uuid"

	"github.com/AleutianAI/vitality/pkg/logging"
	"github.com/AleutianAI/vitality/services/storage"
)

// Page carries best-effort pagination parameters. A zero Limit means
// "no limit". Offsets past the end yield an empty page, not an error.
type Page struct {
	Offset int
	Limit  int
}

// apply returns the window of items selected by the page.
func applyPage[T any](items []T, page Page) []T {
	if page.Offset > 0 {
		if page.Offset >= len(items) {
			return nil
		}
		items = items[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

// base holds the injected store handle and logger shared by all
// providers. The store is an explicit dependency; there is no global
// connection state.
type base struct {
	store *storage.Store
	log   *logging.Logger
}

func newBase(store *storage.Store, log *logging.Logger) base {
	if log == nil {
		log = logging.Default()
	}
	return base{store: store, log: log}
}

// ready returns ErrStoreUnavailable when the backing collection cannot
// be resolved, and the context error when the caller already gave up.
func (b *base) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.store == nil || !b.store.Ready() {
		return ErrStoreUnavailable
	}
	return nil
}

// newID generates a record identity.
func newID() string {
	return uuid.NewString()
}
