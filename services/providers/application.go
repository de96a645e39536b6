// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/vitality/pkg/logging"
	"github.com/AleutianAI/vitality/services/datatypes"
	"github.com/AleutianAI/vitality/services/storage"
)

// ApplicationProvider is the only code path to the application
// collection. Applications are keyed by AppID (the portfolio-wide
// application key) rather than a generated identity, and are managed
// through form input, never rebuilt by analyzers.
type ApplicationProvider struct {
	base
}

// NewApplicationProvider creates a provider over the injected store handle.
func NewApplicationProvider(store *storage.Store, log *logging.Logger) *ApplicationProvider {
	return &ApplicationProvider{base: newBase(store, log)}
}

// CreateForm assembles an application from form input and persists it.
// Returns ErrInvalidRecord when the form lacks an AppID.
func (p *ApplicationProvider) CreateForm(ctx context.Context, form *datatypes.ApplicationForm) (*datatypes.Application, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	app := form.Build()
	if err := p.store.Put(datatypes.KindApplication, app.AppID, &app); err != nil {
		return nil, err
	}

	p.log.Info("application created", "app_id", app.AppID, "name", app.Name)
	return &app, nil
}

// EditForm rebuilds an existing application from form input and
// persists the full-field update, returning the AppID.
func (p *ApplicationProvider) EditForm(ctx context.Context, form *datatypes.ApplicationForm) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if form.AppID == "" {
		return "", ErrMissingIdentity
	}
	if err := form.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	app := form.Build()
	if err := p.store.Put(datatypes.KindApplication, app.AppID, &app); err != nil {
		return "", err
	}

	p.log.Info("application edited", "app_id", app.AppID)
	return app.AppID, nil
}

// Delete removes one application by AppID; no-op success if missing.
// Result records owned by the application are not cascaded; they are
// replaced on the next analysis cycle.
func (p *ApplicationProvider) Delete(ctx context.Context, appID string) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if appID == "" {
		return "", ErrMissingIdentity
	}
	if err := p.store.Delete(datatypes.KindApplication, appID); err != nil {
		return "", err
	}
	p.log.Info("application deleted", "app_id", appID)
	return appID, nil
}

// DeleteAll truncates the application collection (portfolio reset).
func (p *ApplicationProvider) DeleteAll(ctx context.Context) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	if err := p.store.DropKind(datatypes.KindApplication); err != nil {
		return err
	}
	p.log.Warn("application collection truncated")
	return nil
}

// Count returns the number of stored applications. It iterates keys
// only, so no record is deserialized.
func (p *ApplicationProvider) Count(ctx context.Context) (int, error) {
	if err := p.ready(ctx); err != nil {
		return 0, err
	}
	return p.store.Count(datatypes.KindApplication)
}

// GetByAppID returns one application or ErrNotFound.
func (p *ApplicationProvider) GetByAppID(ctx context.Context, appID string) (*datatypes.Application, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	if appID == "" {
		return nil, ErrMissingIdentity
	}

	var app datatypes.Application
	err := p.store.Get(datatypes.KindApplication, appID, &app)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// SearchParams scopes an application search.
type SearchParams struct {
	// SearchText, when non-empty, keeps applications whose name,
	// acronym or description contains it (case-insensitive).
	SearchText string
	Page       Page
}

// SearchAndCount returns the matching applications, paged, together
// with the total match count before paging. Results are ordered by
// AppID for stable pagination.
func (p *ApplicationProvider) SearchAndCount(ctx context.Context, params SearchParams) ([]datatypes.Application, int, error) {
	if err := p.ready(ctx); err != nil {
		return nil, 0, err
	}

	needle := strings.ToLower(params.SearchText)
	var apps []datatypes.Application
	err := p.store.List(datatypes.KindApplication, func(id string, raw []byte) error {
		var app datatypes.Application
		if err := json.Unmarshal(raw, &app); err != nil {
			return err
		}
		if needle != "" && !matchesSearch(&app, needle) {
			return nil
		}
		apps = append(apps, app)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].AppID < apps[j].AppID })
	total := len(apps)
	return applyPage(apps, params.Page), total, nil
}

// matchesSearch reports whether the lowercase needle appears in the
// application's name, acronym or description.
func matchesSearch(app *datatypes.Application, needle string) bool {
	return strings.Contains(strings.ToLower(app.Name), needle) ||
		strings.Contains(strings.ToLower(app.Acronym), needle) ||
		strings.Contains(strings.ToLower(app.Description), needle)
}
