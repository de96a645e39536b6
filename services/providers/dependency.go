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
	"fmt"

	"github.com/AleutianAI/vitality/pkg/logging"
	"github.com/AleutianAI/vitality/services/datatypes"
	"github.com/AleutianAI/vitality/services/storage"
)

// DependencyProvider is the only code path to the dependency
// collection. Reads are filtered: only dependencies with a populated
// module branch and status classification are surfaced (the store may
// hold more).
type DependencyProvider struct {
	base
}

// NewDependencyProvider creates a provider over the injected store handle.
func NewDependencyProvider(store *storage.Store, log *logging.Logger) *DependencyProvider {
	return &DependencyProvider{base: newBase(store, log)}
}

// Create validates and persists one dependency, assigning its identity.
func (p *DependencyProvider) Create(ctx context.Context, dependency *datatypes.Dependency) (*datatypes.Dependency, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	if err := dependency.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	created := *dependency
	if created.ID == "" {
		created.ID = newID()
	}
	if err := p.store.Put(datatypes.KindDependency, created.ID, &created); err != nil {
		return nil, err
	}

	p.log.Debug("dependency created", "dependency_id", created.ID, "name", created.Name, "app_id", created.Module.AppID)
	return &created, nil
}

// Edit performs a full-field update of an existing dependency.
func (p *DependencyProvider) Edit(ctx context.Context, dependency *datatypes.Dependency) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if dependency.ID == "" {
		return "", ErrMissingIdentity
	}
	if err := dependency.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := p.store.Put(datatypes.KindDependency, dependency.ID, dependency); err != nil {
		return "", err
	}
	return dependency.ID, nil
}

// Delete removes one dependency by identity; no-op success if missing.
func (p *DependencyProvider) Delete(ctx context.Context, id string) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrMissingIdentity
	}
	if err := p.store.Delete(datatypes.KindDependency, id); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteAll truncates the dependency collection.
func (p *DependencyProvider) DeleteAll(ctx context.Context) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	if err := p.store.DropKind(datatypes.KindDependency); err != nil {
		return err
	}
	p.log.Info("dependency collection truncated")
	return nil
}

// ListByApp returns the readable dependencies owned by one
// application, paged. Records lacking a module branch or a status
// classification are excluded even though they remain in the store.
func (p *DependencyProvider) ListByApp(ctx context.Context, appID string, page Page) ([]datatypes.Dependency, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	var dependencies []datatypes.Dependency
	err := p.store.List(datatypes.KindDependency, func(id string, raw []byte) error {
		var d datatypes.Dependency
		if err := json.Unmarshal(raw, &d); err != nil {
			return err
		}
		if d.Module.AppID == appID && d.Readable() {
			dependencies = append(dependencies, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applyPage(dependencies, page), nil
}
