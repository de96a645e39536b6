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

// EvolutionProvider is the only code path to the evolution collection.
// Evolutions share the keyword rebuild lifecycle.
type EvolutionProvider struct {
	base
}

// NewEvolutionProvider creates a provider over the injected store handle.
func NewEvolutionProvider(store *storage.Store, log *logging.Logger) *EvolutionProvider {
	return &EvolutionProvider{base: newBase(store, log)}
}

// Create validates and persists one evolution, assigning its identity.
func (p *EvolutionProvider) Create(ctx context.Context, evolution *datatypes.Evolution) (*datatypes.Evolution, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	if err := evolution.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	created := *evolution
	if created.ID == "" {
		created.ID = newID()
	}
	if err := p.store.Put(datatypes.KindEvolution, created.ID, &created); err != nil {
		return nil, err
	}

	p.log.Debug("evolution created", "evolution_id", created.ID, "category", created.Category, "app_id", created.Module.AppID)
	return &created, nil
}

// Edit performs a full-field update of an existing evolution.
func (p *EvolutionProvider) Edit(ctx context.Context, evolution *datatypes.Evolution) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if evolution.ID == "" {
		return "", ErrMissingIdentity
	}
	if err := evolution.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := p.store.Put(datatypes.KindEvolution, evolution.ID, evolution); err != nil {
		return "", err
	}
	return evolution.ID, nil
}

// Delete removes one evolution by identity; no-op success if missing.
func (p *EvolutionProvider) Delete(ctx context.Context, id string) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrMissingIdentity
	}
	if err := p.store.Delete(datatypes.KindEvolution, id); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteAll truncates the evolution collection.
func (p *EvolutionProvider) DeleteAll(ctx context.Context) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	if err := p.store.DropKind(datatypes.KindEvolution); err != nil {
		return err
	}
	p.log.Info("evolution collection truncated")
	return nil
}

// ListByApp returns the evolutions owned by one application, paged.
func (p *EvolutionProvider) ListByApp(ctx context.Context, appID string, page Page) ([]datatypes.Evolution, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	var evolutions []datatypes.Evolution
	err := p.store.List(datatypes.KindEvolution, func(id string, raw []byte) error {
		var e datatypes.Evolution
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		if e.Module.AppID == appID {
			evolutions = append(evolutions, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applyPage(evolutions, page), nil
}
