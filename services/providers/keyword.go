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
	"sort"

	"github.com/AleutianAI/vitality/pkg/logging"
	"github.com/AleutianAI/vitality/services/datatypes"
	"github.com/AleutianAI/vitality/services/storage"
)

// KeywordProvider is the only code path to the keyword collection.
//
// Keywords follow the rebuild lifecycle: DeleteAll then bulk Create
// each analysis cycle, never partial patches.
type KeywordProvider struct {
	base
}

// NewKeywordProvider creates a provider over the injected store handle.
func NewKeywordProvider(store *storage.Store, log *logging.Logger) *KeywordProvider {
	return &KeywordProvider{base: newBase(store, log)}
}

// Create validates and persists one keyword, assigning its identity.
// Returns ErrInvalidRecord when label or status is missing; in that
// case nothing was written.
func (p *KeywordProvider) Create(ctx context.Context, keyword *datatypes.Keyword) (*datatypes.Keyword, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	if err := keyword.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	created := *keyword
	if created.ID == "" {
		created.ID = newID()
	}
	if err := p.store.Put(datatypes.KindKeyword, created.ID, &created); err != nil {
		return nil, err
	}

	p.log.Debug("keyword created", "keyword_id", created.ID, "label", created.Label, "app_id", created.Module.AppID)
	return &created, nil
}

// Edit performs a full-field update of an existing keyword and returns
// its identity. Requires a non-empty ID and a valid record.
func (p *KeywordProvider) Edit(ctx context.Context, keyword *datatypes.Keyword) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if keyword.ID == "" {
		return "", ErrMissingIdentity
	}
	if err := keyword.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := p.store.Put(datatypes.KindKeyword, keyword.ID, keyword); err != nil {
		return "", err
	}
	return keyword.ID, nil
}

// Delete removes one keyword by identity. Deleting a missing keyword
// is a no-op success.
func (p *KeywordProvider) Delete(ctx context.Context, id string) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrMissingIdentity
	}
	if err := p.store.Delete(datatypes.KindKeyword, id); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteAll truncates the keyword collection. Used exclusively as the
// first half of a rebuild cycle.
func (p *KeywordProvider) DeleteAll(ctx context.Context) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	if err := p.store.DropKind(datatypes.KindKeyword); err != nil {
		return err
	}
	p.log.Info("keyword collection truncated")
	return nil
}

// ListByApp returns the keywords owned by one application, paged.
// No matches is an empty result, not an error.
func (p *KeywordProvider) ListByApp(ctx context.Context, appID string, page Page) ([]datatypes.Keyword, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	var keywords []datatypes.Keyword
	err := p.store.List(datatypes.KindKeyword, func(id string, raw []byte) error {
		var k datatypes.Keyword
		if err := json.Unmarshal(raw, &k); err != nil {
			return err
		}
		if k.Module.AppID == appID {
			keywords = append(keywords, k)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applyPage(keywords, page), nil
}

// StatsParams scopes a stats query. Both fields are optional: an empty
// AppID covers the whole portfolio, empty Labels covers all keywords.
type StatsParams struct {
	AppID  string
	Labels []string
}

// Stats aggregates keyword usage grouped by (label, version, status).
// Each group carries a representative keyword and the total number of
// records in the group, ordered by label then version for determinism.
func (p *KeywordProvider) Stats(ctx context.Context, params StatsParams) ([]datatypes.KeywordStat, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(params.Labels))
	for _, label := range params.Labels {
		wanted[label] = true
	}

	type groupKey struct{ label, version, status string }
	groups := make(map[groupKey]*datatypes.KeywordStat)

	err := p.store.List(datatypes.KindKeyword, func(id string, raw []byte) error {
		var k datatypes.Keyword
		if err := json.Unmarshal(raw, &k); err != nil {
			return err
		}
		if params.AppID != "" && k.Module.AppID != params.AppID {
			return nil
		}
		if len(wanted) > 0 && !wanted[k.Label] {
			return nil
		}
		gk := groupKey{k.Label, k.Version, k.Status}
		if g, ok := groups[gk]; ok {
			g.Total++
		} else {
			groups[gk] = &datatypes.KeywordStat{Keyword: k, Total: 1}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := make([]datatypes.KeywordStat, 0, len(groups))
	for _, g := range groups {
		stats = append(stats, *g)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Keyword.Label != stats[j].Keyword.Label {
			return stats[i].Keyword.Label < stats[j].Keyword.Label
		}
		return stats[i].Keyword.Version < stats[j].Keyword.Version
	})
	return stats, nil
}
