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

// AuditProvider is the only code path to the audit report collection.
type AuditProvider struct {
	base
}

// NewAuditProvider creates a provider over the injected store handle.
func NewAuditProvider(store *storage.Store, log *logging.Logger) *AuditProvider {
	return &AuditProvider{base: newBase(store, log)}
}

// Create validates and persists one audit report, assigning its identity.
func (p *AuditProvider) Create(ctx context.Context, report *datatypes.AuditReport) (*datatypes.AuditReport, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	created := *report
	if created.ID == "" {
		created.ID = newID()
	}
	if err := p.store.Put(datatypes.KindAuditReport, created.ID, &created); err != nil {
		return nil, err
	}

	p.log.Debug("audit report created", "report_id", created.ID, "type", created.Type, "app_id", created.Module.AppID)
	return &created, nil
}

// Edit performs a full-field update of an existing audit report.
func (p *AuditProvider) Edit(ctx context.Context, report *datatypes.AuditReport) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if report.ID == "" {
		return "", ErrMissingIdentity
	}
	if err := report.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := p.store.Put(datatypes.KindAuditReport, report.ID, report); err != nil {
		return "", err
	}
	return report.ID, nil
}

// Delete removes one audit report by identity; no-op success if missing.
func (p *AuditProvider) Delete(ctx context.Context, id string) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrMissingIdentity
	}
	if err := p.store.Delete(datatypes.KindAuditReport, id); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteAll truncates the audit report collection.
func (p *AuditProvider) DeleteAll(ctx context.Context) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	if err := p.store.DropKind(datatypes.KindAuditReport); err != nil {
		return err
	}
	p.log.Info("audit report collection truncated")
	return nil
}

// ListByApp returns the audit reports owned by one application, paged.
func (p *AuditProvider) ListByApp(ctx context.Context, appID string, page Page) ([]datatypes.AuditReport, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	var reports []datatypes.AuditReport
	err := p.store.List(datatypes.KindAuditReport, func(id string, raw []byte) error {
		var r datatypes.AuditReport
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		if r.Module.AppID == appID {
			reports = append(reports, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applyPage(reports, page), nil
}
