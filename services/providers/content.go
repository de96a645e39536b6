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

// FaqProvider manages the FAQ collection: back-office edited help
// content, listed portfolio-wide.
type FaqProvider struct {
	base
}

// NewFaqProvider creates a provider over the injected store handle.
func NewFaqProvider(store *storage.Store, log *logging.Logger) *FaqProvider {
	return &FaqProvider{base: newBase(store, log)}
}

// Create validates and persists one FAQ entry, assigning its identity.
func (p *FaqProvider) Create(ctx context.Context, faq *datatypes.Faq) (*datatypes.Faq, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	if err := faq.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	created := *faq
	if created.ID == "" {
		created.ID = newID()
	}
	if err := p.store.Put(datatypes.KindFaq, created.ID, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Edit performs a full-field update of an existing FAQ entry.
func (p *FaqProvider) Edit(ctx context.Context, faq *datatypes.Faq) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if faq.ID == "" {
		return "", ErrMissingIdentity
	}
	if err := faq.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := p.store.Put(datatypes.KindFaq, faq.ID, faq); err != nil {
		return "", err
	}
	return faq.ID, nil
}

// Delete removes one FAQ entry by identity; no-op success if missing.
func (p *FaqProvider) Delete(ctx context.Context, id string) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrMissingIdentity
	}
	if err := p.store.Delete(datatypes.KindFaq, id); err != nil {
		return "", err
	}
	return id, nil
}

// List returns all FAQ entries ordered by title.
func (p *FaqProvider) List(ctx context.Context) ([]datatypes.Faq, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	var faqs []datatypes.Faq
	err := p.store.List(datatypes.KindFaq, func(id string, raw []byte) error {
		var f datatypes.Faq
		if err := json.Unmarshal(raw, &f); err != nil {
			return err
		}
		faqs = append(faqs, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(faqs, func(i, j int) bool { return faqs[i].Title < faqs[j].Title })
	return faqs, nil
}

// NotificationProvider manages the portfolio-wide notification
// collection.
type NotificationProvider struct {
	base
}

// NewNotificationProvider creates a provider over the injected store handle.
func NewNotificationProvider(store *storage.Store, log *logging.Logger) *NotificationProvider {
	return &NotificationProvider{base: newBase(store, log)}
}

// Create validates and persists one notification, assigning its identity.
func (p *NotificationProvider) Create(ctx context.Context, notification *datatypes.Notification) (*datatypes.Notification, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	if err := notification.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	created := *notification
	if created.ID == "" {
		created.ID = newID()
	}
	if err := p.store.Put(datatypes.KindNotification, created.ID, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Edit performs a full-field update of an existing notification.
func (p *NotificationProvider) Edit(ctx context.Context, notification *datatypes.Notification) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if notification.ID == "" {
		return "", ErrMissingIdentity
	}
	if err := notification.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := p.store.Put(datatypes.KindNotification, notification.ID, notification); err != nil {
		return "", err
	}
	return notification.ID, nil
}

// Delete removes one notification by identity; no-op success if missing.
func (p *NotificationProvider) Delete(ctx context.Context, id string) (string, error) {
	if err := p.ready(ctx); err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrMissingIdentity
	}
	if err := p.store.Delete(datatypes.KindNotification, id); err != nil {
		return "", err
	}
	return id, nil
}

// List returns all notifications ordered by title.
func (p *NotificationProvider) List(ctx context.Context) ([]datatypes.Notification, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}

	var notifications []datatypes.Notification
	err := p.store.List(datatypes.KindNotification, func(id string, raw []byte) error {
		var n datatypes.Notification
		if err := json.Unmarshal(raw, &n); err != nil {
			return err
		}
		notifications = append(notifications, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].Title < notifications[j].Title })
	return notifications, nil
}
