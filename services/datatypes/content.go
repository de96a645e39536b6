// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// Faq is one frequently-asked-question entry served to the dashboard.
// FAQs are edited through the back office, never rebuilt by analyzers.
type Faq struct {
	ID          string `json:"_id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Links       []Link `json:"links,omitempty"`
}

// Validate checks the required-field invariant.
func (f *Faq) Validate() error {
	return validate.Struct(f)
}

// Notification is a portfolio-wide announcement shown on the dashboard.
type Notification struct {
	ID          string `json:"_id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Links       []Link `json:"links,omitempty"`
}

// Validate checks the required-field invariant.
func (n *Notification) Validate() error {
	return validate.Struct(n)
}
