// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// Keyword statuses. A keyword classifies a detected technology or
// library usage; the status encodes how healthy that usage is.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// Keyword represents a detected technology/library usage in one module
// of a tracked application.
//
// # Description
//
// Keywords are produced by the keyword-evolution analyzer job and are
// bulk-deleted and fully rebuilt each analysis cycle; they are never
// partially patched. Label and Status are required for create/edit to
// succeed.
//
// # Fields
//
//   - ID: Generated identity (UUID), assigned by the provider.
//   - Label: Required. The technology name (e.g. "React").
//   - Status: Required. One of "success", "warning", "error".
//   - Version: Detected version string, may be empty.
//   - Module: The owning module descriptor.
type Keyword struct {
	ID      string           `json:"_id"`
	Label   string           `json:"label" validate:"required"`
	Status  string           `json:"status" validate:"required,oneof=success warning error"`
	Version string           `json:"version"`
	Module  ModuleDescriptor `json:"module"`
}

// Validate checks the required-field invariant (non-empty label and a
// known status).
func (k *Keyword) Validate() error {
	return validate.Struct(k)
}

// KeywordStat is one aggregated group of keyword usage: the
// representative keyword plus how many records share its
// (label, version, status) grouping.
type KeywordStat struct {
	Keyword Keyword `json:"keyword"`
	Total   int     `json:"total"`
}
