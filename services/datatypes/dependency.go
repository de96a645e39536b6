// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// StatusHelp classifies a dependency or audit finding: a category
// (e.g. "deprecated", "outdated") plus human-readable guidance.
type StatusHelp struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Dependency is a third-party package reference detected in one module,
// carrying a deprecation/freshness classification.
//
// # Description
//
// Dependencies are rebuilt by the dependency-status analyzer job.
// At read time the provider only surfaces dependencies whose module
// branch and status classification are populated; records missing
// either stay in the store but are excluded from the dependencies view.
//
// # Fields
//
//   - Name: Required. Package name as it appears in the manifest.
//   - Version: Version currently in use.
//   - RecommendedVersion: Latest known version, may be empty.
//   - Status: One of "success", "warning", "error".
//   - StatusHelp: Classification (category, title) plus guidance.
//   - Module: The owning module descriptor.
type Dependency struct {
	ID                 string           `json:"_id"`
	Type               string           `json:"type,omitempty"`
	Name               string           `json:"name" validate:"required"`
	Version            string           `json:"version"`
	RecommendedVersion string           `json:"recommendedVersion,omitempty"`
	Status             string           `json:"status"`
	StatusHelp         StatusHelp       `json:"statusHelp"`
	Module             ModuleDescriptor `json:"module"`
}

// Validate checks the required-field invariant.
func (d *Dependency) Validate() error {
	return validate.Struct(d)
}

// Readable reports whether the dependency carries enough context to be
// shown in the dependencies view: a populated module branch and a
// status classification with both category and title.
func (d *Dependency) Readable() bool {
	return d.Module.Branch != "" && d.StatusHelp.Category != "" && d.StatusHelp.Title != ""
}
