// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "time"

// Audit report types. The type routes the report to a renderer on the
// dashboard side: lighthouse-style reports carry an AuditHelp payload,
// static-analysis reports carry a StatusHelp classification.
const (
	AuditTypeLighthouse     = "lighthouse"
	AuditTypeStaticAnalysis = "static-analysis"
)

// AuditHelp is the explanatory payload of a lighthouse-style audit.
type AuditHelp struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

// AuditReport is the output of one code-quality check against a module.
//
// # Fields
//
//   - Type: Required. Routes the report to a renderer
//     ("lighthouse" or "static-analysis").
//   - Category/SubCategory: What was audited (performance,
//     accessibility, complexity, ...).
//   - Score/ScoreUnit: The measured value and its unit ("%" or a raw
//     metric unit).
//   - Status: One of "success", "warning", "error".
//   - AuditHelp: Present for lighthouse-style reports.
//   - StatusHelp: Present for static-analysis reports.
//   - Module: The owning module descriptor.
type AuditReport struct {
	ID          string           `json:"_id"`
	Type        string           `json:"type" validate:"required"`
	Category    string           `json:"category"`
	SubCategory string           `json:"subCategory,omitempty"`
	Status      string           `json:"status"`
	Score       float64          `json:"score"`
	ScoreUnit   string           `json:"scoreUnit,omitempty"`
	DateStart   time.Time        `json:"dateStart,omitempty"`
	DateEnd     time.Time        `json:"dateEnd,omitempty"`
	AuditHelp   *AuditHelp       `json:"auditHelp,omitempty"`
	StatusHelp  *StatusHelp      `json:"statusHelp,omitempty"`
	Module      ModuleDescriptor `json:"module"`
}

// Validate checks the required-field invariant.
func (a *AuditReport) Validate() error {
	return validate.Struct(a)
}
