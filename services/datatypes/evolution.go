// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// EvolutionHelp is the structured explanatory payload attached to an
// evolution: what the recommended change is and where to read more.
type EvolutionHelp struct {
	Category    string `json:"category"`
	Status      string `json:"status"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Links       []Link `json:"links,omitempty"`
}

// Evolution is a trend/change record recommending how a module should
// evolve (framework upgrade, pattern migration, removal of a deprecated
// usage). Evolutions share the Keyword rebuild lifecycle: bulk-deleted
// and fully repopulated each analysis cycle.
//
// Type and Category are required; SubCategory is optional.
type Evolution struct {
	ID          string           `json:"_id"`
	Type        string           `json:"type" validate:"required"`
	Category    string           `json:"category" validate:"required"`
	SubCategory string           `json:"subCategory,omitempty"`
	Module      ModuleDescriptor `json:"module"`
	Help        EvolutionHelp    `json:"evolutionHelp"`
}

// Validate checks the required-field invariant.
func (e *Evolution) Validate() error {
	return validate.Struct(e)
}
