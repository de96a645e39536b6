// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

import (
	"context"
	"fmt"
	"path"

	"golang.org/x/mod/semver"

	"github.com/AleutianAI/vitality/services/datatypes"
)

// technology is one entry of the tracked-technology registry: an npm
// package the portfolio cares about, with the version floors that
// drive keyword status.
type technology struct {
	// Label is the display name emitted on keywords.
	Label string
	// Package is the npm package key in a manifest's dependencies.
	Package string
	// Category groups the technology on evolution records.
	Category string
	// Recommended is the minimum version considered current. Versions
	// below it get status "warning".
	Recommended string
	// Floor is the support cutoff. Versions below it get status
	// "error".
	Floor string
}

// trackedTechnologies is the built-in registry. Order determines
// nothing; results are keyed by label downstream.
var trackedTechnologies = []technology{
	{Label: "React", Package: "react", Category: "frontend-framework", Recommended: "18.0.0", Floor: "17.0.0"},
	{Label: "Next.js", Package: "next", Category: "frontend-framework", Recommended: "14.0.0", Floor: "13.0.0"},
	{Label: "Angular", Package: "@angular/core", Category: "frontend-framework", Recommended: "17.0.0", Floor: "15.0.0"},
	{Label: "Vue", Package: "vue", Category: "frontend-framework", Recommended: "3.3.0", Floor: "3.0.0"},
	{Label: "TypeScript", Package: "typescript", Category: "language-tooling", Recommended: "5.0.0", Floor: "4.5.0"},
	{Label: "Express", Package: "express", Category: "backend-framework", Recommended: "4.18.0", Floor: "4.16.0"},
	{Label: "NestJS", Package: "@nestjs/core", Category: "backend-framework", Recommended: "10.0.0", Floor: "9.0.0"},
	{Label: "Jest", Package: "jest", Category: "test-tooling", Recommended: "29.0.0", Floor: "27.0.0"},
	{Label: "Webpack", Package: "webpack", Category: "build-tooling", Recommended: "5.0.0", Floor: "4.0.0"},
	{Label: "Vite", Package: "vite", Category: "build-tooling", Recommended: "5.0.0", Floor: "4.0.0"},
}

// KeywordEvolutionJob detects tracked technologies in an application's
// manifests and derives the keyword collection plus upgrade evolutions
// from them. Owns both kinds: a cycle clears and repopulates keywords
// and evolutions together.
type KeywordEvolutionJob struct {
	registry []technology
}

// NewKeywordEvolutionJob creates the job with the built-in registry.
func NewKeywordEvolutionJob() *KeywordEvolutionJob {
	return &KeywordEvolutionJob{registry: trackedTechnologies}
}

func (j *KeywordEvolutionJob) Name() string { return JobKeywordEvolution }

func (j *KeywordEvolutionJob) Kinds() []datatypes.ResultKind {
	return []datatypes.ResultKind{datatypes.KindKeyword, datatypes.KindEvolution}
}

// Analyze scans the workspace manifests and emits one keyword per
// detected technology per module, and one evolution per keyword whose
// status is degraded.
func (j *KeywordEvolutionJob) Analyze(ctx context.Context, req JobRequest) (*ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifests, err := ScanManifests(req.Workspace)
	if err != nil {
		return nil, fmt.Errorf("scanning workspace %s: %w", req.Workspace, err)
	}

	results := &ResultSet{}
	for _, manifest := range manifests {
		module := datatypes.ModuleDescriptor{
			AppID:  req.ApplicationID,
			Branch: req.Branch,
			Path:   path.Dir(manifest.Path),
		}
		for _, tech := range j.registry {
			constraint, found := manifest.Dependencies[tech.Package]
			if !found {
				constraint, found = manifest.DevDependencies[tech.Package]
			}
			if !found {
				continue
			}

			version := normalizeVersion(constraint)
			status := classifyVersion(version, tech.Recommended, tech.Floor)
			results.Keywords = append(results.Keywords, datatypes.Keyword{
				Label:   tech.Label,
				Status:  status,
				Version: version,
				Module:  module,
			})

			if status == datatypes.StatusSuccess {
				continue
			}
			results.Evolutions = append(results.Evolutions, datatypes.Evolution{
				Type:        "upgrade",
				Category:    tech.Category,
				SubCategory: tech.Label,
				Module:      module,
				Help: datatypes.EvolutionHelp{
					Category: tech.Category,
					Status:   status,
					Title:    fmt.Sprintf("%s %s is behind the recommended %s", tech.Label, version, tech.Recommended),
					Description: fmt.Sprintf(
						"Module %s depends on %s %s; versions below %s are no longer supported by the portfolio baseline.",
						module.Path, tech.Label, version, tech.Recommended),
				},
			})
		}
	}
	return results, nil
}

// classifyVersion maps a detected version against the registry floors.
// An unparseable version is reported as a warning rather than guessed.
func classifyVersion(version, recommended, floor string) string {
	v := "v" + version
	if !semver.IsValid(v) {
		return datatypes.StatusWarning
	}
	if semver.Compare(v, "v"+floor) < 0 {
		return datatypes.StatusError
	}
	if semver.Compare(v, "v"+recommended) < 0 {
		return datatypes.StatusWarning
	}
	return datatypes.StatusSuccess
}
