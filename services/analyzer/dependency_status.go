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
	"sort"

	"golang.org/x/mod/semver"

	"github.com/AleutianAI/vitality/services/datatypes"
)

// Dependency statuses emitted by the dependency-status job.
const (
	DepStatusUpToDate   = "up-to-date"
	DepStatusOutdated   = "outdated"
	DepStatusDeprecated = "deprecated"
)

// deprecatedPackages are npm packages the ecosystem has abandoned.
// Their presence is flagged regardless of version.
var deprecatedPackages = map[string]string{
	"request":                 "Use the built-in fetch API or axios.",
	"moment":                  "Moment is in maintenance mode; use date-fns or dayjs.",
	"tslint":                  "TSLint is deprecated in favor of typescript-eslint.",
	"node-sass":               "node-sass is deprecated; migrate to dart-sass.",
	"babel-eslint":            "Renamed to @babel/eslint-parser.",
	"istanbul":                "Superseded by nyc and c8.",
	"gulp-util":               "Deprecated by the gulp team; use individual modules.",
	"querystring":             "Use the WHATWG URLSearchParams API.",
	"coffee-script":           "Renamed to coffeescript.",
	"jade":                    "Renamed to pug.",
	"react-addons-test-utils": "Merged into react-dom/test-utils.",
}

// recommendedVersions is the portfolio baseline for common packages.
// A manifest pinned below its baseline is reported as outdated.
var recommendedVersions = map[string]string{
	"react":         "18.2.0",
	"react-dom":     "18.2.0",
	"next":          "14.0.0",
	"@angular/core": "17.0.0",
	"vue":           "3.3.0",
	"typescript":    "5.0.0",
	"express":       "4.18.0",
	"@nestjs/core":  "10.0.0",
	"jest":          "29.0.0",
	"webpack":       "5.88.0",
	"vite":          "5.0.0",
	"eslint":        "8.50.0",
	"axios":         "1.6.0",
	"lodash":        "4.17.21",
}

// DependencyStatusJob rebuilds the dependency collection from the
// application's manifests: every declared dependency becomes one
// record carrying its detected version and a status classification.
type DependencyStatusJob struct{}

// NewDependencyStatusJob creates the job.
func NewDependencyStatusJob() *DependencyStatusJob {
	return &DependencyStatusJob{}
}

func (j *DependencyStatusJob) Name() string { return JobDependencyStatus }

func (j *DependencyStatusJob) Kinds() []datatypes.ResultKind {
	return []datatypes.ResultKind{datatypes.KindDependency}
}

// Analyze emits one dependency record per (module, package), ordered
// by module path then package name so repeated runs over the same
// workspace produce the same sequence.
func (j *DependencyStatusJob) Analyze(ctx context.Context, req JobRequest) (*ResultSet, error) {
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

		names := make([]string, 0, len(manifest.Dependencies))
		for name := range manifest.Dependencies {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			version := normalizeVersion(manifest.Dependencies[name])
			results.Dependencies = append(results.Dependencies, classifyDependency(name, version, module))
		}
	}
	return results, nil
}

// classifyDependency builds the record for one declared dependency.
func classifyDependency(name, version string, module datatypes.ModuleDescriptor) datatypes.Dependency {
	dep := datatypes.Dependency{
		Type:    "npm",
		Name:    name,
		Version: version,
		Module:  module,
	}

	if advice, gone := deprecatedPackages[name]; gone {
		dep.Status = DepStatusDeprecated
		dep.StatusHelp = datatypes.StatusHelp{
			Category:    "dependency",
			Title:       fmt.Sprintf("%s is deprecated", name),
			Description: advice,
		}
		return dep
	}

	baseline, tracked := recommendedVersions[name]
	if tracked {
		dep.RecommendedVersion = baseline
	} else {
		dep.RecommendedVersion = version
	}

	if tracked && semver.IsValid("v"+version) && semver.Compare("v"+version, "v"+baseline) < 0 {
		dep.Status = DepStatusOutdated
		dep.StatusHelp = datatypes.StatusHelp{
			Category:    "dependency",
			Title:       fmt.Sprintf("%s %s is behind the %s baseline", name, version, baseline),
			Description: fmt.Sprintf("Upgrade %s to at least %s.", name, baseline),
		}
		return dep
	}

	dep.Status = DepStatusUpToDate
	dep.StatusHelp = datatypes.StatusHelp{
		Category: "dependency",
		Title:    fmt.Sprintf("%s is up to date", name),
	}
	return dep
}
