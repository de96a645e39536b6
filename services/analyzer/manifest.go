// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Manifest is the subset of a package.json the analyzers read.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`

	// Path is the manifest location relative to the workspace root,
	// recorded as the module path on emitted results.
	Path string `json:"-"`
}

// skippedDirs are never descended into during workspace scans.
var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// ScanManifests walks the workspace and parses every package.json
// found outside of vendored and generated directories.
//
// A missing workspace yields an empty slice, not an error: the job
// contract treats "nothing to analyze" as an empty result.
func ScanManifests(workspace string) ([]Manifest, error) {
	info, err := os.Stat(workspace)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	var manifests []Manifest
	err = filepath.WalkDir(workspace, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != "package.json" {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var m Manifest
		if err := json.Unmarshal(raw, &m); err != nil {
			// A malformed manifest is skipped, not fatal for the scan.
			return nil
		}
		rel, relErr := filepath.Rel(workspace, path)
		if relErr != nil {
			rel = path
		}
		m.Path = filepath.ToSlash(rel)
		manifests = append(manifests, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return manifests, nil
}

// normalizeVersion strips range operators so a manifest constraint like
// "^16.8.0" or ">=13.0.0" can be compared as a semver version.
func normalizeVersion(constraint string) string {
	v := strings.TrimSpace(constraint)
	v = strings.TrimLeft(v, "^~=<>")
	if i := strings.IndexAny(v, " |"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
