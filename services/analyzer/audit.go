// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/AleutianAI/vitality/services/datatypes"
)

// sourceExtensions are the file types the audit job measures.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
	".vue": true,
	".mjs": true,
	".cjs": true,
}

// File-size thresholds in lines: below warn is healthy, above fail is
// flagged as an error.
const (
	fileSizeWarnThreshold = 300
	fileSizeFailThreshold = 600
)

// AuditJob rebuilds the audit-report collection from static measures
// of the checked-out source tree.
type AuditJob struct{}

// NewAuditJob creates the job.
func NewAuditJob() *AuditJob {
	return &AuditJob{}
}

func (j *AuditJob) Name() string { return JobAudit }

func (j *AuditJob) Kinds() []datatypes.ResultKind {
	return []datatypes.ResultKind{datatypes.KindAuditReport}
}

// treeStats accumulates the workspace scan.
type treeStats struct {
	files     int
	lines     int
	maxLines  int
	maxFile   string
	oversized int
}

// Analyze walks the workspace source tree and emits maintainability
// reports: average file length, largest file, and the share of files
// above the size thresholds. A missing workspace yields an empty set.
func (j *AuditJob) Analyze(ctx context.Context, req JobRequest) (*ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	stats, err := scanTree(req.Workspace)
	if err != nil {
		return nil, fmt.Errorf("auditing workspace %s: %w", req.Workspace, err)
	}
	end := time.Now()

	results := &ResultSet{}
	if stats.files == 0 {
		return results, nil
	}

	module := datatypes.ModuleDescriptor{
		AppID:  req.ApplicationID,
		Branch: req.Branch,
		Path:   ".",
	}

	avg := float64(stats.lines) / float64(stats.files)
	results.AuditReports = append(results.AuditReports, datatypes.AuditReport{
		Type:        datatypes.AuditTypeStaticAnalysis,
		Category:    "maintainability",
		SubCategory: "average-file-size",
		Status:      sizeStatus(avg),
		Score:       avg,
		ScoreUnit:   "lines",
		DateStart:   start,
		DateEnd:     end,
		StatusHelp: &datatypes.StatusHelp{
			Category:    "maintainability",
			Title:       "Average source file length",
			Description: fmt.Sprintf("%d source files, %d lines total.", stats.files, stats.lines),
		},
		Module: module,
	})

	results.AuditReports = append(results.AuditReports, datatypes.AuditReport{
		Type:        datatypes.AuditTypeStaticAnalysis,
		Category:    "maintainability",
		SubCategory: "largest-file",
		Status:      sizeStatus(float64(stats.maxLines)),
		Score:       float64(stats.maxLines),
		ScoreUnit:   "lines",
		DateStart:   start,
		DateEnd:     end,
		StatusHelp: &datatypes.StatusHelp{
			Category:    "maintainability",
			Title:       "Largest source file",
			Description: stats.maxFile,
		},
		Module: module,
	})

	oversizedShare := 100 * float64(stats.oversized) / float64(stats.files)
	status := datatypes.StatusSuccess
	if oversizedShare > 25 {
		status = datatypes.StatusError
	} else if oversizedShare > 10 {
		status = datatypes.StatusWarning
	}
	results.AuditReports = append(results.AuditReports, datatypes.AuditReport{
		Type:        datatypes.AuditTypeStaticAnalysis,
		Category:    "maintainability",
		SubCategory: "oversized-file-share",
		Status:      status,
		Score:       oversizedShare,
		ScoreUnit:   "%",
		DateStart:   start,
		DateEnd:     end,
		StatusHelp: &datatypes.StatusHelp{
			Category:    "maintainability",
			Title:       fmt.Sprintf("Files above %d lines", fileSizeWarnThreshold),
			Description: fmt.Sprintf("%d of %d source files exceed the threshold.", stats.oversized, stats.files),
		},
		Module: module,
	})

	return results, nil
}

// scanTree measures every source file under the workspace. A missing
// workspace is reported as zero files.
func scanTree(workspace string) (treeStats, error) {
	var stats treeStats

	info, err := os.Stat(workspace)
	if err != nil || !info.IsDir() {
		return stats, nil
	}

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
		if !sourceExtensions[filepath.Ext(d.Name())] {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		lines := bytes.Count(raw, []byte{'\n'})
		if len(raw) > 0 && raw[len(raw)-1] != '\n' {
			lines++
		}

		stats.files++
		stats.lines += lines
		if lines > stats.maxLines {
			stats.maxLines = lines
			rel, relErr := filepath.Rel(workspace, path)
			if relErr != nil {
				rel = path
			}
			stats.maxFile = filepath.ToSlash(rel)
		}
		if lines > fileSizeWarnThreshold {
			stats.oversized++
		}
		return nil
	})
	return stats, err
}

// sizeStatus classifies a line count against the file-size thresholds.
func sizeStatus(lines float64) string {
	switch {
	case lines > fileSizeFailThreshold:
		return datatypes.StatusError
	case lines > fileSizeWarnThreshold:
		return datatypes.StatusWarning
	default:
		return datatypes.StatusSuccess
	}
}
