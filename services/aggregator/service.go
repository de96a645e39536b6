// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package aggregator composes provider reads into the API-facing
// views: the multi-kind application profile, the application list with
// search and keyword filtering, portfolio totals and keyword stats.
package aggregator

import (
	"context"
	"sync"

	"github.com/AleutianAI/vitality/pkg/logging"
	"github.com/AleutianAI/vitality/services/datatypes"
	"github.com/AleutianAI/vitality/services/providers"
)

// Reader interfaces keep the service mockable; the providers satisfy
// them directly.

type applicationReader interface {
	GetByAppID(ctx context.Context, appID string) (*datatypes.Application, error)
	SearchAndCount(ctx context.Context, params providers.SearchParams) ([]datatypes.Application, int, error)
	Count(ctx context.Context) (int, error)
}

type keywordReader interface {
	ListByApp(ctx context.Context, appID string, page providers.Page) ([]datatypes.Keyword, error)
	Stats(ctx context.Context, params providers.StatsParams) ([]datatypes.KeywordStat, error)
}

type evolutionReader interface {
	ListByApp(ctx context.Context, appID string, page providers.Page) ([]datatypes.Evolution, error)
}

type dependencyReader interface {
	ListByApp(ctx context.Context, appID string, page providers.Page) ([]datatypes.Dependency, error)
}

type auditReader interface {
	ListByApp(ctx context.Context, appID string, page providers.Page) ([]datatypes.AuditReport, error)
}

// Service is the aggregation layer over the per-kind providers.
//
// # Thread Safety
//
// Safe for concurrent use; the service holds no mutable state.
type Service struct {
	applications applicationReader
	keywords     keywordReader
	evolutions   evolutionReader
	dependencies dependencyReader
	audits       auditReader
	log          *logging.Logger
}

// Readers bundles the provider dependencies of the service.
type Readers struct {
	Applications applicationReader
	Keywords     keywordReader
	Evolutions   evolutionReader
	Dependencies dependencyReader
	Audits       auditReader
}

// NewService wires the aggregation service.
func NewService(readers Readers, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Default()
	}
	return &Service{
		applications: readers.Applications,
		keywords:     readers.Keywords,
		evolutions:   readers.Evolutions,
		dependencies: readers.Dependencies,
		audits:       readers.Audits,
		log:          log,
	}
}

// GetApplicationProfile assembles the composed view of one
// application.
//
// The five sub-fetches run in parallel and settle independently: a
// failed branch degrades to an empty field after being logged with its
// error kind, it never fails the profile. An unknown appID therefore
// yields an empty profile, not an error.
func (s *Service) GetApplicationProfile(ctx context.Context, appID string) *datatypes.ApplicationProfile {
	profile := &datatypes.ApplicationProfile{}

	degrade := func(branch string, err error) {
		s.log.Warn("profile branch degraded",
			"app_id", appID, "branch", branch, "error_kind", providers.ErrorKind(err), "error", err)
	}

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		info, err := s.applications.GetByAppID(ctx, appID)
		if err != nil {
			degrade("info", err)
			return
		}
		profile.Info = info
	}()
	go func() {
		defer wg.Done()
		evolutions, err := s.evolutions.ListByApp(ctx, appID, providers.Page{})
		if err != nil {
			degrade("evolutions", err)
			return
		}
		profile.Evolutions = evolutions
	}()
	go func() {
		defer wg.Done()
		dependencies, err := s.dependencies.ListByApp(ctx, appID, providers.Page{})
		if err != nil {
			degrade("dependencies", err)
			return
		}
		profile.Dependencies = dependencies
	}()
	go func() {
		defer wg.Done()
		audits, err := s.audits.ListByApp(ctx, appID, providers.Page{})
		if err != nil {
			degrade("auditReports", err)
			return
		}
		profile.AuditReports = audits
	}()
	go func() {
		defer wg.Done()
		keywords, err := s.keywords.ListByApp(ctx, appID, providers.Page{})
		if err != nil {
			degrade("keywords", err)
			return
		}
		profile.Keywords = keywords
	}()
	wg.Wait()

	return profile
}

// GetApplicationDetailsInfoByParams returns one application record.
func (s *Service) GetApplicationDetailsInfoByParams(ctx context.Context, appID string) (*datatypes.Application, error) {
	return s.applications.GetByAppID(ctx, appID)
}

// GetApplicationDetailsEvolutionsByParams returns the evolutions owned
// by one application, paged.
func (s *Service) GetApplicationDetailsEvolutionsByParams(ctx context.Context, appID string, page providers.Page) ([]datatypes.Evolution, error) {
	return s.evolutions.ListByApp(ctx, appID, page)
}

// GetApplicationDetailsDependenciesByParams returns the readable
// dependencies owned by one application, paged.
func (s *Service) GetApplicationDetailsDependenciesByParams(ctx context.Context, appID string, page providers.Page) ([]datatypes.Dependency, error) {
	return s.dependencies.ListByApp(ctx, appID, page)
}

// GetApplicationDetailsAuditReportsByParams returns the audit reports
// owned by one application, paged.
func (s *Service) GetApplicationDetailsAuditReportsByParams(ctx context.Context, appID string, page providers.Page) ([]datatypes.AuditReport, error) {
	return s.audits.ListByApp(ctx, appID, page)
}

// GetApplicationDetailsKeywordsByParams returns the keywords owned by
// one application, paged.
func (s *Service) GetApplicationDetailsKeywordsByParams(ctx context.Context, appID string, page providers.Page) ([]datatypes.Keyword, error) {
	return s.keywords.ListByApp(ctx, appID, page)
}

// ListParams scopes an application listing.
type ListParams struct {
	SearchText string
	// Keywords filters to applications owning at least one keyword
	// whose label matches any entry.
	Keywords []string
	Page     providers.Page
}

// GetApplicationListByPageAndParams returns the filtered application
// page. With a keyword filter the page window applies after filtering,
// so page boundaries stay stable for a fixed filter.
func (s *Service) GetApplicationListByPageAndParams(ctx context.Context, params ListParams) ([]datatypes.Application, error) {
	apps, _, err := s.filteredApplications(ctx, params.SearchText, params.Keywords, params.Page)
	return apps, err
}

// GetApplicationTotalByParams counts the applications matching the
// filter, independent of any page window.
func (s *Service) GetApplicationTotalByParams(ctx context.Context, searchText string, keywords []string) (int, error) {
	// The unfiltered total is a key-only count; no record is loaded.
	if searchText == "" && len(keywords) == 0 {
		return s.applications.Count(ctx)
	}
	_, total, err := s.filteredApplications(ctx, searchText, keywords, providers.Page{})
	return total, err
}

// GetApplicationStatsByParams returns portfolio keyword stats,
// optionally scoped to the given keyword labels.
func (s *Service) GetApplicationStatsByParams(ctx context.Context, keywords []string) ([]datatypes.KeywordStat, error) {
	return s.keywords.Stats(ctx, providers.StatsParams{Labels: keywords})
}

// filteredApplications resolves search, keyword filter and paging in
// one place. Without a keyword filter, paging is delegated to the
// provider; with one, all matches are fetched, filtered, and paged
// here. The returned total always counts matches before paging.
func (s *Service) filteredApplications(ctx context.Context, searchText string, keywords []string, page providers.Page) ([]datatypes.Application, int, error) {
	if len(keywords) == 0 {
		return s.applications.SearchAndCount(ctx, providers.SearchParams{
			SearchText: searchText,
			Page:       page,
		})
	}

	apps, _, err := s.applications.SearchAndCount(ctx, providers.SearchParams{SearchText: searchText})
	if err != nil {
		return nil, 0, err
	}

	wanted := make(map[string]bool, len(keywords))
	for _, label := range keywords {
		wanted[label] = true
	}

	var filtered []datatypes.Application
	for _, app := range apps {
		owned, err := s.keywords.ListByApp(ctx, app.AppID, providers.Page{})
		if err != nil {
			return nil, 0, err
		}
		for _, k := range owned {
			if wanted[k.Label] {
				filtered = append(filtered, app)
				break
			}
		}
	}
	return pageSlice(filtered, page), len(filtered), nil
}

// pageSlice applies an offset/limit window. A zero limit means no
// limit; an offset past the end yields an empty slice.
func pageSlice(apps []datatypes.Application, page providers.Page) []datatypes.Application {
	if page.Offset > 0 {
		if page.Offset >= len(apps) {
			return nil
		}
		apps = apps[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(apps) {
		apps = apps[:page.Limit]
	}
	return apps
}
