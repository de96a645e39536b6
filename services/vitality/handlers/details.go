// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/vitality/services/aggregator"
	"github.com/AleutianAI/vitality/services/datatypes"
	"github.com/AleutianAI/vitality/services/vitality/observability"
)

// GetApplicationProfile returns the composed multi-kind view of one
// application. Degraded branches arrive as absent fields; the endpoint
// itself only fails when the request is malformed.
func GetApplicationProfile(service *aggregator.Service, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		profile := service.GetApplicationProfile(c.Request.Context(), c.Param("appId"))
		if metrics != nil {
			metrics.ProfileDurationSeconds.Observe(time.Since(started).Seconds())
		}
		c.JSON(http.StatusOK, profile)
	}
}

// GetApplicationInfo returns the single application record.
func GetApplicationInfo(service *aggregator.Service, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		app, err := service.GetApplicationDetailsInfoByParams(c.Request.Context(), c.Param("appId"))
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindApplication), err)
			return
		}
		c.JSON(http.StatusOK, app)
	}
}

// GetApplicationEvolutions returns the evolutions owned by one
// application, paged.
func GetApplicationEvolutions(service *aggregator.Service, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		evolutions, err := service.GetApplicationDetailsEvolutionsByParams(c.Request.Context(), c.Param("appId"), parsePage(c))
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindEvolution), err)
			return
		}
		if evolutions == nil {
			evolutions = []datatypes.Evolution{}
		}
		c.JSON(http.StatusOK, gin.H{"evolutions": evolutions})
	}
}

// GetApplicationDependencies returns the readable dependencies owned
// by one application, paged.
func GetApplicationDependencies(service *aggregator.Service, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		dependencies, err := service.GetApplicationDetailsDependenciesByParams(c.Request.Context(), c.Param("appId"), parsePage(c))
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindDependency), err)
			return
		}
		if dependencies == nil {
			dependencies = []datatypes.Dependency{}
		}
		c.JSON(http.StatusOK, gin.H{"dependencies": dependencies})
	}
}

// GetApplicationAuditReports returns the audit reports owned by one
// application, paged.
func GetApplicationAuditReports(service *aggregator.Service, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		reports, err := service.GetApplicationDetailsAuditReportsByParams(c.Request.Context(), c.Param("appId"), parsePage(c))
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindAuditReport), err)
			return
		}
		if reports == nil {
			reports = []datatypes.AuditReport{}
		}
		c.JSON(http.StatusOK, gin.H{"auditReports": reports})
	}
}

// GetApplicationKeywords returns the keywords owned by one
// application, paged.
func GetApplicationKeywords(service *aggregator.Service, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		keywords, err := service.GetApplicationDetailsKeywordsByParams(c.Request.Context(), c.Param("appId"), parsePage(c))
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindKeyword), err)
			return
		}
		if keywords == nil {
			keywords = []datatypes.Keyword{}
		}
		c.JSON(http.StatusOK, gin.H{"keywords": keywords})
	}
}
