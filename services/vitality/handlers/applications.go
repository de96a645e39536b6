// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/vitality/services/aggregator"
	"github.com/AleutianAI/vitality/services/datatypes"
	"github.com/AleutianAI/vitality/services/providers"
	"github.com/AleutianAI/vitality/services/vitality/observability"
)

// CreateApplication accepts the flat application form and persists the
// assembled record.
func CreateApplication(apps *providers.ApplicationProvider, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form datatypes.ApplicationForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application form: " + err.Error()})
			return
		}
		app, err := apps.CreateForm(c.Request.Context(), &form)
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindApplication), err)
			return
		}
		c.JSON(http.StatusCreated, app)
	}
}

// EditApplication performs a full-field update from form input.
func EditApplication(apps *providers.ApplicationProvider, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form datatypes.ApplicationForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application form: " + err.Error()})
			return
		}
		form.AppID = c.Param("appId")
		appID, err := apps.EditForm(c.Request.Context(), &form)
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindApplication), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"appId": appID})
	}
}

// DeleteApplication removes one application record.
func DeleteApplication(apps *providers.ApplicationProvider, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		appID, err := apps.Delete(c.Request.Context(), c.Param("appId"))
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindApplication), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"appId": appID})
	}
}

// ListApplications returns the filtered application page. The
// keywords query parameter is a comma-separated label list; an
// application matches when it owns at least one keyword with a
// matching label.
func ListApplications(service *aggregator.Service, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := aggregator.ListParams{
			SearchText: c.Query("searchText"),
			Keywords:   splitKeywords(c.Query("keywords")),
			Page:       parsePage(c),
		}
		apps, err := service.GetApplicationListByPageAndParams(c.Request.Context(), params)
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindApplication), err)
			return
		}
		if apps == nil {
			apps = []datatypes.Application{}
		}
		c.JSON(http.StatusOK, gin.H{"applications": apps})
	}
}

// CountApplications reports the total match count for a filter,
// independent of paging.
func CountApplications(service *aggregator.Service, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := service.GetApplicationTotalByParams(c.Request.Context(),
			c.Query("searchText"), splitKeywords(c.Query("keywords")))
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindApplication), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total})
	}
}

// GetApplicationStats returns portfolio keyword stats.
func GetApplicationStats(service *aggregator.Service, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := service.GetApplicationStatsByParams(c.Request.Context(), splitKeywords(c.Query("keywords")))
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindKeyword), err)
			return
		}
		if stats == nil {
			stats = []datatypes.KeywordStat{}
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}

// splitKeywords parses the comma-separated keywords filter.
func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keywords := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	if len(keywords) == 0 {
		return nil
	}
	return keywords
}
