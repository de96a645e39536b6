// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package routes wires the vitality API surface onto a gin engine.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/vitality/services/aggregator"
	"github.com/AleutianAI/vitality/services/analyzer"
	"github.com/AleutianAI/vitality/services/providers"
	"github.com/AleutianAI/vitality/services/storage"
	"github.com/AleutianAI/vitality/services/vitality/handlers"
	"github.com/AleutianAI/vitality/services/vitality/observability"
)

// Deps bundles everything the API routes need.
type Deps struct {
	Store         *storage.Store
	Aggregator    *aggregator.Service
	Applications  *providers.ApplicationProvider
	Faqs          *providers.FaqProvider
	Notifications *providers.NotificationProvider
	Runner        *analyzer.Runner
	Metrics       *observability.APIMetrics
}

// SetupRoutes registers the full v1 surface plus health and metrics.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.HealthCheck(deps.Store))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		applications := v1.Group("/applications")
		{
			applications.GET("", handlers.ListApplications(deps.Aggregator, deps.Metrics))
			applications.POST("", handlers.CreateApplication(deps.Applications, deps.Metrics))
			applications.GET("/count", handlers.CountApplications(deps.Aggregator, deps.Metrics))
			applications.GET("/stats", handlers.GetApplicationStats(deps.Aggregator, deps.Metrics))
			applications.GET("/:appId", handlers.GetApplicationInfo(deps.Aggregator, deps.Metrics))
			applications.PUT("/:appId", handlers.EditApplication(deps.Applications, deps.Metrics))
			applications.DELETE("/:appId", handlers.DeleteApplication(deps.Applications, deps.Metrics))
			applications.GET("/:appId/profile", handlers.GetApplicationProfile(deps.Aggregator, deps.Metrics))
			applications.GET("/:appId/evolutions", handlers.GetApplicationEvolutions(deps.Aggregator, deps.Metrics))
			applications.GET("/:appId/dependencies", handlers.GetApplicationDependencies(deps.Aggregator, deps.Metrics))
			applications.GET("/:appId/audit-reports", handlers.GetApplicationAuditReports(deps.Aggregator, deps.Metrics))
			applications.GET("/:appId/keywords", handlers.GetApplicationKeywords(deps.Aggregator, deps.Metrics))
		}

		analysis := v1.Group("/analysis")
		{
			analysis.POST("/runs", handlers.TriggerAnalysis(deps.Runner))
			analysis.GET("/runs/:runId", handlers.GetRunStatus(deps.Runner))
		}

		faqs := v1.Group("/faqs")
		{
			faqs.GET("", handlers.ListFaqs(deps.Faqs, deps.Metrics))
			faqs.POST("", handlers.CreateFaq(deps.Faqs, deps.Metrics))
			faqs.PUT("/:id", handlers.EditFaq(deps.Faqs, deps.Metrics))
			faqs.DELETE("/:id", handlers.DeleteFaq(deps.Faqs, deps.Metrics))
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", handlers.ListNotifications(deps.Notifications, deps.Metrics))
			notifications.POST("", handlers.CreateNotification(deps.Notifications, deps.Metrics))
			notifications.DELETE("/:id", handlers.DeleteNotification(deps.Notifications, deps.Metrics))
		}
	}
}
