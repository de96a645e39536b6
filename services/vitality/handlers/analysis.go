// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/vitality/services/analyzer"
)

// TriggerAnalysis starts one analysis run and returns its identity
// immediately. The run executes in its own goroutine; callers poll the
// run status endpoint or watch the metrics for the outcome.
func TriggerAnalysis(runner *analyzer.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzer.JobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job request: " + err.Error()})
			return
		}
		if req.Job == "" || req.ApplicationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "job and applicationId are required"})
			return
		}

		// The run must outlive this request.
		runID, _ := runner.Start(context.Background(), req)
		c.JSON(http.StatusAccepted, gin.H{"runId": runID})
	}
}

// GetRunStatus reports the lifecycle state of one run, including the
// structured completion once the run is terminal.
func GetRunStatus(runner *analyzer.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, found := runner.Status(c.Param("runId"))
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown run"})
			return
		}
		c.JSON(http.StatusOK, status)
	}
}
