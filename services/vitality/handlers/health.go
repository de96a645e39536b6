// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/vitality/services/storage"
)

// HealthCheck reports service liveness and store readiness.
func HealthCheck(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || !store.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
