// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the gin handlers of the vitality API.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/vitality/services/providers"
	"github.com/AleutianAI/vitality/services/vitality/observability"
)

// Pagination bounds enforced on every list endpoint.
const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// parsePage reads offset/limit query parameters. Limits are clamped
// so a missing or oversized limit can never turn a list endpoint into
// a full dump.
func parsePage(c *gin.Context) providers.Page {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return providers.Page{Offset: offset, Limit: limit}
}

// writeProviderError maps a provider error to a status code and
// records it on the metrics channel.
func writeProviderError(c *gin.Context, metrics *observability.APIMetrics, kind string, err error) {
	errorKind := providers.ErrorKind(err)
	if metrics != nil {
		metrics.ProviderErrorsTotal.WithLabelValues(kind, errorKind).Inc()
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, providers.ErrInvalidRecord), errors.Is(err, providers.ErrMissingIdentity):
		status = http.StatusBadRequest
	case errors.Is(err, providers.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, providers.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error(), "errorKind": errorKind})
}
