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

	"github.com/AleutianAI/vitality/services/datatypes"
	"github.com/AleutianAI/vitality/services/providers"
	"github.com/AleutianAI/vitality/services/vitality/observability"
)

// ListFaqs returns all FAQ entries.
func ListFaqs(faqs *providers.FaqProvider, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := faqs.List(c.Request.Context())
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindFaq), err)
			return
		}
		if entries == nil {
			entries = []datatypes.Faq{}
		}
		c.JSON(http.StatusOK, gin.H{"faqs": entries})
	}
}

// CreateFaq persists one FAQ entry.
func CreateFaq(faqs *providers.FaqProvider, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var faq datatypes.Faq
		if err := c.ShouldBindJSON(&faq); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid faq: " + err.Error()})
			return
		}
		created, err := faqs.Create(c.Request.Context(), &faq)
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindFaq), err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// EditFaq performs a full-field update of one FAQ entry.
func EditFaq(faqs *providers.FaqProvider, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var faq datatypes.Faq
		if err := c.ShouldBindJSON(&faq); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid faq: " + err.Error()})
			return
		}
		faq.ID = c.Param("id")
		id, err := faqs.Edit(c.Request.Context(), &faq)
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindFaq), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	}
}

// DeleteFaq removes one FAQ entry.
func DeleteFaq(faqs *providers.FaqProvider, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := faqs.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindFaq), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	}
}

// ListNotifications returns all notifications.
func ListNotifications(notifications *providers.NotificationProvider, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := notifications.List(c.Request.Context())
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindNotification), err)
			return
		}
		if entries == nil {
			entries = []datatypes.Notification{}
		}
		c.JSON(http.StatusOK, gin.H{"notifications": entries})
	}
}

// CreateNotification persists one notification.
func CreateNotification(notifications *providers.NotificationProvider, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var notification datatypes.Notification
		if err := c.ShouldBindJSON(&notification); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification: " + err.Error()})
			return
		}
		created, err := notifications.Create(c.Request.Context(), &notification)
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindNotification), err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// DeleteNotification removes one notification.
func DeleteNotification(notifications *providers.NotificationProvider, metrics *observability.APIMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := notifications.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeProviderError(c, metrics, string(datatypes.KindNotification), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	}
}
