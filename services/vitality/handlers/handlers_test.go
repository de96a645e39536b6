// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/vitality/services/aggregator"
	"github.com/AleutianAI/vitality/services/analyzer"
	"github.com/AleutianAI/vitality/services/datatypes"
	"github.com/AleutianAI/vitality/services/providers"
	"github.com/AleutianAI/vitality/services/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router *gin.Engine
	store  *storage.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store, err := storage.Open(storage.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	applications := providers.NewApplicationProvider(store, nil)
	keywords := providers.NewKeywordProvider(store, nil)
	evolutions := providers.NewEvolutionProvider(store, nil)
	dependencies := providers.NewDependencyProvider(store, nil)
	audits := providers.NewAuditProvider(store, nil)
	faqs := providers.NewFaqProvider(store, nil)

	service := aggregator.NewService(aggregator.Readers{
		Applications: applications,
		Keywords:     keywords,
		Evolutions:   evolutions,
		Dependencies: dependencies,
		Audits:       audits,
	}, nil)

	runner := analyzer.NewRunner(store, analyzer.Writers{
		Keywords:     keywords,
		Evolutions:   evolutions,
		Dependencies: dependencies,
		AuditReports: audits,
	}, analyzer.RunnerConfig{Timeout: 30 * time.Second}, nil, nil)

	router := gin.New()
	router.POST("/v1/applications", CreateApplication(applications, nil))
	router.GET("/v1/applications", ListApplications(service, nil))
	router.GET("/v1/applications/count", CountApplications(service, nil))
	router.GET("/v1/applications/stats", GetApplicationStats(service, nil))
	router.GET("/v1/applications/:appId", GetApplicationInfo(service, nil))
	router.PUT("/v1/applications/:appId", EditApplication(applications, nil))
	router.DELETE("/v1/applications/:appId", DeleteApplication(applications, nil))
	router.GET("/v1/applications/:appId/profile", GetApplicationProfile(service, nil))
	router.GET("/v1/applications/:appId/keywords", GetApplicationKeywords(service, nil))
	router.POST("/v1/analysis/runs", TriggerAnalysis(runner))
	router.GET("/v1/analysis/runs/:runId", GetRunStatus(runner))
	router.GET("/v1/faqs", ListFaqs(faqs, nil))
	router.POST("/v1/faqs", CreateFaq(faqs, nil))
	router.GET("/health", HealthCheck(store))

	api := &testAPI{router: router, store: store}

	// Seed one application with a keyword.
	ctx := context.Background()
	_, err = applications.CreateForm(ctx, &datatypes.ApplicationForm{AppID: "5", Name: "Dashboard"})
	require.NoError(t, err)
	_, err = keywords.Create(ctx, &datatypes.Keyword{
		Label: "React", Status: datatypes.StatusError, Version: "16.8.0",
		Module: datatypes.ModuleDescriptor{AppID: "5", Branch: "main"},
	})
	require.NoError(t, err)
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestCreateApplication(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/v1/applications", datatypes.ApplicationForm{
		AppID: "9", Name: "Billing", ProductionLink: "https://billing.example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var app datatypes.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &app))
	assert.Equal(t, "9", app.AppID)
	require.Len(t, app.Links, 1)
	assert.Equal(t, "https://billing.example.com", app.Links[0].Value)
}

func TestCreateApplication_MissingAppID(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/v1/applications", datatypes.ApplicationForm{Name: "Orphan"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_record", body["errorKind"])
}

func TestGetApplicationInfo_NotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/v1/applications/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListApplications_KeywordFilter(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/v1/applications?keywords=React", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Applications []datatypes.Application `json:"applications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Applications, 1)
	assert.Equal(t, "5", body.Applications[0].AppID)

	w = api.do(t, http.MethodGet, "/v1/applications?keywords=Angular", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Applications)
}

func TestCountApplications(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/v1/applications/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body["total"])
}

func TestGetApplicationProfile(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/v1/applications/5/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile datatypes.ApplicationProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	require.NotNil(t, profile.Info)
	assert.Equal(t, "Dashboard", profile.Info.Name)
	assert.Len(t, profile.Keywords, 1)

	// Unknown application degrades to an empty profile. Unmarshal into a
	// fresh value: json.Unmarshal leaves fields absent from the JSON
	// untouched, so reusing the populated one would keep the stale Info.
	w = api.do(t, http.MethodGet, "/v1/applications/404/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile = datatypes.ApplicationProfile{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Nil(t, profile.Info)
}

func TestTriggerAnalysis_AndRunStatus(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/v1/analysis/runs", analyzer.JobRequest{
		ApplicationID: "5", Workspace: t.TempDir(), Job: analyzer.JobKeywordEvolution,
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	var accepted map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	runID := accepted["runId"]
	require.NotEmpty(t, runID)

	// The run is asynchronous; poll until terminal.
	deadline := time.Now().Add(10 * time.Second)
	for {
		w = api.do(t, http.MethodGet, "/v1/analysis/runs/"+runID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var status analyzer.RunStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		if status.State == analyzer.StateCompleted {
			require.NotNil(t, status.Completion)
			assert.True(t, status.Completion.OK)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("run %s never completed, state %s", runID, status.State)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestTriggerAnalysis_MissingFields(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/v1/analysis/runs", map[string]string{"job": analyzer.JobAudit})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRunStatus_Unknown(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/v1/analysis/runs/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFaqs(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/v1/faqs", datatypes.Faq{Title: "What is vitality?"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodGet, "/v1/faqs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Faqs []datatypes.Faq `json:"faqs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Faqs, 1)
	assert.Equal(t, "What is vitality?", body.Faqs[0].Title)
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	api.store.Close()
	w = api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
