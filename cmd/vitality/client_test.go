// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AleutianAI/vitality/services/analyzer"
)

func TestAPIClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/applications/count" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]int{"total": 7})
	}))
	defer server.Close()

	client := newAPIClient(server.URL)
	var counted struct {
		Total int `json:"total"`
	}
	if err := client.getJSON(context.Background(), "/v1/applications/count", &counted); err != nil {
		t.Fatalf("getJSON: %v", err)
	}
	if counted.Total != 7 {
		t.Fatalf("total = %d, want 7", counted.Total)
	}
}

func TestAPIClient_ErrorKindSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error":     "application not found",
			"errorKind": "not_found",
		})
	}))
	defer server.Close()

	client := newAPIClient(server.URL)
	err := client.getJSON(context.Background(), "/v1/applications/99", nil)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "not_found") {
		t.Fatalf("error %q does not carry the error kind", err)
	}
	if !strings.Contains(err.Error(), "application not found") {
		t.Fatalf("error %q does not carry the service message", err)
	}
}

func TestAPIClient_OpaqueErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newAPIClient(server.URL)
	err := client.getJSON(context.Background(), "/v1/applications", nil)
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("err = %v, want status 502 error", err)
	}
}

func TestAPIClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req analyzer.JobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.ApplicationID != "5" || req.Job != analyzer.JobAudit {
			t.Errorf("unexpected request %+v", req)
		}
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"runId": "run-1"})
	}))
	defer server.Close()

	client := newAPIClient(server.URL)
	var triggered struct {
		RunID string `json:"runId"`
	}
	req := analyzer.JobRequest{ApplicationID: "5", Workspace: "/tmp/ws", Job: analyzer.JobAudit}
	if err := client.postJSON(context.Background(), "/v1/analysis/runs", req, &triggered); err != nil {
		t.Fatalf("postJSON: %v", err)
	}
	if triggered.RunID != "run-1" {
		t.Fatalf("runId = %q, want run-1", triggered.RunID)
	}
}

func TestAwaitRun_PollsUntilTerminal(t *testing.T) {
	var polls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls++
		status := analyzer.RunStatus{ID: "run-1", State: analyzer.StateComputing}
		if polls >= 3 {
			status.State = analyzer.StateCompleted
			status.Completion = &analyzer.Completion{OK: true, RecordsWritten: 4}
		}
		json.NewEncoder(w).Encode(status)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, err := awaitRun(ctx, newAPIClient(server.URL), "run-1")
	if err != nil {
		t.Fatalf("awaitRun: %v", err)
	}
	if status.State != analyzer.StateCompleted {
		t.Fatalf("state = %s, want %s", status.State, analyzer.StateCompleted)
	}
	if status.Completion == nil || status.Completion.RecordsWritten != 4 {
		t.Fatalf("completion %+v, want 4 records", status.Completion)
	}
	if polls < 3 {
		t.Fatalf("polled %d times, want at least 3", polls)
	}
}
