// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

import (
	"errors"
	"sync"
	"testing"

	"github.com/AleutianAI/vitality/services/datatypes"
)

func TestKindLockManager_OverlapRejected(t *testing.T) {
	m := NewKindLockManager()
	kinds := []datatypes.ResultKind{datatypes.KindKeyword, datatypes.KindEvolution}

	if err := m.TryAcquire("run-1", kinds); err != nil {
		t.Fatalf("first TryAcquire() error = %v", err)
	}
	err := m.TryAcquire("run-2", []datatypes.ResultKind{datatypes.KindEvolution})
	if !errors.Is(err, ErrRebuildInFlight) {
		t.Fatalf("overlapping TryAcquire() error = %v, want ErrRebuildInFlight", err)
	}

	// Disjoint kinds are not affected.
	if err := m.TryAcquire("run-3", []datatypes.ResultKind{datatypes.KindDependency}); err != nil {
		t.Fatalf("disjoint TryAcquire() error = %v", err)
	}

	m.Release("run-1", kinds)
	if err := m.TryAcquire("run-2", kinds); err != nil {
		t.Fatalf("TryAcquire() after release error = %v", err)
	}
}

func TestKindLockManager_AllOrNothing(t *testing.T) {
	m := NewKindLockManager()

	if err := m.TryAcquire("holder", []datatypes.ResultKind{datatypes.KindEvolution}); err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}

	// A multi-kind request conflicting on one kind must take nothing.
	err := m.TryAcquire("wanter", []datatypes.ResultKind{datatypes.KindKeyword, datatypes.KindEvolution})
	if !errors.Is(err, ErrRebuildInFlight) {
		t.Fatalf("TryAcquire() error = %v, want ErrRebuildInFlight", err)
	}
	if m.Held(datatypes.KindKeyword) {
		t.Fatal("failed acquisition left the keyword kind locked")
	}
}

func TestKindLockManager_ReleaseByWrongRunIsNoop(t *testing.T) {
	m := NewKindLockManager()
	kinds := []datatypes.ResultKind{datatypes.KindAuditReport}

	if err := m.TryAcquire("owner", kinds); err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}
	m.Release("intruder", kinds)
	if !m.Held(datatypes.KindAuditReport) {
		t.Fatal("Release by a non-owner dropped the lock")
	}
}

func TestKindLockManager_ConcurrentAcquire(t *testing.T) {
	m := NewKindLockManager()
	kinds := []datatypes.ResultKind{datatypes.KindKeyword}

	const attempts = 32
	var wg sync.WaitGroup
	won := make(chan string, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		runID := string(rune('a' + i))
		go func() {
			defer wg.Done()
			if err := m.TryAcquire(runID, kinds); err == nil {
				won <- runID
			}
		}()
	}
	wg.Wait()
	close(won)

	winners := 0
	for range won {
		winners++
	}
	if winners != 1 {
		t.Fatalf("%d goroutines acquired the same kind, want exactly 1", winners)
	}
}
