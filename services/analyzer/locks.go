// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AleutianAI/vitality/services/datatypes"
)

// ErrRebuildInFlight is returned when a rebuild for one of the
// requested result kinds is already running.
var ErrRebuildInFlight = errors.New("rebuild already in flight")

// holder records who owns a kind lock, kept for run-overlap logging.
type holder struct {
	runID string
	since time.Time
}

// KindLockManager serializes rebuilds per result kind.
//
// # Description
//
// Clear-then-rebuild cycles must never interleave on the same kind:
// an overlapping run could observe (or cause) an empty collection
// mid-rebuild. Acquisition is non-blocking and all-or-nothing: a run
// that needs several kinds either gets every lock or none, so two
// multi-kind runs can never deadlock against each other.
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
type KindLockManager struct {
	mu      sync.Mutex
	holders map[datatypes.ResultKind]holder
}

// NewKindLockManager creates an empty lock manager.
func NewKindLockManager() *KindLockManager {
	return &KindLockManager{holders: make(map[datatypes.ResultKind]holder)}
}

// TryAcquire attempts to take every requested kind lock for the given
// run. Kinds are checked in sorted order; if any is held the call
// takes nothing and returns ErrRebuildInFlight wrapped with the
// conflicting kind and the holder's run identity.
func (m *KindLockManager) TryAcquire(runID string, kinds []datatypes.ResultKind) error {
	sorted := make([]datatypes.ResultKind, len(kinds))
	copy(sorted, kinds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, kind := range sorted {
		if h, held := m.holders[kind]; held {
			return fmt.Errorf("%w: kind %s held by run %s", ErrRebuildInFlight, kind, h.runID)
		}
	}
	now := time.Now()
	for _, kind := range sorted {
		m.holders[kind] = holder{runID: runID, since: now}
	}
	return nil
}

// Release frees the kind locks held by the given run. Releasing a kind
// the run does not hold is a no-op.
func (m *KindLockManager) Release(runID string, kinds []datatypes.ResultKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, kind := range kinds {
		if h, held := m.holders[kind]; held && h.runID == runID {
			delete(m.holders, kind)
		}
	}
}

// Held reports whether any run currently holds the kind.
func (m *KindLockManager) Held(kind datatypes.ResultKind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, held := m.holders[kind]
	return held
}
