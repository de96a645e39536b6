// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AleutianAI/vitality/pkg/logging"
)

// DefaultDebounce is how long a workspace must stay quiet before a
// change triggers re-analysis.
const DefaultDebounce = 30 * time.Second

// Watcher triggers re-analysis when a tracked workspace changes.
//
// # Description
//
// One fsnotify watcher covers the workspace root of every portfolio
// entry. Events are debounced per application: a burst of writes, as
// produced by a git checkout or an npm install, collapses into a
// single trigger once the workspace has been quiet for the debounce
// window.
//
// # Thread Safety
//
// Run is meant to be called once from its own goroutine; Close may be
// called from any goroutine.
type Watcher struct {
	watcher  *fsnotify.Watcher
	entries  []PortfolioEntry
	debounce time.Duration
	trigger  func(PortfolioEntry)
	log      *logging.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher creates a watcher over the portfolio's workspace roots.
// The trigger callback runs on the debounce timer's goroutine once per
// quiet-down, with the changed entry.
func NewWatcher(portfolio *Portfolio, debounce time.Duration, trigger func(PortfolioEntry), log *logging.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logging.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating workspace watcher: %w", err)
	}
	for _, entry := range portfolio.Applications {
		if err := fsw.Add(entry.Workspace); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching workspace %s: %w", entry.Workspace, err)
		}
	}

	return &Watcher{
		watcher:  fsw,
		entries:  portfolio.Applications,
		debounce: debounce,
		trigger:  trigger,
		log:      log,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run consumes watcher events until the context is canceled or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("workspace watcher error", "error", err)
		}
	}
}

// Close stops the watcher and drops pending debounce timers.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for appID, timer := range w.timers {
		timer.Stop()
		delete(w.timers, appID)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

// handleEvent resolves the owning portfolio entry and resets its
// debounce timer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	entry, found := w.entryFor(event.Name)
	if !found {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, pending := w.timers[entry.AppID]; pending {
		timer.Reset(w.debounce)
		return
	}
	w.timers[entry.AppID] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, entry.AppID)
		w.mu.Unlock()

		w.log.Info("workspace changed, triggering re-analysis", "app_id", entry.AppID)
		w.trigger(entry)
	})
}

// entryFor maps a changed path back to the portfolio entry owning it.
func (w *Watcher) entryFor(path string) (PortfolioEntry, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, entry := range w.entries {
		root, err := filepath.Abs(entry.Workspace)
		if err != nil {
			root = entry.Workspace
		}
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return entry, true
		}
	}
	return PortfolioEntry{}, false
}
