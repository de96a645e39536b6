// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/vitality/services/datatypes"
)

// ErrNotFound is returned by Get when no record exists under the key.
var ErrNotFound = errors.New("storage: record not found")

// ErrClosed is returned by all operations after Close.
var ErrClosed = errors.New("storage: store is closed")

// Store is the Result Store handle: keyed collections, one per result
// kind, over a single BadgerDB instance. Records are JSON-encoded
// under "{kind}/{id}" keys.
//
// # Thread Safety
//
// Store is safe for concurrent use. BadgerDB provides snapshot
// isolation per transaction; the single-writer-per-kind invariant is
// enforced above this layer by the analyzer's kind locks, not here.
type Store struct {
	db     *badger.DB
	closed atomic.Bool

	gcStop chan struct{}
	gcDone chan struct{}
}

// Open opens the Result Store with the given configuration. The
// returned Store owns the underlying database; call Close when done.
func Open(cfg Config) (*Store, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}

	if cfg.GCInterval > 0 && !cfg.InMemory {
		ratio := cfg.GCDiscardRatio
		if ratio <= 0 {
			ratio = 0.5
		}
		s.gcStop = make(chan struct{})
		s.gcDone = make(chan struct{})
		go gcLoop(db, cfg.GCInterval, ratio, cfg.Logger, s.gcStop, s.gcDone)
	}

	return s, nil
}

// Close stops garbage collection and closes the database. Safe to
// call multiple times.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.gcStop != nil {
		close(s.gcStop)
		<-s.gcDone
	}
	return s.db.Close()
}

// Ready reports whether the store can serve requests.
func (s *Store) Ready() bool {
	return s != nil && !s.closed.Load() && !s.db.IsClosed()
}

// key builds the store key for a record of the given kind.
func key(kind datatypes.ResultKind, id string) []byte {
	return []byte(string(kind) + "/" + id)
}

// kindPrefix is the key prefix shared by all records of a kind.
func kindPrefix(kind datatypes.ResultKind) []byte {
	return []byte(string(kind) + "/")
}

// Put JSON-encodes v and writes it under "{kind}/{id}".
func (s *Store) Put(kind datatypes.ResultKind, id string, v any) error {
	if !s.Ready() {
		return ErrClosed
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record %s: %w", kind, id, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(kind, id), raw)
	})
	if err != nil {
		return fmt.Errorf("write %s record %s: %w", kind, id, err)
	}
	return nil
}

// Get decodes the record under "{kind}/{id}" into out. Returns
// ErrNotFound when no record exists.
func (s *Store) Get(kind datatypes.ResultKind, id string, out any) error {
	if !s.Ready() {
		return ErrClosed
	}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(kind, id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s record %s: %w", kind, id, err)
	}
	return nil
}

// Delete removes the record under "{kind}/{id}". Deleting a missing
// record is a no-op success.
func (s *Store) Delete(kind datatypes.ResultKind, id string) error {
	if !s.Ready() {
		return ErrClosed
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(kind, id))
	})
	if err != nil {
		return fmt.Errorf("delete %s record %s: %w", kind, id, err)
	}
	return nil
}

// DropKind truncates the entire collection of one kind. Used as the
// first half of a rebuild cycle; other kinds are unaffected.
func (s *Store) DropKind(kind datatypes.ResultKind) error {
	if !s.Ready() {
		return ErrClosed
	}
	if err := s.db.DropPrefix(kindPrefix(kind)); err != nil {
		return fmt.Errorf("truncate %s collection: %w", kind, err)
	}
	return nil
}

// List iterates every record of a kind, invoking fn with the record id
// and its raw JSON value. Iteration stops at the first fn error.
func (s *Store) List(kind datatypes.ResultKind, fn func(id string, raw []byte) error) error {
	if !s.Ready() {
		return ErrClosed
	}
	prefix := kindPrefix(kind)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := strings.TrimPrefix(string(item.Key()), string(prefix))
			if err := item.Value(func(val []byte) error {
				return fn(id, val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("list %s collection: %w", kind, err)
	}
	return nil
}

// Count returns the number of records of a kind. Values are not
// fetched; only keys are scanned.
func (s *Store) Count(kind datatypes.ResultKind) (int, error) {
	if !s.Ready() {
		return 0, ErrClosed
	}
	prefix := kindPrefix(kind)
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count %s collection: %w", kind, err)
	}
	return count, nil
}
