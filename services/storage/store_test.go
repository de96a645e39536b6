// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/vitality/services/datatypes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := newTestStore(t)

	in := datatypes.Keyword{ID: "k1", Label: "React", Status: datatypes.StatusError, Version: "16.8.0"}
	require.NoError(t, s.Put(datatypes.KindKeyword, in.ID, &in))

	var out datatypes.Keyword
	require.NoError(t, s.Get(datatypes.KindKeyword, "k1", &out))
	assert.Equal(t, in, out)
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	var out datatypes.Keyword
	err := s.Get(datatypes.KindKeyword, "nope", &out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteMissingIsNoop(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Delete(datatypes.KindKeyword, "nope"))
}

func TestStore_DropKindIsScopedToKind(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put(datatypes.KindKeyword, "k1", &datatypes.Keyword{ID: "k1", Label: "React", Status: "error"}))
	require.NoError(t, s.Put(datatypes.KindKeyword, "k2", &datatypes.Keyword{ID: "k2", Label: "Vue", Status: "success"}))
	require.NoError(t, s.Put(datatypes.KindEvolution, "e1", &datatypes.Evolution{ID: "e1", Type: "framework", Category: "React"}))

	require.NoError(t, s.DropKind(datatypes.KindKeyword))

	n, err := s.Count(datatypes.KindKeyword)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Count(datatypes.KindEvolution)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_List(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put(datatypes.KindKeyword, "k1", &datatypes.Keyword{ID: "k1", Label: "React", Status: "error"}))
	require.NoError(t, s.Put(datatypes.KindKeyword, "k2", &datatypes.Keyword{ID: "k2", Label: "Vue", Status: "success"}))

	seen := map[string]bool{}
	err := s.List(datatypes.KindKeyword, func(id string, raw []byte) error {
		seen[id] = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"k1": true, "k2": true}, seen)
}

func TestStore_ListStopsOnCallbackError(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put(datatypes.KindKeyword, "k1", &datatypes.Keyword{ID: "k1", Label: "React", Status: "error"}))
	require.NoError(t, s.Put(datatypes.KindKeyword, "k2", &datatypes.Keyword{ID: "k2", Label: "Vue", Status: "success"}))

	wantErr := errors.New("stop")
	calls := 0
	err := s.List(datatypes.KindKeyword, func(id string, raw []byte) error {
		calls++
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestStore_ClosedStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	assert.False(t, s.Ready())
	assert.ErrorIs(t, s.Put(datatypes.KindKeyword, "k", struct{}{}), ErrClosed)
	_, err := s.Count(datatypes.KindKeyword)
	assert.ErrorIs(t, err, ErrClosed)

	// Second close is a no-op.
	assert.NoError(t, s.Close())
}
