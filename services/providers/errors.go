// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package providers

import "errors"

// Provider error taxonomy. Callers can tell "bad input" from
// "infrastructure down" from "store query failed"; the aggregation
// boundary still degrades every one of these to an empty value, but
// logs and metrics carry the distinction.
var (
	// ErrInvalidRecord means a required field was missing or empty.
	// The operation was not performed; nothing existed or changed.
	ErrInvalidRecord = errors.New("providers: invalid record")

	// ErrMissingIdentity means an edit or delete was attempted
	// without a record identity.
	ErrMissingIdentity = errors.New("providers: missing identity")

	// ErrNotFound means a single-record lookup matched nothing.
	ErrNotFound = errors.New("providers: record not found")

	// ErrStoreUnavailable means the backing collection cannot be
	// resolved (store handle nil or closed).
	ErrStoreUnavailable = errors.New("providers: store unavailable")
)

// ErrorKind maps a provider error to a stable label for metrics and
// structured logs. Returns "" for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRecord):
		return "invalid_record"
	case errors.Is(err, ErrMissingIdentity):
		return "missing_identity"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "store_fault"
	}
}
