// Package shelfstore persists the whole shelf as one JSON blob in a single
// named slot. Load returns an empty shelf when the slot was never written;
// an unparseable payload wraps ErrCorrupted so callers can fail fast
// instead of silently starting over an empty shelf.
package shelfstore

import "errors"

var ErrCorrupted = errors.New("corrupted shelf payload")
