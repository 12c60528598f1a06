// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Sentinel errors shared across pipeline stages. Callers match them with
// errors.Is; stages wrap them with fmt.Errorf("%w") to add context.
var (
	// ErrInvalidInput marks malformed top-level input: an empty query, empty
	// candidate text handed to the embedder, an unknown purpose, or a bad
	// target band. Rejected immediately, no partial processing.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingFailed marks one item that could not be embedded after the
	// retry and synchronous fallback. It is always handled locally — the item
	// is excluded from semantic scoring — and never aborts a pipeline run.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrConfigInvalid marks bad weight or threshold tables. Raised at load
	// time, before any request is served.
	ErrConfigInvalid = errors.New("invalid configuration")
)
