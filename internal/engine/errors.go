// Package engine ties the fingerprinting pipeline, the store, and the
// out-of-scope hybrid collaborator together behind a single query API.
package engine

import "errors"

// ErrStoreUnavailable means the index could not be opened or a lookup
// could not complete. Callers receive this unchanged; no partial verdict
// is ever returned.
var ErrStoreUnavailable = errors.New("engine: fingerprint store unavailable")

// ErrInvalidParameter means the engine was constructed with a nonsensical
// tunable (negative fan value, negative match ratio, etc). This is a
// programmer error, surfaced at construction time rather than at query
// time.
var ErrInvalidParameter = errors.New("engine: invalid parameter")

// errDecodeFailed and errDegenerateAudio are not exported: per the error
// taxonomy, both are absorbed by the pipeline and turned into an empty
// hash set rather than propagated to the caller as an error.
var (
	errDecodeFailed    = errors.New("engine: audio decode failed")
	errDegenerateAudio = errors.New("engine: no usable peaks in audio")
)
