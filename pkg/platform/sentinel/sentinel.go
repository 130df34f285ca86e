package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors.
//
//   - ErrNotFound: no row matched the lookup within the caller's access scope
//   - ErrConflict: a uniqueness constraint rejected the write (one publication per kit)
//   - ErrUnavailable: the backing store or cache could not be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
