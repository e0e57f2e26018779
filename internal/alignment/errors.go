package alignment

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable wraps every failure to query or write a reference
// store. Classification never falls back to a default outcome when it sees
// this error; callers should retry.
var ErrStoreUnavailable = errors.New("reference store unavailable")

// ErrUnknownTrack is returned when a record's program is not in the catalog.
var ErrUnknownTrack = errors.New("unknown program track")

// ErrEmptyTitle is returned by stores asked to insert an empty title.
var ErrEmptyTitle = errors.New("empty job title")

// IsRetryable reports whether err came from an unavailable reference store.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

func storeError(op string, track Track, err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %w", ErrStoreUnavailable, op, track, err)
}
