// Package sync glues the local store to the remote one: replaying the
// pending-action log, merging freshly fetched collections into the local
// cache, watching connectivity and applying realtime row changes.
package sync

import "time"

// Identifiable is anything with a stable entity id.
type Identifiable interface {
	EntityID() string
}

// Merge reconciles a locally cached collection with a freshly fetched
// remote one. The rule is presence-based: for every id present on both
// sides the local copy wins unconditionally, since local may hold edits
// that have not reached the remote store yet. Remote-only items are
// appended, local-only items are kept. Merging the same remote snapshot
// twice is a no-op.
func Merge[T Identifiable](local, remote []T) []T {
	out := make([]T, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(local))
	for _, item := range local {
		out = append(out, item)
		seen[item.EntityID()] = true
	}
	for _, item := range remote {
		if !seen[item.EntityID()] {
			out = append(out, item)
		}
	}
	return out
}

// NewerWins reports whether an incoming change should replace the local
// row, comparing last-modified timestamps. Used by the realtime path so a
// stale event cannot clobber a fresher local edit; equal timestamps keep
// the local row.
func NewerWins(local, incoming time.Time) bool {
	return incoming.After(local)
}
