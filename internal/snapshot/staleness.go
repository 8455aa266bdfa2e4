package snapshot

import "time"

// IsStale reports whether a cached snapshot must be recomputed. The sync
// watermark copied at build time is compared with the current one; a change
// in either direction, including to or from nil, or force makes it stale.
func IsStale(cached, current *time.Time, force bool) bool {
	if force {
		return true
	}
	if cached == nil || current == nil {
		return cached != current
	}
	return !cached.Equal(*current)
}
