package cache

import "errors"

// ErrNegativeCached is returned by GetOrCompute when the requested key is
// currently marked as a known-recent failure, without invoking the
// producer again.
var ErrNegativeCached = errors.New("cache: negative-cached")
