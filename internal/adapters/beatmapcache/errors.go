package beatmapcache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNilFetcher = errors.New("nil fetcher")
)
