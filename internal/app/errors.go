package app

import "errors"

// Sentinel kinds for service errors.
var ErrNoFetcher = errors.New("no catalog fetcher configured")
