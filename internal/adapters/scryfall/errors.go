package scryfall

import "errors"

// Sentinel kinds for lookup errors.
var ErrFetch = errors.New("card lookup failed")
