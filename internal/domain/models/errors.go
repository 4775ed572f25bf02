package models

import "errors"

var (
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrCodeNotRecognized   = errors.New("code not recognized")
	ErrNoDataAvailable     = errors.New("no data available")
)
