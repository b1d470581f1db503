package weather

import (
	"fmt"
	"time"
)

const (
	RequestTimeout = 10 * time.Second
	UserAgent      = "meteo-go https://github.com/dglent/meteo-go"
)

// FetchReason classifies why a fetch failed.
type FetchReason string

const (
	ReasonRequest FetchReason = "request"  // request could not be sent
	ReasonTimeout FetchReason = "timeout"  // deadline exceeded
	ReasonStatus  FetchReason = "status"   // non-2xx response
	ReasonParse   FetchReason = "parse"    // malformed response body
	ReasonNoData  FetchReason = "no-data"  // well-formed response with nothing usable
	ReasonConfig  FetchReason = "config"   // missing API key or endpoint
)

// FetchError is returned by providers when a single fetch attempt fails.
// There is no automatic retry; failures are surfaced so the user can
// re-trigger manually.
type FetchError struct {
	Reason FetchReason
	Status int // HTTP status for ReasonStatus, 0 otherwise
	Err    error
}

func (e *FetchError) Error() string {
	if e.Reason == ReasonStatus {
		return fmt.Sprintf("weather fetch failed (%s %d): %v", e.Reason, e.Status, e.Err)
	}
	return fmt.Sprintf("weather fetch failed (%s): %v", e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline expiry.
func (e *FetchError) Timeout() bool {
	return e.Reason == ReasonTimeout
}
