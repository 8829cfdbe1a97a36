package rest

import "fmt"

// RequestError reports a request that exhausted its retry budget. Status and
// Body hold the last HTTP response observed; Err holds the last transport
// error when no response was received at all.
type RequestError struct {
	Method   string
	URL      string
	Attempts int
	Status   int
	Body     string
	Err      error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed after %d attempts: %v", e.Method, e.URL, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s %s failed after %d attempts: HTTP %d: %s", e.Method, e.URL, e.Attempts, e.Status, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Err }
