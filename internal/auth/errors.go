package auth

import (
	"errors"
	"fmt"
)

// ErrTradingTokenRequired is returned when an order operation is attempted
// and no trading token can be obtained.
var ErrTradingTokenRequired = errors.New("trading token required")

// ErrNoOTP is returned when a trading token is requested but no one-time
// code was supplied and no OTP provider is configured.
var ErrNoOTP = errors.New("no OTP code available")

// AuthError reports a failed login or trading-token exchange. Status and Body
// carry the HTTP response when the failure came from the API.
type AuthError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.Status, e.Body)
}

func (e *AuthError) Unwrap() error { return e.Err }
