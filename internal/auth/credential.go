package auth

import "time"

// Credential holds the two-layer DNSE token state. The JWT authorizes reads,
// the trading token authorizes order placement and cancellation. A zero
// Credential is valid and means "not logged in".
type Credential struct {
	JWT                   string    `json:"jwt"`
	JWTExpiresAt          time.Time `json:"jwtExpiresAt"`
	TradingToken          string    `json:"tradingToken,omitempty"`
	TradingTokenExpiresAt time.Time `json:"tradingTokenExpiresAt,omitempty"`
}

// PrimaryExpired reports whether the JWT is missing or past its expiry.
func (c Credential) PrimaryExpired() bool {
	if c.JWT == "" || c.JWTExpiresAt.IsZero() {
		return true
	}
	return !time.Now().Before(c.JWTExpiresAt)
}

// SecondaryExpired reports whether the trading token is missing or past its
// expiry. A credential without a trading token counts as expired.
func (c Credential) SecondaryExpired() bool {
	if c.TradingToken == "" || c.TradingTokenExpiresAt.IsZero() {
		return true
	}
	return !time.Now().Before(c.TradingTokenExpiresAt)
}
