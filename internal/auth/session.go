package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"dnse-connect/common"
)

// OTPProvider supplies a one-time code for the trading-token exchange. It must
// return a non-empty string or an error; an empty code fails the exchange.
type OTPProvider func() (string, error)

// Config configures a Session.
type Config struct {
	BaseURL  string
	Username string
	Password string

	// OTP is consulted when ObtainTradingToken is called without a code.
	OTP OTPProvider

	// TokenValidity defaults to 8 hours, matching the DNSE deployment.
	TokenValidity  time.Duration
	RefreshEvery   time.Duration
	RefreshBuffer  time.Duration
	HTTPClient     *http.Client
	Logger         *zap.Logger
	DisableRefresh bool
	InitialCred    Credential
}

// Session manages the DNSE two-layer credential lifecycle: username/password
// login for the JWT, OTP verification for the trading token, and proactive
// background refresh of the JWT.
//
// All credential mutation happens under the session mutex. Concurrent callers
// of EnsurePrimary serialize on it, so a burst of requests against an expired
// token produces exactly one login.
type Session struct {
	cfg   Config
	httpc *http.Client
	log   *zap.Logger

	mu   sync.Mutex
	cred Credential

	refreshCancel context.CancelFunc
	refreshDone   chan struct{}
}

// NewSession creates a session. Nil logger and zero durations fall back to
// the package defaults; no network call is made until Login or Start.
func NewSession(cfg Config) *Session {
	if cfg.BaseURL == "" {
		cfg.BaseURL = common.APIBaseURL
	}
	if cfg.TokenValidity <= 0 {
		cfg.TokenValidity = common.TokenValidity
	}
	if cfg.RefreshEvery <= 0 {
		cfg.RefreshEvery = common.TokenRefreshEvery
	}
	if cfg.RefreshBuffer <= 0 {
		cfg.RefreshBuffer = common.TokenRefreshBuffer
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: common.HTTPTimeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		cfg:   cfg,
		httpc: httpc,
		log:   log,
		cred:  cfg.InitialCred,
	}
}

// Credential returns a snapshot of the current credential state.
func (s *Session) Credential() Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred
}

// IsAuthenticated reports whether a valid JWT is held.
func (s *Session) IsAuthenticated() bool {
	return !s.Credential().PrimaryExpired()
}

// CanTrade reports whether a valid trading token is held.
func (s *Session) CanTrade() bool {
	return !s.Credential().SecondaryExpired()
}

// Start performs the initial login and launches the background refresh loop.
func (s *Session) Start(ctx context.Context) error {
	if err := s.Login(ctx); err != nil {
		return err
	}
	if !s.cfg.DisableRefresh && s.refreshDone == nil {
		rctx, cancel := context.WithCancel(context.Background())
		s.refreshCancel = cancel
		s.refreshDone = make(chan struct{})
		go s.refreshLoop(rctx)
	}
	return nil
}

// Close cancels the refresh loop and waits for it to exit, then discards the
// credential. No refresh attempt runs after Close returns.
func (s *Session) Close() {
	if s.refreshCancel != nil {
		s.refreshCancel()
		<-s.refreshDone
		s.refreshCancel = nil
		s.refreshDone = nil
	}
	s.mu.Lock()
	s.cred = Credential{}
	s.mu.Unlock()
}

// Login exchanges username/password for a fresh JWT. An existing trading
// token survives; its validity is independent of the JWT.
func (s *Session) Login(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginLocked(ctx)
}

func (s *Session) loginLocked(ctx context.Context) error {
	payload, _ := json.Marshal(map[string]string{
		"username": s.cfg.Username,
		"password": s.cfg.Password,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL(s.cfg.BaseURL), bytes.NewReader(payload))
	if err != nil {
		return &AuthError{Op: "login", Err: err}
	}
	req.Header.Set(common.HeaderContentType, common.ContentTypeJSON)

	s.log.Info("logging in", zap.String("username", s.cfg.Username))

	resp, err := s.httpc.Do(req)
	if err != nil {
		return &AuthError{Op: "login", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &AuthError{Op: "login", Status: resp.StatusCode, Body: string(body)}
	}

	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return &AuthError{Op: "login", Err: fmt.Errorf("decode response: %w", err)}
	}
	if res.Token == "" {
		return &AuthError{Op: "login", Status: resp.StatusCode, Body: "response missing 'token' field"}
	}

	expiresAt := time.Now().Add(s.cfg.TokenValidity)
	s.cred.JWT = res.Token
	s.cred.JWTExpiresAt = expiresAt

	s.log.Info("login successful", zap.Time("jwt_expires_at", expiresAt))
	return nil
}

// ObtainTradingToken performs the OTP verification that yields the trading
// token. An empty otp falls back to the configured provider.
func (s *Session) ObtainTradingToken(ctx context.Context, otp string) error {
	if err := s.EnsurePrimary(ctx); err != nil {
		return err
	}

	if otp == "" {
		if s.cfg.OTP == nil {
			return &AuthError{Op: "trading-token", Err: ErrNoOTP}
		}
		code, err := s.cfg.OTP()
		if err != nil {
			return &AuthError{Op: "trading-token", Err: fmt.Errorf("otp provider: %w", err)}
		}
		if code == "" {
			return &AuthError{Op: "trading-token", Err: ErrNoOTP}
		}
		otp = code
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tradingTokenURL(s.cfg.BaseURL), nil)
	if err != nil {
		return &AuthError{Op: "trading-token", Err: err}
	}
	req.Header.Set(common.HeaderContentType, common.ContentTypeJSON)
	req.Header.Set(common.HeaderAuthorization, "Bearer "+s.Credential().JWT)
	req.Header.Set(common.HeaderSmartOTP, otp)

	s.log.Info("requesting trading token")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return &AuthError{Op: "trading-token", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &AuthError{Op: "trading-token", Status: resp.StatusCode, Body: string(body)}
	}

	var res struct {
		TradingToken string `json:"tradingToken"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return &AuthError{Op: "trading-token", Err: fmt.Errorf("decode response: %w", err)}
	}
	if res.TradingToken == "" {
		return &AuthError{Op: "trading-token", Status: resp.StatusCode, Body: "response missing 'tradingToken' field"}
	}

	expiresAt := time.Now().Add(s.cfg.TokenValidity)
	s.mu.Lock()
	s.cred.TradingToken = res.TradingToken
	s.cred.TradingTokenExpiresAt = expiresAt
	s.mu.Unlock()

	s.log.Info("trading token obtained", zap.Time("expires_at", expiresAt))
	return nil
}

// EnsurePrimary logs in if the JWT is missing or expired. The check and the
// login run under one lock acquisition, so concurrent callers ride on a
// single login round-trip.
func (s *Session) EnsurePrimary(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cred.PrimaryExpired() {
		return nil
	}
	return s.loginLocked(ctx)
}

// EnsureSecondary ensures a valid JWT and then a valid trading token.
func (s *Session) EnsureSecondary(ctx context.Context) error {
	if err := s.EnsurePrimary(ctx); err != nil {
		return err
	}
	if s.CanTrade() {
		return nil
	}
	if err := s.ObtainTradingToken(ctx, ""); err != nil {
		return fmt.Errorf("%w: %w", ErrTradingTokenRequired, err)
	}
	return nil
}

// BuildHeaders returns the header set for an API request. Absent tokens
// simply omit their header; the server then answers 401 if one was required.
func (s *Session) BuildHeaders(needTrading bool) http.Header {
	cred := s.Credential()

	h := http.Header{}
	h.Set(common.HeaderContentType, common.ContentTypeJSON)
	if cred.JWT != "" {
		h.Set(common.HeaderAuthorization, "Bearer "+cred.JWT)
	}
	if needTrading && cred.TradingToken != "" {
		h.Set(common.HeaderTradingToken, cred.TradingToken)
	}
	return h
}

// refreshLoop renews the JWT shortly before expiry. Failures are logged and
// retried on the next tick; the loop exits only on cancellation. The lock is
// held only for the login call itself, never across the sleep.
func (s *Session) refreshLoop(ctx context.Context) {
	defer close(s.refreshDone)

	ticker := time.NewTicker(s.cfg.RefreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cred := s.Credential()
			if cred.JWT == "" {
				continue
			}
			if time.Until(cred.JWTExpiresAt) >= s.cfg.RefreshBuffer {
				continue
			}
			s.log.Info("refreshing JWT before expiry")
			if err := s.Login(ctx); err != nil {
				s.log.Warn("token refresh failed, will retry", zap.Error(err))
			}
		}
	}
}

func loginURL(base string) string        { return base + "/auth-service/login" }
func tradingTokenURL(base string) string { return base + "/order-service/trading-token" }
