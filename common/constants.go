package common

import "time"

// API base URLs.
const (
	APIBaseURL = "https://api.dnse.com.vn"

	MarketDataHost = "datafeed-lts-krx.dnse.com.vn"
	MarketDataPort = 443
	MarketDataPath = "/wss"
)

// Market data topic templates. The single %s is the symbol.
const (
	TopicStockInfo = "plaintext/quotes/krx/mdds/stockinfo/v1/roundlot/symbol/%s"
	TopicTopPrice  = "plaintext/quotes/krx/mdds/topprice/v1/roundlot/symbol/%s"
)

// HTTP headers used by the DNSE API.
const (
	HeaderAuthorization  = "Authorization"
	HeaderTradingToken   = "Trading-Token"
	HeaderSmartOTP       = "smart-otp"
	HeaderContentType    = "Content-Type"
	HeaderIdempotencyKey = "Idempotency-Key"

	ContentTypeJSON = "application/json"
)

// Token lifetimes. Both the JWT and the trading token are valid for 8 hours;
// the refresh loop renews the JWT once less than the buffer remains.
const (
	TokenValidity      = 8 * time.Hour
	TokenRefreshBuffer = 30 * time.Minute
	TokenRefreshEvery  = 60 * time.Second
)

// Request defaults.
const (
	HTTPTimeout    = 30 * time.Second
	MaxAttempts    = 3
	RetryBaseDelay = 1 * time.Second
)

// Vietnamese market hours (GMT+7).
const (
	MarketTimezone      = "Asia/Ho_Chi_Minh"
	MarketMorningOpen   = "09:00"
	MarketMorningClose  = "11:30"
	MarketAfternoonOpen = "13:00"
	MarketAfternoonEnd  = "14:45"
	MarketATCEnd        = "15:00"
)
