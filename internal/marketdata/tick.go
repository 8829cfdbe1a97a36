package marketdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// Level is one price level of the order book.
type Level struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// Tick is the unified representation of one streaming market-data message.
// One tick reflects exactly one upstream message: a stockinfo (trade) message
// populates the trade and session fields and leaves the book empty, a
// topprice message populates the book and best bid/ask and leaves the trade
// fields zero. Consumers distinguish the two by which fields are non-zero.
type Tick struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`

	LastPrice  decimal.Decimal `json:"lastPrice"`
	LastVolume int64           `json:"lastVolume"`

	BidPrice  decimal.Decimal `json:"bidPrice"`
	BidVolume int64           `json:"bidVolume"`
	AskPrice  decimal.Decimal `json:"askPrice"`
	AskVolume int64           `json:"askVolume"`

	OpenPrice  decimal.Decimal `json:"openPrice"`
	HighPrice  decimal.Decimal `json:"highPrice"`
	LowPrice   decimal.Decimal `json:"lowPrice"`
	ClosePrice decimal.Decimal `json:"closePrice"`

	TotalVolume int64           `json:"totalVolume"`
	TotalValue  decimal.Decimal `json:"totalValue"`

	Bids []Level `json:"bids,omitempty"`
	Asks []Level `json:"asks,omitempty"`
}

// HasBook reports whether the tick carries order-book levels.
func (t *Tick) HasBook() bool { return len(t.Bids) > 0 || len(t.Asks) > 0 }
