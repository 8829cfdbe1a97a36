package marketdata

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"dnse-connect/common"
)

// ErrUnknownFeed is returned when a message cannot be attributed to a known
// feed kind.
var ErrUnknownFeed = errors.New("unknown feed kind")

// Normalize converts a raw streaming payload of the given feed kind into a
// Tick. The upstream feed is schema-inconsistent across message types and API
// versions, so extraction is alias-based with safe numeric coercion: a field
// that is absent or unparsable becomes zero, never an error. Only a payload
// that is not a JSON object at all fails.
func Normalize(kind common.FeedKind, symbol string, payload []byte) (*Tick, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, err
	}

	switch kind {
	case common.FeedStockInfo:
		return parseStockInfo(symbol, data), nil
	case common.FeedTopPrice:
		return parseTopPrice(symbol, data), nil
	default:
		return nil, ErrUnknownFeed
	}
}

// parseStockInfo extracts trade and session fields from a stockinfo message.
// Book levels stay empty.
func parseStockInfo(symbol string, data map[string]any) *Tick {
	return &Tick{
		Symbol:      symbol,
		Timestamp:   parseTimestamp(data),
		LastPrice:   safeDecimal(pick(data, "matchPrice", "lastPrice", "matchedPrice")),
		LastVolume:  safeInt(pick(data, "matchQuantity", "lastVolume", "matchedVolume")),
		TotalVolume: safeInt(pick(data, "totalVolumeTraded", "totalVolume", "accumulatedVolume")),
		TotalValue:  safeDecimal(pick(data, "grossTradeAmount", "totalValue", "accumulatedValue")),
		OpenPrice:   safeDecimal(pick(data, "openPrice", "open")),
		HighPrice:   safeDecimal(pick(data, "highestPrice", "highPrice", "high")),
		LowPrice:    safeDecimal(pick(data, "lowestPrice", "lowPrice", "low")),
		ClosePrice:  safeDecimal(pick(data, "referencePrice", "closePrice", "close")),
	}
}

// parseTopPrice extracts bid/ask levels from a topprice message. A level must
// carry a positive price and a positive quantity to be kept; the best bid/ask
// scalars mirror the first kept level of each side. Trade fields stay zero.
func parseTopPrice(symbol string, data map[string]any) *Tick {
	bids := parseLevels(pick(data, "bid", "bids"))
	asks := parseLevels(pick(data, "offer", "ask", "asks"))

	tick := &Tick{
		Symbol:    symbol,
		Timestamp: parseTimestamp(data),
		Bids:      bids,
		Asks:      asks,
	}
	if len(bids) > 0 {
		tick.BidPrice = bids[0].Price
		tick.BidVolume = bids[0].Quantity
	}
	if len(asks) > 0 {
		tick.AskPrice = asks[0].Price
		tick.AskVolume = asks[0].Quantity
	}
	return tick
}

func parseLevels(v any) []Level {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var levels []Level
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		price := safeDecimal(pick(m, "price"))
		qty := safeInt(pick(m, "qtty", "quantity", "volume"))
		if price.IsPositive() && qty > 0 {
			levels = append(levels, Level{Price: price, Quantity: qty})
		}
	}
	return levels
}

// pick returns the first non-nil value among the keys, in priority order.
func pick(data map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := data[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// safeDecimal coerces numbers, numeric strings and nil into a decimal,
// defaulting to zero.
func safeDecimal(v any) decimal.Decimal {
	switch value := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(value)
	case string:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero
		}
		return d
	case json.Number:
		d, err := decimal.NewFromString(value.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// safeInt coerces numbers and numeric strings into an int64, defaulting to
// zero. Fractional values truncate.
func safeInt(v any) int64 {
	return safeDecimal(v).IntPart()
}

// parseTimestamp resolves the event time from the aliases seen in practice:
// unix seconds, unix milliseconds, or an RFC3339 string. Messages without a
// usable time field get the receive time.
func parseTimestamp(data map[string]any) time.Time {
	for _, key := range []string{"time", "timestamp", "tradingTime", "matchedTime", "sendingTime"} {
		v, ok := data[key]
		if !ok || v == nil {
			continue
		}
		switch value := v.(type) {
		case float64:
			if value > 1e12 {
				return time.UnixMilli(int64(value))
			}
			if value > 0 {
				return time.Unix(int64(value), 0)
			}
		case string:
			if parsed, err := time.Parse(time.RFC3339, value); err == nil {
				return parsed
			}
		}
	}
	return time.Now()
}
