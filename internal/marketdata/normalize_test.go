package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnse-connect/common"
)

func TestNormalizeStockInfo(t *testing.T) {
	payload := []byte(`{
		"symbol": "VNM",
		"matchPrice": 75000,
		"matchQuantity": 100,
		"totalVolumeTraded": 1500000,
		"grossTradeAmount": 112500000000,
		"openPrice": 74500,
		"highestPrice": 75200,
		"lowestPrice": 74300,
		"referencePrice": 74800,
		"time": 1756700000000
	}`)

	tick, err := Normalize(common.FeedStockInfo, "VNM", payload)
	require.NoError(t, err)

	assert.Equal(t, "VNM", tick.Symbol)
	assert.Equal(t, "75000", tick.LastPrice.String())
	assert.EqualValues(t, 100, tick.LastVolume)
	assert.EqualValues(t, 1500000, tick.TotalVolume)
	assert.Equal(t, "112500000000", tick.TotalValue.String())
	assert.Equal(t, "74500", tick.OpenPrice.String())
	assert.Equal(t, "75200", tick.HighPrice.String())
	assert.Equal(t, "74300", tick.LowPrice.String())
	assert.Equal(t, "74800", tick.ClosePrice.String())
	assert.Equal(t, time.UnixMilli(1756700000000), tick.Timestamp)
	assert.False(t, tick.HasBook())
}

func TestNormalizeStockInfoAliases(t *testing.T) {
	payload := []byte(`{
		"lastPrice": "24150.5",
		"lastVolume": "200",
		"totalVolume": 9000,
		"high": 24400,
		"low": 23900
	}`)

	tick, err := Normalize(common.FeedStockInfo, "HPG", payload)
	require.NoError(t, err)

	assert.Equal(t, "24150.5", tick.LastPrice.String())
	assert.EqualValues(t, 200, tick.LastVolume)
	assert.EqualValues(t, 9000, tick.TotalVolume)
	assert.Equal(t, "24400", tick.HighPrice.String())
	assert.Equal(t, "23900", tick.LowPrice.String())
}

func TestNormalizeStockInfoMissingFieldsZero(t *testing.T) {
	tick, err := Normalize(common.FeedStockInfo, "SSI", []byte(`{"garbage": true}`))
	require.NoError(t, err)

	assert.True(t, tick.LastPrice.IsZero())
	assert.Zero(t, tick.LastVolume)
	assert.WithinDuration(t, time.Now(), tick.Timestamp, time.Minute)
}

func TestNormalizeTopPrice(t *testing.T) {
	payload := []byte(`{
		"bid": [
			{"price": 74900, "qtty": 500},
			{"price": 74800, "qtty": 1200}
		],
		"offer": [
			{"price": 75100, "qtty": 300}
		]
	}`)

	tick, err := Normalize(common.FeedTopPrice, "VNM", payload)
	require.NoError(t, err)

	require.Len(t, tick.Bids, 2)
	require.Len(t, tick.Asks, 1)
	assert.Equal(t, "74900", tick.BidPrice.String())
	assert.EqualValues(t, 500, tick.BidVolume)
	assert.Equal(t, "75100", tick.AskPrice.String())
	assert.EqualValues(t, 300, tick.AskVolume)
	assert.Equal(t, "74800", tick.Bids[1].Price.String())
	assert.True(t, tick.HasBook())
	assert.True(t, tick.LastPrice.IsZero())
}

func TestNormalizeTopPriceDropsEmptyLevels(t *testing.T) {
	payload := []byte(`{
		"bid": [
			{"price": 0, "qtty": 500},
			{"price": 74800, "qtty": 0},
			{"price": 74700, "qtty": 100}
		],
		"offer": []
	}`)

	tick, err := Normalize(common.FeedTopPrice, "VNM", payload)
	require.NoError(t, err)

	require.Len(t, tick.Bids, 1)
	assert.Equal(t, "74700", tick.BidPrice.String())
	assert.EqualValues(t, 100, tick.BidVolume)
	assert.Empty(t, tick.Asks)
	assert.True(t, tick.AskPrice.IsZero())
}

func TestNormalizeTopPriceAskAliases(t *testing.T) {
	payload := []byte(`{
		"bids": [{"price": "100", "quantity": 10}],
		"asks": [{"price": "101", "volume": 20}]
	}`)

	tick, err := Normalize(common.FeedTopPrice, "FPT", payload)
	require.NoError(t, err)

	require.Len(t, tick.Bids, 1)
	require.Len(t, tick.Asks, 1)
	assert.EqualValues(t, 10, tick.BidVolume)
	assert.EqualValues(t, 20, tick.AskVolume)
}

func TestNormalizeRejectsNonObject(t *testing.T) {
	_, err := Normalize(common.FeedStockInfo, "VNM", []byte(`not json`))
	assert.Error(t, err)

	_, err = Normalize(common.FeedStockInfo, "VNM", []byte(`[1,2,3]`))
	assert.Error(t, err)
}

func TestNormalizeUnknownKind(t *testing.T) {
	_, err := Normalize(common.FeedKind("nonsense"), "VNM", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownFeed)
}

func TestParseTimestampForms(t *testing.T) {
	seconds := parseTimestamp(map[string]any{"time": float64(1756700000)})
	assert.Equal(t, time.Unix(1756700000, 0), seconds)

	millis := parseTimestamp(map[string]any{"sendingTime": float64(1756700000123)})
	assert.Equal(t, time.UnixMilli(1756700000123), millis)

	rfc := parseTimestamp(map[string]any{"tradingTime": "2026-09-01T10:15:00+07:00"})
	assert.Equal(t, 2026, rfc.Year())
	assert.Equal(t, 15, rfc.Minute())

	fallback := parseTimestamp(map[string]any{})
	assert.WithinDuration(t, time.Now(), fallback, time.Minute)
}

func TestSafeCoercion(t *testing.T) {
	assert.Equal(t, "12.5", safeDecimal(12.5).String())
	assert.Equal(t, "12.5", safeDecimal("12.5").String())
	assert.True(t, safeDecimal(nil).IsZero())
	assert.True(t, safeDecimal("abc").IsZero())
	assert.True(t, safeDecimal(true).IsZero())

	assert.EqualValues(t, 12, safeInt(12.9))
	assert.EqualValues(t, 0, safeInt(nil))
}
