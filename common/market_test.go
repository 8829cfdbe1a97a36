package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketPhaseAt(t *testing.T) {
	loc, err := time.LoadLocation(MarketTimezone)
	require.NoError(t, err)

	// Monday 2026-09-07.
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 9, 7, hour, minute, 0, 0, loc)
	}

	assert.Equal(t, PhaseClosed, MarketPhaseAt(at(8, 30)))
	assert.Equal(t, PhaseMorning, MarketPhaseAt(at(9, 0)))
	assert.Equal(t, PhaseMorning, MarketPhaseAt(at(11, 29)))
	assert.Equal(t, PhaseLunch, MarketPhaseAt(at(12, 0)))
	assert.Equal(t, PhaseAfternoon, MarketPhaseAt(at(13, 30)))
	assert.Equal(t, PhaseATC, MarketPhaseAt(at(14, 50)))
	assert.Equal(t, PhaseClosed, MarketPhaseAt(at(15, 30)))

	saturday := time.Date(2026, 9, 5, 10, 0, 0, 0, loc)
	assert.Equal(t, PhaseClosed, MarketPhaseAt(saturday))
}

func TestMarketOpenAt(t *testing.T) {
	loc, err := time.LoadLocation(MarketTimezone)
	require.NoError(t, err)

	assert.True(t, MarketOpenAt(time.Date(2026, 9, 7, 10, 0, 0, 0, loc)))
	assert.False(t, MarketOpenAt(time.Date(2026, 9, 7, 12, 0, 0, 0, loc)))
	assert.False(t, MarketOpenAt(time.Date(2026, 9, 6, 10, 0, 0, 0, loc)))
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusFilled.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusNew.IsTerminal())
	assert.False(t, StatusPartiallyFilled.IsTerminal())
}
