// Package events defines the subscriber contract through which the adapter
// clients surface market data and order lifecycle updates to a consuming
// trading application. The adapter emits into a Sink; it never defines or
// depends on the consumer's own event schema.
package events

import (
	"dnse-connect/internal/marketdata"
	"dnse-connect/internal/models"
)

// Sink receives normalized domain events. Implementations must be safe to
// call from the adapter's dispatcher goroutines.
type Sink interface {
	// OnTick delivers one normalized market data tick.
	OnTick(tick *marketdata.Tick)

	// OnConnected and OnDisconnected report streaming connectivity.
	OnConnected()
	OnDisconnected(err error)

	// OnOrderUpdate delivers an order state observed via the REST API
	// (accepted, filled, rejected, canceled...).
	OnOrderUpdate(order *models.Order)
}

// NopSink discards all events. Useful as a default and in tests.
type NopSink struct{}

func (NopSink) OnTick(*marketdata.Tick)     {}
func (NopSink) OnConnected()                {}
func (NopSink) OnDisconnected(error)        {}
func (NopSink) OnOrderUpdate(*models.Order) {}
