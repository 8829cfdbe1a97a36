// Package adapters exposes the DNSE REST and streaming layers through the
// two client roles a trading application consumes: a data client for market
// data and an execution client for orders. Both emit into an events.Sink
// rather than any concrete framework schema.
package adapters

import "context"

// DataAdapter is the market-data side of the platform adapter.
type DataAdapter interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Subscribe(symbol string)
	Unsubscribe(symbol string)
}

// ExecAdapter is the order-execution side of the platform adapter.
type ExecAdapter interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	SubmitOrder(ctx context.Context, req OrderCommand) error
	CancelOrder(ctx context.Context, orderID int64, derivative bool) error
}
