package adapters

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dnse-connect/common"
	"dnse-connect/internal/events"
	"dnse-connect/internal/rest"
)

// OrderCommand is an order submission expressed in adapter terms.
type OrderCommand struct {
	Symbol        string
	Side          common.OrderSide
	OrderType     common.OrderType
	Price         decimal.Decimal
	Quantity      int64
	LoanPackageID int64
	Derivative    bool
}

// ExecClient is the order-execution side of the adapter. Every order state
// observed through the REST API is reported to the sink as an order update.
type ExecClient struct {
	rest *rest.Client
	sink events.Sink
	log  *zap.Logger
}

// NewExecClient creates an execution client.
func NewExecClient(restClient *rest.Client, sink events.Sink, log *zap.Logger) *ExecClient {
	if log == nil {
		log = zap.NewNop()
	}
	if sink == nil {
		sink = events.NopSink{}
	}
	return &ExecClient{rest: restClient, sink: sink, log: log}
}

// Connect authenticates the session and eagerly requests a trading token so
// order submission does not stall on an OTP prompt mid-session. A failed
// token exchange is reported but does not fail the connect; reads still work.
func (c *ExecClient) Connect(ctx context.Context) error {
	if err := c.rest.Session().Start(ctx); err != nil {
		return err
	}
	if err := c.rest.Session().EnsureSecondary(ctx); err != nil {
		c.log.Warn("no trading token yet, order operations will fail until OTP verification", zap.Error(err))
	}
	c.log.Info("execution client connected", zap.String("account", c.rest.AccountNo()))
	return nil
}

// Disconnect closes the auth session.
func (c *ExecClient) Disconnect(ctx context.Context) error {
	c.rest.Session().Close()
	c.log.Info("execution client disconnected")
	return nil
}

// SubmitOrder places the order and reports the resulting state to the sink.
func (c *ExecClient) SubmitOrder(ctx context.Context, cmd OrderCommand) error {
	req := rest.OrderRequest{
		Symbol:        cmd.Symbol,
		Side:          cmd.Side,
		OrderType:     cmd.OrderType,
		Price:         cmd.Price,
		Quantity:      cmd.Quantity,
		LoanPackageID: cmd.LoanPackageID,
	}

	place := c.rest.PlaceOrder
	if cmd.Derivative {
		place = c.rest.PlaceDerivativeOrder
	}
	order, err := place(ctx, req)
	if err != nil {
		return err
	}
	c.sink.OnOrderUpdate(order)
	return nil
}

// CancelOrder cancels the order and reports the resulting state to the sink.
// Derivative orders live in a separate order service, so cancellation routes
// the same way placement does.
func (c *ExecClient) CancelOrder(ctx context.Context, orderID int64, derivative bool) error {
	cancel := c.rest.CancelOrder
	if derivative {
		cancel = c.rest.CancelDerivativeOrder
	}
	order, err := cancel(ctx, orderID)
	if err != nil {
		return err
	}
	c.sink.OnOrderUpdate(order)
	return nil
}

// ReportOrders fetches the order list and replays every record into the sink,
// used to reconcile state after a reconnect.
func (c *ExecClient) ReportOrders(ctx context.Context, fromDate, toDate string) error {
	orders, err := c.rest.Orders(ctx, fromDate, toDate)
	if err != nil {
		return err
	}
	for i := range orders {
		c.sink.OnOrderUpdate(&orders[i])
	}
	return nil
}
