package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dnse-connect/common"
	"dnse-connect/internal/models"
)

// Orders lists the account's orders. Dates use the YYYY-MM-DD form; empty
// values are omitted from the query.
func (c *Client) Orders(ctx context.Context, fromDate, toDate string) ([]models.Order, error) {
	query := url.Values{}
	query.Set("accountNo", c.accountNo)
	if fromDate != "" {
		query.Set("fromDate", fromDate)
	}
	if toDate != "" {
		query.Set("toDate", toDate)
	}

	raw, err := c.Do(ctx, http.MethodGet, baseOrdersURL(c.base), nil, query, false)
	if err != nil {
		return nil, err
	}
	return models.ParseOrders(raw)
}

// OrderDetail fetches one order by id.
func (c *Client) OrderDetail(ctx context.Context, orderID int64) (*models.Order, error) {
	raw, err := c.Do(ctx, http.MethodGet, baseOrderDetailURL(c.base, orderID), nil, nil, false)
	if err != nil {
		return nil, err
	}
	return models.ParseOrder(raw)
}

// PlaceOrder submits a base securities order. The request carries a
// client-generated idempotency key so a retried POST after a network error
// cannot double-submit an order the server already accepted.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	return c.placeOrder(ctx, baseOrdersURL(c.base), req)
}

// CancelOrder cancels a base securities order.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	c.log.Info("cancelling order", zap.Int64("order_id", orderID))

	raw, err := c.Do(ctx, http.MethodDelete, baseCancelOrderURL(c.base, orderID, c.accountNo), nil, nil, true)
	if err != nil {
		return nil, err
	}
	return models.ParseOrder(raw)
}

// DerivativeOrderDetail fetches one derivative order by id.
func (c *Client) DerivativeOrderDetail(ctx context.Context, orderID int64) (*models.Order, error) {
	raw, err := c.Do(ctx, http.MethodGet, derivativeOrderDetailURL(c.base, orderID), nil, nil, false)
	if err != nil {
		return nil, err
	}
	return models.ParseOrder(raw)
}

// PlaceDerivativeOrder submits a derivative order.
func (c *Client) PlaceDerivativeOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	return c.placeOrder(ctx, derivativeOrdersURL(c.base), req)
}

// CancelDerivativeOrder cancels a derivative order.
func (c *Client) CancelDerivativeOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	c.log.Info("cancelling derivative order", zap.Int64("order_id", orderID))

	raw, err := c.Do(ctx, http.MethodDelete, derivativeCancelOrderURL(c.base, orderID, c.accountNo), nil, nil, true)
	if err != nil {
		return nil, err
	}
	return models.ParseOrder(raw)
}

func (c *Client) placeOrder(ctx context.Context, endpoint string, req OrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	price, _ := req.Price.Float64()
	payload := map[string]any{
		"symbol":        req.Symbol,
		"side":          req.Side,
		"orderType":     req.OrderType,
		"price":         price,
		"quantity":      req.Quantity,
		"loanPackageId": req.LoanPackageID,
		"accountNo":     c.accountNo,
	}

	c.log.Info("placing order",
		zap.String("symbol", req.Symbol),
		zap.String("side", string(req.Side)),
		zap.Int64("quantity", req.Quantity),
		zap.String("price", req.Price.String()),
	)

	extra := http.Header{}
	extra.Set(common.HeaderIdempotencyKey, uuid.NewString())

	raw, err := c.do(ctx, http.MethodPost, endpoint, payload, nil, true, extra)
	if err != nil {
		return nil, err
	}
	return models.ParseOrder(raw)
}
