package common

// OrderSide is the DNSE order side code.
type OrderSide string

const (
	SideBuy  OrderSide = "NB"
	SideSell OrderSide = "NS"
)

// OrderType is the DNSE order type code.
type OrderType string

const (
	OrderTypeLimit         OrderType = "LO"
	OrderTypeMarket        OrderType = "MP"
	OrderTypeMarketToLimit OrderType = "MTL"
	OrderTypeAtOpen        OrderType = "ATO"
	OrderTypeAtClose       OrderType = "ATC"
	OrderTypeMatchOrKill   OrderType = "MOK"
	OrderTypeMatchAndKill  OrderType = "MAK"
	OrderTypePostClose     OrderType = "PLO"
)

// OrderStatus is the order lifecycle status reported by the API.
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusPendingNew      OrderStatus = "pendingNew"
	StatusNew             OrderStatus = "new"
	StatusPartiallyFilled OrderStatus = "partiallyFilled"
	StatusFilled          OrderStatus = "filled"
	StatusRejected        OrderStatus = "rejected"
	StatusExpired         OrderStatus = "expired"
	StatusDoneForDay      OrderStatus = "doneForDay"
	StatusCanceled        OrderStatus = "canceled"
)

// IsTerminal reports whether no further fills can happen for the status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusFilled, StatusRejected, StatusExpired, StatusDoneForDay, StatusCanceled:
		return true
	}
	return false
}

// MarketType distinguishes the base (stock) and derivative order services.
type MarketType string

const (
	MarketBase       MarketType = "base"
	MarketDerivative MarketType = "derivative"
)

// Exchange identifies a Vietnamese stock exchange.
type Exchange string

const (
	ExchangeHOSE  Exchange = "HOSE"
	ExchangeHNX   Exchange = "HNX"
	ExchangeUPCOM Exchange = "UPCOM"
)

// FeedKind classifies a streaming message as trade-execution data or
// top-of-book quote data.
type FeedKind string

const (
	FeedStockInfo FeedKind = "stockinfo"
	FeedTopPrice  FeedKind = "topprice"
)
