package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dnse-connect/common"
)

// FlexTime unmarshals the datetime shapes the DNSE API has been observed to
// emit: RFC3339 with or without fractional seconds, and a bare local form
// without zone. Unparsable values decode to the zero time rather than failing
// the whole document.
type FlexTime struct {
	time.Time
}

var flexLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range flexLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

// AccountInfo is the investor profile from /user-service/api/me.
type AccountInfo struct {
	InvestorID  string `json:"investorId"`
	Name        string `json:"name"`
	CustodyCode string `json:"custodyCode"`
	Mobile      string `json:"mobile"`
	Email       string `json:"email"`
}

// SubAccount is one trading sub-account.
type SubAccount struct {
	AccountNo   string `json:"accountNo"`
	AccountType string `json:"accountType"`
	IsPrimary   bool   `json:"isPrimary"`
}

// LoanPackage is a margin loan package.
type LoanPackage struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	InitialRate     decimal.Decimal `json:"initialRate"`
	MaintenanceRate decimal.Decimal `json:"maintenanceRate"`
	IsActive        bool            `json:"isActive"`
}

// BuyingPower is the buy/sell capacity for one symbol.
type BuyingPower struct {
	AccountNo     string          `json:"accountNo"`
	Symbol        string          `json:"symbol"`
	MaxBuyQty     int64           `json:"maxBuyQty"`
	MaxSellQty    int64           `json:"maxSellQty"`
	AvailableCash decimal.Decimal `json:"availableCash"`
}

// Holding is one stock position.
type Holding struct {
	Symbol            string          `json:"symbol"`
	Quantity          int64           `json:"quantity"`
	AvailableQuantity int64           `json:"availableQuantity"`
	AveragePrice      decimal.Decimal `json:"averagePrice"`
	MarketPrice       decimal.Decimal `json:"marketPrice"`
	MarketValue       decimal.Decimal `json:"marketValue"`
	UnrealizedPnl     decimal.Decimal `json:"unrealizedPnl"`
	UnrealizedPnlPct  decimal.Decimal `json:"unrealizedPnlPct"`
}

// Order is an order record as returned by the order service.
type Order struct {
	ID               int64              `json:"id"`
	Side             common.OrderSide   `json:"side"`
	AccountNo        string             `json:"accountNo"`
	InvestorID       string             `json:"investorId"`
	Symbol           string             `json:"symbol"`
	Price            decimal.Decimal    `json:"price"`
	Quantity         int64              `json:"quantity"`
	OrderType        common.OrderType   `json:"orderType"`
	OrderStatus      common.OrderStatus `json:"orderStatus"`
	FillQuantity     int64              `json:"fillQuantity"`
	LastQuantity     int64              `json:"lastQuantity"`
	LastPrice        decimal.Decimal    `json:"lastPrice"`
	AveragePrice     decimal.Decimal    `json:"averagePrice"`
	TransDate        string             `json:"transDate"`
	CreatedDate      FlexTime           `json:"createdDate"`
	ModifiedDate     FlexTime           `json:"modifiedDate"`
	TaxRate          decimal.Decimal    `json:"taxRate"`
	FeeRate          decimal.Decimal    `json:"feeRate"`
	LeaveQuantity    int64              `json:"leaveQuantity"`
	CanceledQuantity int64              `json:"canceledQuantity"`
	PriceSecure      decimal.Decimal    `json:"priceSecure"`
	Custody          string             `json:"custody"`
	Channel          string             `json:"channel"`
	LoanPackageID    int64              `json:"loanPackageId"`
	InitialRate      decimal.Decimal    `json:"initialRate"`
	Error            string             `json:"error"`
}

// DerivativeAssets is the derivative account balance and margin state.
type DerivativeAssets struct {
	AccountNo        string          `json:"accountNo"`
	TotalCash        decimal.Decimal `json:"totalCash"`
	AvailableCash    decimal.Decimal `json:"availableCash"`
	InitialMargin    decimal.Decimal `json:"initialMargin"`
	AccountRatio     decimal.Decimal `json:"accountRatio"`
	UnrealizedPnl    decimal.Decimal `json:"unrealizedPnl"`
	WithdrawableCash decimal.Decimal `json:"withdrawableCash"`
}

// DerivativePosition is an open futures position.
type DerivativePosition struct {
	Symbol            string          `json:"symbol"`
	Side              string          `json:"side"`
	Quantity          int64           `json:"quantity"`
	AveragePrice      decimal.Decimal `json:"averagePrice"`
	MarketPrice       decimal.Decimal `json:"marketPrice"`
	UnrealizedPnl     decimal.Decimal `json:"unrealizedPnl"`
	InitialMargin     decimal.Decimal `json:"initialMargin"`
	MaintenanceMargin decimal.Decimal `json:"maintenanceMargin"`
}
