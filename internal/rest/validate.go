package rest

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"dnse-connect/common"
)

// OrderRequest is a validated order placement request. Price is ignored by
// the API for pure market order types but must be positive for limit orders.
type OrderRequest struct {
	Symbol        string           `validate:"required"`
	Side          common.OrderSide `validate:"required,side_enum"`
	OrderType     common.OrderType `validate:"required,ordertype_enum"`
	Price         decimal.Decimal
	Quantity      int64 `validate:"gt=0"`
	LoanPackageID int64
}

var orderValidator = newOrderValidator()

// newOrderValidator builds a validator with the DNSE enum rules registered.
func newOrderValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("side_enum", func(fl validator.FieldLevel) bool {
		side, ok := fl.Field().Interface().(common.OrderSide)
		if !ok {
			return false
		}
		return side == common.SideBuy || side == common.SideSell
	})

	v.RegisterValidation("ordertype_enum", func(fl validator.FieldLevel) bool {
		ot, ok := fl.Field().Interface().(common.OrderType)
		if !ok {
			return false
		}
		switch ot {
		case
			common.OrderTypeLimit,
			common.OrderTypeMarket,
			common.OrderTypeMarketToLimit,
			common.OrderTypeAtOpen,
			common.OrderTypeAtClose,
			common.OrderTypeMatchOrKill,
			common.OrderTypeMatchAndKill,
			common.OrderTypePostClose:
			return true
		default:
			return false
		}
	})

	return v
}

// Validate checks the request against the registered rules.
func (r OrderRequest) Validate() error {
	return orderValidator.Struct(r)
}
