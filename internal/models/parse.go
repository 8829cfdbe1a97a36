package models

import (
	"encoding/json"
	"fmt"
)

// The order and holdings services have been seen returning both a bare JSON
// array and an object wrapping the array under a named key, depending on API
// version. The list parsers accept either shape.

// ParseAccountInfo decodes the /user-service/api/me response.
func ParseAccountInfo(raw json.RawMessage) (*AccountInfo, error) {
	var info AccountInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("parse account info: %w", err)
	}
	return &info, nil
}

// ParseSubAccounts decodes the sub-account list.
func ParseSubAccounts(raw json.RawMessage) ([]SubAccount, error) {
	var accounts []SubAccount
	if err := parseList(raw, "accounts", &accounts); err != nil {
		return nil, fmt.Errorf("parse sub-accounts: %w", err)
	}
	return accounts, nil
}

// ParseLoanPackages decodes the loan-package list.
func ParseLoanPackages(raw json.RawMessage) ([]LoanPackage, error) {
	var packages []LoanPackage
	if err := parseList(raw, "loanPackages", &packages); err != nil {
		return nil, fmt.Errorf("parse loan packages: %w", err)
	}
	return packages, nil
}

// ParseBuyingPower decodes a buying-power response.
func ParseBuyingPower(raw json.RawMessage) (*BuyingPower, error) {
	var power BuyingPower
	if err := json.Unmarshal(raw, &power); err != nil {
		return nil, fmt.Errorf("parse buying power: %w", err)
	}
	return &power, nil
}

// ParseHoldings decodes the holdings list.
func ParseHoldings(raw json.RawMessage) ([]Holding, error) {
	var holdings []Holding
	if err := parseList(raw, "holdings", &holdings); err != nil {
		return nil, fmt.Errorf("parse holdings: %w", err)
	}
	return holdings, nil
}

// ParseOrder decodes a single order record.
func ParseOrder(raw json.RawMessage) (*Order, error) {
	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("parse order: %w", err)
	}
	return &order, nil
}

// ParseOrders decodes an order list.
func ParseOrders(raw json.RawMessage) ([]Order, error) {
	var orders []Order
	if err := parseList(raw, "orders", &orders); err != nil {
		return nil, fmt.Errorf("parse orders: %w", err)
	}
	return orders, nil
}

// ParseDerivativeAssets decodes the derivative assets response.
func ParseDerivativeAssets(raw json.RawMessage) (*DerivativeAssets, error) {
	var assets DerivativeAssets
	if err := json.Unmarshal(raw, &assets); err != nil {
		return nil, fmt.Errorf("parse derivative assets: %w", err)
	}
	return &assets, nil
}

// ParseDerivativePositions decodes the derivative position list.
func ParseDerivativePositions(raw json.RawMessage) ([]DerivativePosition, error) {
	var positions []DerivativePosition
	if err := parseList(raw, "positions", &positions); err != nil {
		return nil, fmt.Errorf("parse derivative positions: %w", err)
	}
	return positions, nil
}

// parseList decodes raw into out, accepting either a bare array or an object
// carrying the array under key.
func parseList(raw json.RawMessage, key string, out any) error {
	if err := json.Unmarshal(raw, out); err == nil {
		return nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return err
	}
	inner, ok := wrapper[key]
	if !ok {
		return fmt.Errorf("response has neither a list nor a %q field", key)
	}
	return json.Unmarshal(inner, out)
}
