package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"dnse-connect/internal/models"
)

// AccountInfo fetches the investor profile.
func (c *Client) AccountInfo(ctx context.Context) (*models.AccountInfo, error) {
	raw, err := c.Do(ctx, http.MethodGet, accountInfoURL(c.base), nil, nil, false)
	if err != nil {
		return nil, err
	}
	return models.ParseAccountInfo(raw)
}

// SubAccounts fetches the trading sub-accounts.
func (c *Client) SubAccounts(ctx context.Context) ([]models.SubAccount, error) {
	raw, err := c.Do(ctx, http.MethodGet, subAccountsURL(c.base), nil, nil, false)
	if err != nil {
		return nil, err
	}
	return models.ParseSubAccounts(raw)
}

// LoanPackages fetches the margin loan packages available to the account.
func (c *Client) LoanPackages(ctx context.Context) ([]models.LoanPackage, error) {
	raw, err := c.Do(ctx, http.MethodGet, loanPackagesURL(c.base), nil, nil, false)
	if err != nil {
		return nil, err
	}
	return models.ParseLoanPackages(raw)
}

// BuyingPower fetches the buy/sell capacity for a symbol.
func (c *Client) BuyingPower(ctx context.Context, symbol string, loanPackageID int64) (*models.BuyingPower, error) {
	query := url.Values{}
	query.Set("accountNo", c.accountNo)
	query.Set("symbol", symbol)
	query.Set("loanPackageId", strconv.FormatInt(loanPackageID, 10))

	raw, err := c.Do(ctx, http.MethodGet, buyingPowerURL(c.base), nil, query, false)
	if err != nil {
		return nil, err
	}
	return models.ParseBuyingPower(raw)
}

// Holdings fetches the current stock positions.
func (c *Client) Holdings(ctx context.Context) ([]models.Holding, error) {
	query := url.Values{}
	query.Set("accountNo", c.accountNo)

	raw, err := c.Do(ctx, http.MethodGet, holdingsURL(c.base), nil, query, false)
	if err != nil {
		return nil, err
	}
	return models.ParseHoldings(raw)
}

// DerivativeLoanPackages fetches the loan packages of the derivative service.
func (c *Client) DerivativeLoanPackages(ctx context.Context) ([]models.LoanPackage, error) {
	raw, err := c.Do(ctx, http.MethodGet, derivativeLoanPackagesURL(c.base), nil, nil, false)
	if err != nil {
		return nil, err
	}
	return models.ParseLoanPackages(raw)
}

// DerivativeBuyingPower fetches the buy/sell capacity for a futures contract.
func (c *Client) DerivativeBuyingPower(ctx context.Context, symbol string, loanPackageID int64) (*models.BuyingPower, error) {
	query := url.Values{}
	query.Set("accountNo", c.accountNo)
	query.Set("symbol", symbol)
	query.Set("loanPackageId", strconv.FormatInt(loanPackageID, 10))

	raw, err := c.Do(ctx, http.MethodGet, derivativeBuyingPowerURL(c.base), nil, query, false)
	if err != nil {
		return nil, err
	}
	return models.ParseBuyingPower(raw)
}

// DerivativeAssets fetches the derivative account balance and margin state.
func (c *Client) DerivativeAssets(ctx context.Context) (*models.DerivativeAssets, error) {
	query := url.Values{}
	query.Set("accountNo", c.accountNo)

	raw, err := c.Do(ctx, http.MethodGet, derivativeAssetsURL(c.base), nil, query, false)
	if err != nil {
		return nil, err
	}
	return models.ParseDerivativeAssets(raw)
}

// DerivativePositions fetches the open futures positions.
func (c *Client) DerivativePositions(ctx context.Context) ([]models.DerivativePosition, error) {
	query := url.Values{}
	query.Set("accountNo", c.accountNo)

	raw, err := c.Do(ctx, http.MethodGet, derivativePositionsURL(c.base), nil, query, false)
	if err != nil {
		return nil, err
	}
	return models.ParseDerivativePositions(raw)
}
