package rest

import "fmt"

// URL builders for the DNSE service endpoints. The request shapes these feed
// are fixed by the upstream API; keep the paths bit-exact.

func accountInfoURL(base string) string { return base + "/user-service/api/me" }
func subAccountsURL(base string) string { return base + "/user-service/api/accounts" }

func baseOrdersURL(base string) string { return base + "/order-service/v2/orders" }

func baseOrderDetailURL(base string, orderID int64) string {
	return fmt.Sprintf("%s/order-service/v2/orders/%d", base, orderID)
}

func baseCancelOrderURL(base string, orderID int64, accountNo string) string {
	return fmt.Sprintf("%s/order-service/v2/orders/%d?accountNo=%s", base, orderID, accountNo)
}

func loanPackagesURL(base string) string { return base + "/order-service/loan-packages" }
func buyingPowerURL(base string) string  { return base + "/order-service/pp" }
func holdingsURL(base string) string     { return base + "/order-service/holdings" }

func derivativeOrdersURL(base string) string { return base + "/order-service/derivative/orders" }

func derivativeOrderDetailURL(base string, orderID int64) string {
	return fmt.Sprintf("%s/order-service/derivative/orders/%d", base, orderID)
}

func derivativeCancelOrderURL(base string, orderID int64, accountNo string) string {
	return fmt.Sprintf("%s/order-service/derivative/orders/%d?accountNo=%s", base, orderID, accountNo)
}

func derivativeLoanPackagesURL(base string) string {
	return base + "/order-service/derivative/loan-packages"
}

func derivativeBuyingPowerURL(base string) string { return base + "/order-service/derivative/pp" }
func derivativePositionsURL(base string) string   { return base + "/order-service/derivative/positions" }
func derivativeAssetsURL(base string) string      { return base + "/order-service/derivative/assets" }
