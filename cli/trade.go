package cli

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"dnse-connect/common"
	"dnse-connect/internal/rest"
)

var (
	tradePrice      string
	tradeType       string
	tradeLoanPkg    int64
	tradeDerivative bool
)

func init() {
	for _, cmd := range []*cobra.Command{buyCmd, sellCmd} {
		cmd.Flags().StringVar(&tradePrice, "price", "", "limit price (required for LO)")
		cmd.Flags().StringVar(&tradeType, "type", "LO", "order type (LO, MP, ATO, ATC, ...)")
		cmd.Flags().Int64Var(&tradeLoanPkg, "loan-package", 0, "loan package id for margin orders")
		cmd.Flags().BoolVar(&tradeDerivative, "derivative", false, "route to the derivative order service")
		rootCmd.AddCommand(cmd)
	}
}

var buyCmd = &cobra.Command{
	Use:   "buy SYMBOL QTY",
	Short: "Place a buy order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return placeOrder(cmd, args, common.SideBuy)
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell SYMBOL QTY",
	Short: "Place a sell order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return placeOrder(cmd, args, common.SideSell)
	},
}

func placeOrder(cmd *cobra.Command, args []string, side common.OrderSide) error {
	qty, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	price := decimal.Zero
	if tradePrice != "" {
		price, err = decimal.NewFromString(tradePrice)
		if err != nil {
			return fmt.Errorf("invalid price %q", tradePrice)
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	req := rest.OrderRequest{
		Symbol:        args[0],
		Side:          side,
		OrderType:     common.OrderType(tradeType),
		Price:         price,
		Quantity:      qty,
		LoanPackageID: tradeLoanPkg,
	}

	place := a.rest.PlaceOrder
	if tradeDerivative {
		place = a.rest.PlaceDerivativeOrder
	}
	o, err := place(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Printf("Order #%d accepted: %s %d %s @ %s (%s)\n",
		o.ID, o.Side, o.Quantity, o.Symbol, o.Price.String(), o.OrderStatus)
	return nil
}
