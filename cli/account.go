package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(holdingsCmd)
	rootCmd.AddCommand(powerCmd)
	rootCmd.AddCommand(positionsCmd)
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show investor account information",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		info, err := a.rest.AccountInfo(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Investor ID:  %s\n", info.InvestorID)
		fmt.Printf("Name:         %s\n", info.Name)
		fmt.Printf("Custody code: %s\n", info.CustodyCode)
		fmt.Printf("Email:        %s\n", info.Email)
		fmt.Printf("Mobile:       %s\n", info.Mobile)
		return nil
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List trading sub-accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		accounts, err := a.rest.SubAccounts(cmd.Context())
		if err != nil {
			return err
		}
		for _, acc := range accounts {
			primary := ""
			if acc.IsPrimary {
				primary = " (primary)"
			}
			fmt.Printf("%s  %s%s\n", acc.AccountNo, acc.AccountType, primary)
		}
		return nil
	},
}

var holdingsCmd = &cobra.Command{
	Use:   "holdings",
	Short: "List current stock holdings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		holdings, err := a.rest.Holdings(cmd.Context())
		if err != nil {
			return err
		}
		if len(holdings) == 0 {
			fmt.Println("No holdings")
			return nil
		}
		fmt.Printf("%-8s %10s %10s %12s %12s %12s\n",
			"SYMBOL", "QTY", "AVAIL", "AVG PRICE", "MKT PRICE", "UNREAL PNL")
		for _, h := range holdings {
			fmt.Printf("%-8s %10d %10d %12s %12s %12s\n",
				h.Symbol, h.Quantity, h.AvailableQuantity,
				h.AveragePrice.StringFixed(0), h.MarketPrice.StringFixed(0),
				h.UnrealizedPnl.StringFixed(0))
		}
		return nil
	},
}

var powerCmd = &cobra.Command{
	Use:   "power SYMBOL",
	Short: "Show buying/selling power for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		power, err := a.rest.BuyingPower(cmd.Context(), args[0], 0)
		if err != nil {
			return err
		}
		fmt.Printf("Symbol:         %s\n", power.Symbol)
		fmt.Printf("Max buy qty:    %d\n", power.MaxBuyQty)
		fmt.Printf("Max sell qty:   %d\n", power.MaxSellQty)
		fmt.Printf("Available cash: %s\n", power.AvailableCash.StringFixed(0))
		return nil
	},
}

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List open derivative positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		positions, err := a.rest.DerivativePositions(cmd.Context())
		if err != nil {
			return err
		}
		if len(positions) == 0 {
			fmt.Println("No open positions")
			return nil
		}
		for _, p := range positions {
			fmt.Printf("%-10s %-5s qty=%d avg=%s mkt=%s pnl=%s\n",
				p.Symbol, p.Side, p.Quantity,
				p.AveragePrice.String(), p.MarketPrice.String(), p.UnrealizedPnl.String())
		}
		return nil
	},
}
