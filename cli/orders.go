package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	ordersFrom       string
	ordersTo         string
	cancelDerivative bool
)

func init() {
	ordersCmd.Flags().StringVar(&ordersFrom, "from", "", "start date (YYYY-MM-DD)")
	ordersCmd.Flags().StringVar(&ordersTo, "to", "", "end date (YYYY-MM-DD)")
	cancelCmd.Flags().BoolVar(&cancelDerivative, "derivative", false, "cancel via the derivative order service")
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(cancelCmd)
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders for the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		orders, err := a.rest.Orders(cmd.Context(), ordersFrom, ordersTo)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("No orders")
			return nil
		}
		for _, o := range orders {
			fmt.Printf("#%-10d %-8s %-3s %-4s qty=%-6d fill=%-6d price=%-10s %s\n",
				o.ID, o.Symbol, o.Side, o.OrderType,
				o.Quantity, o.FillQuantity, o.Price.StringFixed(0), o.OrderStatus)
		}
		return nil
	},
}

var orderCmd = &cobra.Command{
	Use:   "order ID",
	Short: "Show one order in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orderID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		o, err := a.rest.OrderDetail(cmd.Context(), orderID)
		if err != nil {
			return err
		}
		fmt.Printf("Order:     #%d\n", o.ID)
		fmt.Printf("Symbol:    %s\n", o.Symbol)
		fmt.Printf("Side:      %s\n", o.Side)
		fmt.Printf("Type:      %s\n", o.OrderType)
		fmt.Printf("Status:    %s\n", o.OrderStatus)
		fmt.Printf("Price:     %s\n", o.Price.String())
		fmt.Printf("Quantity:  %d (filled %d, leaves %d)\n", o.Quantity, o.FillQuantity, o.LeaveQuantity)
		if !o.CreatedDate.IsZero() {
			fmt.Printf("Created:   %s\n", o.CreatedDate.Format("2006-01-02 15:04:05"))
		}
		if o.Error != "" {
			fmt.Printf("Error:     %s\n", o.Error)
		}
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel ID",
	Short: "Cancel an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orderID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		cancel := a.rest.CancelOrder
		if cancelDerivative {
			cancel = a.rest.CancelDerivativeOrder
		}
		o, err := cancel(cmd.Context(), orderID)
		if err != nil {
			return err
		}
		fmt.Printf("Order #%d: %s\n", o.ID, o.OrderStatus)
		return nil
	},
}
