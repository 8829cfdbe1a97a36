package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dnse-connect/internal/adapters"
	"dnse-connect/internal/marketdata"
	"dnse-connect/internal/models"
	"dnse-connect/providers"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch SYMBOL...",
	Short: "Stream live ticks for one or more symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		data := adapters.NewDataClient(adapters.DataClientConfig{
			Rest:        a.rest,
			Sink:        printSink{},
			Instruments: providers.NewProvider(),
			Logger:      a.log,
			Host:        a.cfg.MarketData.Host,
			Port:        a.cfg.MarketData.Port,
			Path:        a.cfg.MarketData.Path,
		})

		ctx := cmd.Context()
		if err := data.Connect(ctx); err != nil {
			return err
		}
		defer data.Disconnect(ctx)

		for _, symbol := range args {
			data.Subscribe(symbol)
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ctx.Done():
		case <-sig:
		}
		return nil
	},
}

// printSink renders incoming events to stdout.
type printSink struct{}

func (printSink) OnConnected() { fmt.Println("stream connected") }

func (printSink) OnDisconnected(err error) {
	if err != nil {
		fmt.Printf("stream disconnected: %v\n", err)
		return
	}
	fmt.Println("stream disconnected")
}

func (printSink) OnTick(t *marketdata.Tick) {
	if t.HasBook() {
		fmt.Printf("%-10s bid %s x %d | ask %s x %d\n",
			t.Symbol, t.BidPrice.String(), t.BidVolume, t.AskPrice.String(), t.AskVolume)
		return
	}
	fmt.Printf("%-10s last %s x %d  vol %d\n",
		t.Symbol, t.LastPrice.String(), t.LastVolume, t.TotalVolume)
}

func (printSink) OnOrderUpdate(o *models.Order) {
	fmt.Printf("order #%d %s %s\n", o.ID, o.Symbol, o.OrderStatus)
}
