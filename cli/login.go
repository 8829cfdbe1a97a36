package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginTrading bool

func init() {
	loginCmd.Flags().BoolVar(&loginTrading, "trading", false, "also obtain a trading token (prompts for OTP)")
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and cache the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if err := a.session.EnsurePrimary(ctx); err != nil {
			return err
		}
		cred := a.session.Credential()
		fmt.Printf("Logged in as %s, token valid until %s\n",
			a.cfg.Username, cred.JWTExpiresAt.Local().Format("2006-01-02 15:04:05"))

		if loginTrading {
			if err := a.session.EnsureSecondary(ctx); err != nil {
				return err
			}
			cred = a.session.Credential()
			fmt.Printf("Trading token valid until %s\n",
				cred.TradingTokenExpiresAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}
