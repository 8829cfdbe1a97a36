package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dnse-connect/config"
	"dnse-connect/internal/auth"
	"dnse-connect/internal/rest"
	"dnse-connect/persistence"
)

var (
	cfgFile string
	account string
	otpFlag string
	verbose bool
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.dnse.yaml)")
	rootCmd.PersistentFlags().StringVarP(&account, "account", "a", "", "sub-account number or alias")
	rootCmd.PersistentFlags().StringVar(&otpFlag, "otp", "", "smart OTP code for trading operations")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	viper.BindPFlag("account", rootCmd.PersistentFlags().Lookup("account"))
}

func initConfig() {
	viper.SetConfigType("yaml")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get home dir: %v\n", err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".dnse")
	}
	viper.SetEnvPrefix("DNSE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "dnse-connect",
	Short: "DNSE trading API client: accounts, orders and real-time market data",
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles what every subcommand needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	session *auth.Session
	rest    *rest.Client
	cache   *persistence.TokenCache
}

// newApp builds the session and REST client from config, flags and the token
// cache. The caller must call close when done.
func newApp() (*app, error) {
	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var cache *persistence.TokenCache
	var initial auth.Credential
	if cfg.TokenCachePath != "" {
		cache, err = persistence.OpenTokenCache(cfg.TokenCachePath)
		if err != nil {
			log.Warn("token cache unavailable", zap.Error(err))
		} else if cred, ok, _ := cache.Load(cfg.Username); ok {
			log.Debug("reusing cached JWT")
			initial = cred
		}
	}

	session := auth.NewSession(auth.Config{
		BaseURL:     cfg.BaseURL,
		Username:    cfg.Username,
		Password:    cfg.Password,
		OTP:         otpProvider(),
		Logger:      log,
		InitialCred: initial,
	})

	restClient := rest.NewClient(rest.ClientConfig{
		BaseURL:   cfg.BaseURL,
		AccountNo: cfg.ResolveAccount(viper.GetString("account")),
		Session:   session,
		Logger:    log,
	})

	return &app{cfg: cfg, log: log, session: session, rest: restClient, cache: cache}, nil
}

// close persists the credential for the next run and releases resources.
func (a *app) close() {
	if a.cache != nil {
		if cred := a.session.Credential(); cred.JWT != "" {
			if err := a.cache.Save(a.cfg.Username, cred); err != nil {
				a.log.Warn("failed to persist token", zap.Error(err))
			}
		}
		a.cache.Close()
	}
	a.session.Close()
	a.log.Sync()
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, ".dnse.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	return config.LoadConfig(path)
}

// otpProvider returns the --otp flag value when set, otherwise prompts on
// stdin. The session only consults it when a trading token is needed.
func otpProvider() auth.OTPProvider {
	return func() (string, error) {
		if otpFlag != "" {
			return otpFlag, nil
		}
		fmt.Print("Enter smart OTP: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}
