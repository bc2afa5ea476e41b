package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/services"
	"storefront/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront - a small e-commerce backend and client",
	Long: `Storefront serves a REST API for accounts, a product catalog and orders,
backed by MongoDB, PostgreSQL, SQLite or an in-memory store.

Configuration is read from config.yaml, environment variables and a .env file
in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or /etc/storefront/config.yaml)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newAuthService(cfg *config.Config, st *store.Store) (*services.AuthService, error) {
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	return services.NewAuthService(st.Users, tokens), nil
}
