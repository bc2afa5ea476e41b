package cmd

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/store"

	"github.com/spf13/cobra"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the configured admin account, or promote it if it exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Admin.Enabled() {
			return errors.New("admin.email and admin.password must be set")
		}
		return withStore(cmd.Context(), cfg.Store, func(st *store.Store) error {
			authService, err := newAuthService(cfg, st)
			if err != nil {
				return err
			}
			admin, err := authService.EnsureAdmin(cmd.Context(), cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin ready: %s (%s)\n", admin.Email, admin.ID)
			return nil
		})
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant administrator rights to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), cfg.Store, func(st *store.Store) error {
			authService, err := newAuthService(cfg, st)
			if err != nil {
				return err
			}
			user, err := authService.Promote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s (%s) to admin\n", user.Email, user.ID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
	rootCmd.AddCommand(promoteCmd)
}

func withStore(ctx context.Context, cfg config.StoreConfig, fn func(st *store.Store) error) error {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())
	return fn(st)
}
