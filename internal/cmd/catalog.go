package cmd

import (
	"fmt"

	"storefront/internal/logger"
	"storefront/internal/storefront"

	"github.com/spf13/cobra"
)

var (
	catalogAPI      string
	catalogCategory string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Fetch the product catalog from a running server and print it as HTML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Setup("warn", "text"); err != nil {
			return err
		}

		api := storefront.NewAPI(catalogAPI, nil)
		state, err := storefront.Refresh(cmd.Context(), api, storefront.State{})
		if err != nil {
			return err
		}
		page, err := storefront.Render(state.WithCategory(catalogCategory))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), page)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogAPI, "api", "http://localhost:8080/api", "base URL of the storefront API")
	catalogCmd.Flags().StringVar(&catalogCategory, "category", storefront.AllCategories, "only show products in this category")
	rootCmd.AddCommand(catalogCmd)
}
