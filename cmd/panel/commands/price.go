package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"marketplace-admin/catalog"
	"marketplace-admin/cmd/panel/output"
	"marketplace-admin/models"
)

var priceCmd = &cobra.Command{
	Use:   "price <seller_price> <rate>",
	Short: "Show the customer price for a seller price and commission rate",
	Long: `Computes the price breakdown locally, without contacting the backend.

Example:
  panel price 1000 12.5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seller, err := strconv.ParseFloat(args[0], 64)
		if err != nil || seller <= 0 {
			return fmt.Errorf("seller price must be a positive number, got %q", args[0])
		}
		rate, err := strconv.ParseFloat(args[1], 64)
		if err != nil || rate < 0 || rate > 100 {
			return fmt.Errorf("rate must be between 0 and 100, got %q", args[1])
		}
		p := catalog.Calculate(seller, rate)
		return render(p, func() {
			output.Table([]string{"SELLER PRICE", "RATE", "COMMISSION", "CUSTOMER PRICE"}, [][]string{{
				money(p.SellerPrice), strconv.FormatFloat(p.CommissionRate, 'f', -1, 64) + "%",
				money(p.CommissionAmount), money(p.CustomerPrice),
			}})
		})
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show user, product and order totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := c.Admin().Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		return render(stats, func() {
			output.Section("Users")
			output.Info("%d total, %d active, %d sellers (%d approved)",
				stats.Users.TotalUsers, stats.Users.ActiveUsers, stats.Users.Sellers, stats.Users.ApprovedSellers)
			output.Section("Products")
			var rows [][]string
			for _, s := range []models.ProductStatus{
				models.ProductStatusDraft, models.ProductStatusPending, models.ProductStatusApproved,
				models.ProductStatusRejected, models.ProductStatusBlocked,
			} {
				rows = append(rows, []string{output.StatusIcon(string(s)) + " " + string(s), strconv.FormatInt(stats.Products[s], 10)})
			}
			output.Table([]string{"STATUS", "COUNT"}, rows)
			output.Section("Orders")
			output.Info("%d orders, revenue %s", stats.Orders.TotalOrders, money(stats.Orders.TotalRevenue))
		})
	},
}

func init() {
	rootCmd.AddCommand(priceCmd, dashboardCmd)
}
