package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"marketplace-admin/cmd/panel/output"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
	"marketplace-admin/panel"
)

var (
	prodStatus   string
	prodSearch   string
	prodCategory string
	prodSeller   string
	prodNotes    string
	prodRate     float64
	prodLimit    int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Review and moderate products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		catID, err := optionalID(prodCategory, "category")
		if err != nil {
			return err
		}
		sellerID, err := optionalID(prodSeller, "seller")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		products, err := c.Admin().Products(cmd.Context(), panel.ProductFilter{
			Status:     models.ProductStatus(prodStatus),
			CategoryID: catID,
			SellerID:   sellerID,
			Search:     prodSearch,
			Page:       panel.Page{Limit: prodLimit},
		})
		if err != nil {
			return err
		}
		return render(products, func() { printProducts(products) })
	},
}

var productsPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Show the approval queue, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		products, err := c.Admin().PendingProducts(cmd.Context(), panel.Page{Limit: prodLimit})
		if err != nil {
			return err
		}
		return render(products, func() {
			if len(products) == 0 {
				output.Success("Nothing waiting for review")
				return
			}
			printProducts(products)
		})
	},
}

var productsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending product",
	Long: `Approve a pending product. --rate overrides the commission rate for
this product; otherwise the applicable rate is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dtos.ProductApprovalRequest{Status: models.ProductStatusApproved, AdminNotes: prodNotes}
		if cmd.Flags().Changed("rate") {
			req.CommissionRate = &prodRate
		}
		return moderate(cmd, args[0], "approved", func(ctx context.Context, c *panel.Client, id uuid.UUID) (*models.Product, error) {
			return c.Admin().ReviewProduct(ctx, id, req)
		})
	},
}

var productsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a pending product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if prodNotes == "" {
			return errors.New("--notes is required when rejecting")
		}
		req := dtos.ProductApprovalRequest{Status: models.ProductStatusRejected, AdminNotes: prodNotes}
		return moderate(cmd, args[0], "rejected", func(ctx context.Context, c *panel.Client, id uuid.UUID) (*models.Product, error) {
			return c.Admin().ReviewProduct(ctx, id, req)
		})
	},
}

var productsBlockCmd = &cobra.Command{
	Use:   "block <id>",
	Short: "Block an approved product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dtos.ProductStatusRequest{Status: models.ProductStatusBlocked, AdminNotes: prodNotes}
		return moderate(cmd, args[0], "blocked", func(ctx context.Context, c *panel.Client, id uuid.UUID) (*models.Product, error) {
			return c.Admin().SetProductStatus(ctx, id, req)
		})
	},
}

var productsUnblockCmd = &cobra.Command{
	Use:   "unblock <id>",
	Short: "Restore a blocked product to approved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dtos.ProductStatusRequest{Status: models.ProductStatusApproved, AdminNotes: prodNotes}
		return moderate(cmd, args[0], "unblocked", func(ctx context.Context, c *panel.Client, id uuid.UUID) (*models.Product, error) {
			return c.Admin().SetProductStatus(ctx, id, req)
		})
	},
}

var productsRecalcCmd = &cobra.Command{
	Use:   "recalc <id>",
	Short: "Reprice a product and its variants at the applicable commission rate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moderate(cmd, args[0], "repriced", func(ctx context.Context, c *panel.Client, id uuid.UUID) (*models.Product, error) {
			return c.Admin().RecalculateCommission(ctx, id)
		})
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product with its images and variants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "product")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		if err := c.Admin().DeleteProduct(cmd.Context(), id); err != nil {
			return err
		}
		output.Success("Product deleted")
		return nil
	},
}

// moderate runs one product status change and reports the result.
func moderate(cmd *cobra.Command, rawID, verb string, action func(context.Context, *panel.Client, uuid.UUID) (*models.Product, error)) error {
	id, err := parseID(rawID, "product")
	if err != nil {
		return err
	}
	c, err := authed(cmd.Context())
	if err != nil {
		return err
	}
	p, err := action(cmd.Context(), c, id)
	if err != nil {
		return err
	}
	return render(p, func() {
		output.Success("Product %q %s", p.Name, verb)
		output.Muted("status %s, seller %s + %.2f%% = customer %s", p.Status, money(p.SellerPrice), p.CommissionRate, money(p.CustomerPrice))
	})
}

func printProducts(products []models.Product) {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		category, seller := "", ""
		if p.Category != nil {
			category = p.Category.Name
		}
		if p.Seller != nil {
			seller = p.Seller.BusinessName
		}
		rows = append(rows, []string{
			short(p.ID),
			output.StatusIcon(string(p.Status)) + " " + string(p.Status),
			p.Name,
			category,
			seller,
			money(p.SellerPrice),
			money(p.CustomerPrice),
		})
	}
	output.Table([]string{"ID", "STATUS", "NAME", "CATEGORY", "SELLER", "SELLER PRICE", "CUSTOMER PRICE"}, rows)
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsPendingCmd, productsApproveCmd, productsRejectCmd,
		productsBlockCmd, productsUnblockCmd, productsRecalcCmd, productsDeleteCmd)

	productsListCmd.Flags().StringVar(&prodStatus, "status", "", "draft, pending, approved, rejected or blocked")
	productsListCmd.Flags().StringVar(&prodSearch, "search", "", "Match name or description")
	productsListCmd.Flags().StringVar(&prodCategory, "category", "", "Category id")
	productsListCmd.Flags().StringVar(&prodSeller, "seller", "", "Seller id")
	for _, c := range []*cobra.Command{productsListCmd, productsPendingCmd} {
		c.Flags().IntVar(&prodLimit, "limit", 0, "Maximum rows")
	}
	for _, c := range []*cobra.Command{productsApproveCmd, productsRejectCmd, productsBlockCmd, productsUnblockCmd} {
		c.Flags().StringVar(&prodNotes, "notes", "", "Admin notes shown to the seller")
	}
	productsApproveCmd.Flags().Float64Var(&prodRate, "rate", 0, "Commission rate override in percent")
}
