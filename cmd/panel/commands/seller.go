package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"marketplace-admin/catalog"
	"marketplace-admin/cmd/panel/output"
	"marketplace-admin/cmd/panel/tui"
	"marketplace-admin/models"
	"marketplace-admin/panel"
)

var (
	sellerStatus  string
	variantStock  int
	variantDryRun bool
	imageAlt      string
	imagePrimary  bool
)

var sellerCmd = &cobra.Command{
	Use:   "seller",
	Short: "Seller panel: your products and variants",
}

var sellerProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List your products",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		products, err := c.Seller().Products(cmd.Context(), models.ProductStatus(sellerStatus), panel.Page{})
		if err != nil {
			return err
		}
		return render(products, func() {
			printProducts(products)
			for _, p := range products {
				if p.Status == models.ProductStatusRejected && p.AdminNotes != "" {
					output.Warning("%s was rejected: %s", p.Name, p.AdminNotes)
				}
			}
		})
	},
}

var sellerCountsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Show pending and approved product counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		pending, err := c.Seller().PendingCount(cmd.Context())
		if err != nil {
			return err
		}
		approved, err := c.Seller().ApprovedCount(cmd.Context())
		if err != nil {
			return err
		}
		counts := map[string]int64{"pending": pending, "approved": approved}
		return render(counts, func() {
			output.Info("%d pending review", pending)
			output.Success("%d approved", approved)
		})
	},
}

var sellerVariantsCmd = &cobra.Command{
	Use:   "variants <product-id>",
	Short: "Pick attribute values and regenerate a product's variants",
	Long: `Opens a picker over the variant attributes of the product's category.
Every combination of the picked values becomes a variant priced at the
product's seller price, and replaces the product's current variants.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "product")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		product, err := c.Seller().Product(cmd.Context(), id)
		if err != nil {
			return err
		}
		links, err := c.Seller().CategoryAttributes(cmd.Context(), product.CategoryID)
		if err != nil {
			return err
		}

		editor := panel.NewVariantEditor(catalog.Base{
			SKU:            product.SKU,
			SellerPrice:    product.SellerPrice,
			CommissionRate: product.CommissionRate,
		}, links)
		if len(editor.Attributes) == 0 {
			return errors.New("the product's category has no variant attributes")
		}

		confirmed, err := tui.RunPicker(editor)
		if err != nil {
			return err
		}
		if !confirmed {
			output.Warning("Cancelled, variants unchanged")
			return nil
		}

		rows := editor.Generate()
		if len(rows) == 0 {
			output.Warning("No values picked, variants unchanged")
			return nil
		}
		for i := range rows {
			if err := editor.SetStock(i, variantStock); err != nil {
				return err
			}
		}
		printVariantRows(editor.Rows)
		if variantDryRun {
			return nil
		}

		variants, err := c.Seller().ReplaceVariants(cmd.Context(), id, editor.Requests())
		if err != nil {
			return err
		}
		output.Success("%d variants saved for %q", len(variants), product.Name)
		return nil
	},
}

var sellerUploadCmd = &cobra.Command{
	Use:   "upload <product-id> <image-file>",
	Short: "Upload a product image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "product")
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer f.Close()

		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		img, err := c.Seller().UploadImage(cmd.Context(), id, f.Name(), f, imageAlt, imagePrimary)
		if err != nil {
			return err
		}
		return render(img, func() { output.Success("Image uploaded: %s", img.ImageURL) })
	},
}

func printVariantRows(rows []catalog.VariantRow) {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{r.VariantName, r.SKU, money(r.SellerPrice), money(r.CustomerPrice), strconv.Itoa(r.StockQuantity)})
	}
	output.Table([]string{"VARIANT", "SKU", "SELLER PRICE", "CUSTOMER PRICE", "STOCK"}, table)
}

func init() {
	rootCmd.AddCommand(sellerCmd)
	sellerCmd.AddCommand(sellerProductsCmd, sellerCountsCmd, sellerVariantsCmd, sellerUploadCmd)

	sellerProductsCmd.Flags().StringVar(&sellerStatus, "status", "", "Filter by status")
	sellerVariantsCmd.Flags().IntVar(&variantStock, "stock", 0, "Stock for every generated variant")
	sellerVariantsCmd.Flags().BoolVar(&variantDryRun, "dry-run", false, "Show the variants without saving")
	sellerUploadCmd.Flags().StringVar(&imageAlt, "alt", "", "Alt text")
	sellerUploadCmd.Flags().BoolVar(&imagePrimary, "primary", false, "Make it the primary image")
}
