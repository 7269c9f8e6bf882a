package commands

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"marketplace-admin/catalog"
	"marketplace-admin/cmd/panel/output"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
	"marketplace-admin/panel"
)

var (
	catActiveOnly  bool
	catName        string
	catDescription string
	catParent      string
	catSortOrder   int
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cat"},
	Short:   "Manage the category tree",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories as an indented selector",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		tree, err := c.Admin().CategoryTree(cmd.Context(), catActiveOnly)
		if err != nil {
			return err
		}
		options := catalog.FlattenWithDepth(tree)
		return render(options, func() {
			rows := make([][]string, 0, len(options))
			for _, o := range options {
				rows = append(rows, []string{short(o.ID), o.Label, strconv.Itoa(o.Depth)})
			}
			output.Table([]string{"ID", "NAME", "DEPTH"}, rows)
			output.Muted("%d categories", len(options))
		})
	},
}

var categoriesTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the category tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		tree, err := c.Admin().CategoryTree(cmd.Context(), catActiveOnly)
		if err != nil {
			return err
		}
		return render(tree, func() { output.Tree(tree) })
	},
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	Long: `Create a root category, or a subcategory with --parent.

Examples:
  panel categories create --name Electronics
  panel categories create --name Phones --parent 3f1c...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, err := optionalID(catParent, "parent")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		cat, err := c.Admin().CreateCategory(cmd.Context(), dtos.CategoryRequest{
			Name:        catName,
			Description: catDescription,
			ParentID:    parent,
			SortOrder:   catSortOrder,
		})
		if err != nil {
			return err
		}
		return render(cat, func() {
			output.Success("Category %q created at level %d (%s)", cat.Name, cat.Level, short(cat.ID))
		})
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category without children or products",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "category")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		list := panel.NewCollection(func(ctx context.Context) ([]models.Category, error) {
			return c.Admin().Categories(ctx, panel.CategoryFilter{})
		})
		err = list.Mutate(cmd.Context(), func(ctx context.Context) error {
			return c.Admin().DeleteCategory(ctx, id)
		})
		if err != nil {
			return err
		}
		output.Success("Category deleted, %d remaining", len(list.Items))
		return nil
	},
}

var categoriesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Activate or deactivate a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "category")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		list := panel.NewCollection(func(ctx context.Context) ([]models.Category, error) {
			return c.Admin().Categories(ctx, panel.CategoryFilter{})
		})
		if err := list.Refresh(cmd.Context()); err != nil {
			return err
		}
		toggle := panel.Toggle[models.Category]{
			Label:   "Category",
			ID:      func(cat models.Category) uuid.UUID { return cat.ID },
			Flag:    func(cat *models.Category) *bool { return &cat.IsActive },
			Update:  c.Admin().SetCategoryActive,
			Refetch: list.Refresh,
			Notify:  output.Toasts{},
		}
		return flip(cmd.Context(), toggle, list.Items, id)
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd, categoriesTreeCmd, categoriesCreateCmd, categoriesDeleteCmd, categoriesToggleCmd)

	categoriesListCmd.Flags().BoolVar(&catActiveOnly, "active", false, "Only active categories")
	categoriesTreeCmd.Flags().BoolVar(&catActiveOnly, "active", false, "Only active categories")

	categoriesCreateCmd.Flags().StringVar(&catName, "name", "", "Category name")
	categoriesCreateCmd.Flags().StringVar(&catDescription, "description", "", "Description")
	categoriesCreateCmd.Flags().StringVar(&catParent, "parent", "", "Parent category id")
	categoriesCreateCmd.Flags().IntVar(&catSortOrder, "sort", 0, "Sort order among siblings")
	_ = categoriesCreateCmd.MarkFlagRequired("name")
}
