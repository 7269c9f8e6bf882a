package commands

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"marketplace-admin/catalog"
	"marketplace-admin/cmd/panel/output"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
	"marketplace-admin/panel"
)

var (
	linkRequired bool
	linkVariant  bool
)

var attributesCmd = &cobra.Command{
	Use:     "attributes",
	Aliases: []string{"attr"},
	Short:   "Manage attributes and their category links",
}

var attributesListCmd = &cobra.Command{
	Use:   "list [category-id]",
	Short: "List all attributes, or those linked to a category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) == 1 {
			catID, err := parseID(args[0], "category")
			if err != nil {
				return err
			}
			links, err := c.Admin().CategoryAttributes(cmd.Context(), catID)
			if err != nil {
				return err
			}
			return render(links, func() { printLinks(links) })
		}

		attrs, err := c.Admin().Attributes(cmd.Context())
		if err != nil {
			return err
		}
		return render(attrs, func() { printAttributes(attrs) })
	},
}

var attributesAvailableCmd = &cobra.Command{
	Use:   "available <category-id>",
	Short: "List attributes not yet linked to a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catID, err := parseID(args[0], "category")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		attrs, err := c.Admin().AvailableAttributes(cmd.Context(), catID)
		if err != nil {
			return err
		}
		return render(attrs, func() { printAttributes(attrs) })
	},
}

var attributesLinkCmd = &cobra.Command{
	Use:   "link <category-id> <attribute-id>",
	Short: "Link an attribute to a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catID, err := parseID(args[0], "category")
		if err != nil {
			return err
		}
		attrID, err := parseID(args[1], "attribute")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		links := categoryLinks(c, catID)
		err = links.Mutate(cmd.Context(), func(ctx context.Context) error {
			_, err := c.Admin().LinkAttribute(ctx, dtos.CategoryAttributeRequest{
				CategoryID:  catID,
				AttributeID: attrID,
				IsRequired:  linkRequired,
				IsVariant:   linkVariant,
			})
			return err
		})
		if err != nil {
			return err
		}
		output.Success("Attribute linked")
		printLinks(links.Items)
		return nil
	},
}

var attributesUnlinkCmd = &cobra.Command{
	Use:   "unlink <link-id>",
	Short: "Remove a category-attribute link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		linkID, err := parseID(args[0], "link")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		if err := c.Admin().Unlink(cmd.Context(), linkID); err != nil {
			return err
		}
		output.Success("Attribute unlinked")
		return nil
	},
}

var attributesFlagsCmd = &cobra.Command{
	Use:   "flags <link-id>",
	Short: "Change the required and variant flags of a link",
	Long: `Only the flags given are changed.

Examples:
  panel attributes flags 9a0e... --variant
  panel attributes flags 9a0e... --required=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		linkID, err := parseID(args[0], "link")
		if err != nil {
			return err
		}
		patch := catalog.LinkPatch{
			IsRequired: optionalBool(cmd, "required"),
			IsVariant:  optionalBool(cmd, "variant"),
		}
		if patch.Empty() {
			return errors.New("pass --required and/or --variant")
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		link, err := c.Admin().UpdateLink(cmd.Context(), linkID, patch)
		if err != nil {
			return err
		}
		return render(link, func() {
			output.Success("Link updated: required=%t variant=%t", link.IsRequired, link.IsVariant)
		})
	},
}

func categoryLinks(c *panel.Client, categoryID uuid.UUID) *panel.Collection[models.CategoryAttribute] {
	return panel.NewCollection(func(ctx context.Context) ([]models.CategoryAttribute, error) {
		return c.Admin().CategoryAttributes(ctx, categoryID)
	})
}

func printAttributes(attrs []models.Attribute) {
	rows := make([][]string, 0, len(attrs))
	for _, a := range attrs {
		values := make([]string, 0, len(a.Values))
		for _, v := range a.Values {
			values = append(values, v.Value)
		}
		rows = append(rows, []string{short(a.ID), a.Name, string(a.Type), strconv.FormatBool(a.IsRequired), strings.Join(values, ", ")})
	}
	output.Table([]string{"ID", "NAME", "TYPE", "REQUIRED", "VALUES"}, rows)
}

func printLinks(links []models.CategoryAttribute) {
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		name := l.AttributeID.String()
		if l.Attribute != nil {
			name = l.Attribute.Name
		}
		rows = append(rows, []string{l.ID.String(), name, strconv.FormatBool(l.IsRequired), strconv.FormatBool(l.IsVariant)})
	}
	output.Table([]string{"LINK", "ATTRIBUTE", "REQUIRED", "VARIANT"}, rows)
}

func init() {
	rootCmd.AddCommand(attributesCmd)
	attributesCmd.AddCommand(attributesListCmd, attributesAvailableCmd, attributesLinkCmd, attributesUnlinkCmd, attributesFlagsCmd)

	attributesLinkCmd.Flags().BoolVar(&linkRequired, "required", false, "Products in the category must set it")
	attributesLinkCmd.Flags().BoolVar(&linkVariant, "variant", false, "Values drive variant generation")
	attributesFlagsCmd.Flags().Bool("required", false, "Set the required flag")
	attributesFlagsCmd.Flags().Bool("variant", false, "Set the variant flag")
}
