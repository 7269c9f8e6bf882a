package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"marketplace-admin/cmd/panel/output"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
	"marketplace-admin/panel"
)

var (
	userRole   string
	userSearch string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		users, err := c.Admin().Users(cmd.Context(), panel.UserFilter{
			Role:     userRole,
			IsActive: optionalBool(cmd, "active"),
			Search:   userSearch,
		})
		if err != nil {
			return err
		}
		return render(users, func() {
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{short(u.ID), u.Email, u.FullName(), u.Role, output.Active(u.IsActive)})
			}
			output.Table([]string{"ID", "EMAIL", "NAME", "ROLE", "STATE"}, rows)
		})
	},
}

var usersToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Activate or deactivate a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		list := panel.NewCollection(func(ctx context.Context) ([]models.User, error) {
			return c.Admin().Users(ctx, panel.UserFilter{})
		})
		if err := list.Refresh(cmd.Context()); err != nil {
			return err
		}
		return flip(cmd.Context(), panel.Toggle[models.User]{
			Label:   "User",
			ID:      func(u models.User) uuid.UUID { return u.ID },
			Flag:    func(u *models.User) *bool { return &u.IsActive },
			Update:  c.Admin().SetUserActive,
			Refetch: list.Refresh,
			Notify:  output.Toasts{},
		}, list.Items, id)
	},
}

var sellersCmd = &cobra.Command{
	Use:   "sellers",
	Short: "Manage seller profiles",
}

var sellersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sellers",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		sellers, err := c.Admin().Sellers(cmd.Context(), panel.SellerFilter{
			IsApproved: optionalBool(cmd, "approved"),
			Search:     userSearch,
		})
		if err != nil {
			return err
		}
		return render(sellers, func() {
			rows := make([][]string, 0, len(sellers))
			for _, s := range sellers {
				email, state := "", ""
				if s.User != nil {
					email, state = s.User.Email, output.Active(s.User.IsActive)
				}
				approved := output.StatusIcon("pending") + " awaiting approval"
				if s.IsApproved {
					approved = output.StatusIcon("approved") + " approved"
				}
				rows = append(rows, []string{short(s.ID), s.BusinessName, email, approved, state})
			}
			output.Table([]string{"ID", "BUSINESS", "EMAIL", "APPROVAL", "STATE"}, rows)
		})
	},
}

var sellersToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Activate or deactivate a seller's account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "seller")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		list := panel.NewCollection(func(ctx context.Context) ([]models.Seller, error) {
			return c.Admin().Sellers(ctx, panel.SellerFilter{})
		})
		if err := list.Refresh(cmd.Context()); err != nil {
			return err
		}
		if err := sellerAccountLoaded(list.Items, id); err != nil {
			return err
		}
		return flip(cmd.Context(), panel.Toggle[models.Seller]{
			Label: "Seller",
			ID:    func(s models.Seller) uuid.UUID { return s.ID },
			Flag:  func(s *models.Seller) *bool { return &s.User.IsActive },
			Update: func(ctx context.Context, id uuid.UUID, active bool) error {
				_, err := c.Admin().UpdateSellerStatus(ctx, id, dtos.SellerStatusRequest{IsActive: &active})
				return err
			},
			Refetch: list.Refresh,
			Notify:  output.Toasts{},
		}, list.Items, id)
	},
}

// sellerAccountLoaded fails when the listed seller came back without its user,
// since the active flag lives on the account.
func sellerAccountLoaded(sellers []models.Seller, id uuid.UUID) error {
	for _, s := range sellers {
		if s.ID == id && s.User == nil {
			return fmt.Errorf("seller %s has no user account loaded", id)
		}
	}
	return nil
}

var sellersApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve and verify a seller",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "seller")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		yes := true
		s, err := c.Admin().UpdateSellerStatus(cmd.Context(), id, dtos.SellerStatusRequest{IsApproved: &yes, IsVerified: &yes})
		if err != nil {
			return err
		}
		return render(s, func() { output.Success("Seller %q approved", s.BusinessName) })
	},
}

func init() {
	rootCmd.AddCommand(usersCmd, sellersCmd)
	usersCmd.AddCommand(usersListCmd, usersToggleCmd)
	sellersCmd.AddCommand(sellersListCmd, sellersToggleCmd, sellersApproveCmd)

	usersListCmd.Flags().StringVar(&userRole, "role", "", "admin, seller or customer")
	usersListCmd.Flags().Bool("active", false, "Filter by active state")
	for _, c := range []*cobra.Command{usersListCmd, sellersListCmd} {
		c.Flags().StringVar(&userSearch, "search", "", "Match name, email or business")
	}
	sellersListCmd.Flags().Bool("approved", false, "Filter by approval")
}
