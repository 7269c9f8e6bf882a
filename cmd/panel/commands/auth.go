package commands

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"marketplace-admin/cmd/panel/output"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and keep the session",
	Long: `Sign in as an admin or seller.

Examples:
  panel login --email admin@example.com --password secret
  PANEL_PASSWORD=secret panel login --email seller@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("PANEL_PASSWORD")
		}
		if loginEmail == "" || password == "" {
			return errors.New("--email and --password (or PANEL_PASSWORD) are required")
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		user, err := c.Session().Login(cmd.Context(), loginEmail, password)
		if err != nil {
			return err
		}
		return render(user, func() {
			output.Success("Signed in as %s (%s)", user.Email, user.Role)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.Session().Logout(); err != nil {
			return err
		}
		output.Success("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		user := c.Session().User()
		return render(user, func() {
			output.Info("%s <%s>", user.FullName(), user.Email)
			output.Muted("role %s, id %s", user.Role, user.ID)
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
}
