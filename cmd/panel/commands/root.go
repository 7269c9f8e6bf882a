package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketplace-admin/cmd/panel/output"
	"marketplace-admin/config"
	"marketplace-admin/logger"
	"marketplace-admin/panel"
)

var (
	apiURL      string
	sessionPath string
	jsonOutput  bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "panel",
	Short: "Marketplace admin and seller panel",
	Long: `Terminal panel for the marketplace backend.

Admins manage the category tree, attributes, product approvals, users,
sellers, orders and commissions. Sellers manage their own products and
variants. Sign in once with "panel login"; the session is kept in a file
readable only by you.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			output.Error("%s", panel.ErrorMessage(err, err.Error()))
		}
		os.Exit(1)
	}
}

// errReported fails a command whose error was already shown as a toast.
var errReported = errors.New("reported")

func init() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", config.GetEnv("PANEL_API_URL", "http://localhost:8000"), "Backend base URL (env PANEL_API_URL)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "Session file (default: user config dir)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := logger.New("development")
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func newClient() (*panel.Client, error) {
	path := sessionPath
	if path == "" {
		p, err := panel.DefaultSessionPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return panel.New(apiURL, panel.NewFileStore(path), panel.WithLogger(newLogger())), nil
}

// authed returns a client whose stored session has been verified.
func authed(ctx context.Context) (*panel.Client, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	if err := c.Session().Init(ctx); err != nil {
		if errors.Is(err, panel.ErrUnauthorized) {
			return nil, errors.New("session expired, run `panel login` again")
		}
		return nil, err
	}
	if !c.Session().Authenticated() {
		return nil, errors.New("not signed in, run `panel login` first")
	}
	return c, nil
}

func parseID(s, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}

// optionalID parses s unless it is empty.
func optionalID(s, what string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID(s, what)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// optionalBool reads a bool flag only when the user set it.
func optionalBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

func short(id uuid.UUID) string {
	return id.String()[:8]
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// render prints v as JSON under --json, and calls human otherwise.
func render(v interface{}, human func()) error {
	if jsonOutput {
		return output.JSON(v)
	}
	human()
	return nil
}

// flip runs an optimistic toggle. Failures are toasted by the toggle itself.
func flip[T any](ctx context.Context, t panel.Toggle[T], items []T, id uuid.UUID) error {
	for _, it := range items {
		if t.ID(it) == id {
			if err := t.Flip(ctx, items, id); err != nil {
				return errReported
			}
			return nil
		}
	}
	return fmt.Errorf("%s %s not found", t.Label, id)
}
