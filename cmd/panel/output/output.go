// Package output renders CLI messages, tables and category trees.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"marketplace-admin/catalog"
)

// Writer receives everything this package prints.
var Writer io.Writer = os.Stdout

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

func Success(format string, args ...interface{}) {
	fmt.Fprint(Writer, successStyle.Render("✓ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

func Warning(format string, args ...interface{}) {
	fmt.Fprint(Writer, warningStyle.Render("⚠ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

func Error(format string, args ...interface{}) {
	fmt.Fprint(Writer, errorStyle.Render("✗ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

func Info(format string, args ...interface{}) {
	fmt.Fprint(Writer, infoStyle.Render("ℹ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

func Muted(format string, args ...interface{}) {
	fmt.Fprintln(Writer, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a title underlined to its width.
func Section(title string) {
	fmt.Fprintln(Writer)
	fmt.Fprintln(Writer, primaryStyle.Render(title))
	fmt.Fprintln(Writer, mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title))))
}

// Toasts adapts the printers to panel.Notifier.
type Toasts struct{}

func (Toasts) Success(msg string) { Success("%s", msg) }
func (Toasts) Error(msg string)   { Error("%s", msg) }
func (Toasts) Warning(msg string) { Warning("%s", msg) }

// StatusIcon colours a product or order status.
func StatusIcon(status string) string {
	switch status {
	case "approved", "delivered", "active":
		return successStyle.Render("✓")
	case "pending", "processing", "shipped", "draft":
		return warningStyle.Render("○")
	case "rejected", "blocked", "cancelled", "inactive":
		return errorStyle.Render("✗")
	default:
		return mutedStyle.Render("•")
	}
}

// Active renders an is_active flag.
func Active(active bool) string {
	if active {
		return StatusIcon("active") + " active"
	}
	return StatusIcon("inactive") + " inactive"
}

// JSON pretty-prints v.
func JSON(v interface{}) error {
	enc := json.NewEncoder(Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes tab-aligned rows under a header.
func Table(header []string, rows [][]string) {
	w := tabwriter.NewWriter(Writer, 0, 0, 2, ' ', 0)
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = primaryStyle.Render(h)
	}
	fmt.Fprintln(w, strings.Join(cells, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	w.Flush()
}

// Tree renders the category tree with box-drawing branches.
func Tree(roots []*catalog.TreeNode) {
	if len(roots) == 0 {
		Muted("No categories")
		return
	}
	var render func(nodes []*catalog.TreeNode, prefix string)
	render = func(nodes []*catalog.TreeNode, prefix string) {
		for i, n := range nodes {
			branch, next := "├── ", "│   "
			if i == len(nodes)-1 {
				branch, next = "└── ", "    "
			}
			label := n.Name
			if !n.IsActive {
				label = mutedStyle.Render(label + " (inactive)")
			}
			fmt.Fprintf(Writer, "%s%s %s\n", mutedStyle.Render(prefix+branch), label, mutedStyle.Render(n.ID.String()[:8]))
			render(n.Children, prefix+next)
		}
	}
	render(roots, "")
}
