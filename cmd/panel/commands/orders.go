package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"marketplace-admin/cmd/panel/output"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
	"marketplace-admin/panel"
)

var (
	orderStatus  string
	orderPayment string
	orderSearch  string
	orderNotes   string
	orderReason  string
	orderStats   bool
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Track and update orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		if orderStats {
			stats, err := c.Admin().OrderStats(cmd.Context())
			if err != nil {
				return err
			}
			return render(stats, func() {
				output.Section("Orders")
				output.Table([]string{"PENDING", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED", "REVENUE"}, [][]string{{
					strconv.FormatInt(stats.PendingOrders, 10), strconv.FormatInt(stats.ProcessingOrders, 10), strconv.FormatInt(stats.ShippedOrders, 10),
					strconv.FormatInt(stats.DeliveredOrders, 10), strconv.FormatInt(stats.CancelledOrders, 10), money(stats.TotalRevenue),
				}})
			})
		}

		orders, err := c.Admin().Orders(cmd.Context(), panel.OrderFilter{
			Status:        models.OrderStatus(orderStatus),
			PaymentStatus: models.PaymentStatus(orderPayment),
			Search:        orderSearch,
		})
		if err != nil {
			return err
		}
		return render(orders, func() {
			rows := make([][]string, 0, len(orders))
			for _, o := range orders {
				customer := ""
				if o.Customer != nil {
					customer = o.Customer.Email
				}
				rows = append(rows, []string{
					short(o.ID), o.OrderNumber,
					output.StatusIcon(string(o.Status)) + " " + string(o.Status),
					string(o.PaymentStatus), customer, money(o.TotalAmount),
				})
			}
			output.Table([]string{"ID", "NUMBER", "STATUS", "PAYMENT", "CUSTOMER", "TOTAL"}, rows)
		})
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move an order along pending, processing, shipped, delivered",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "order")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		o, err := c.Admin().UpdateOrderStatus(cmd.Context(), id, dtos.OrderStatusRequest{
			Status:     models.OrderStatus(args[1]),
			AdminNotes: orderNotes,
		})
		if err != nil {
			return err
		}
		return render(o, func() { output.Success("Order %s is now %s", o.OrderNumber, o.Status) })
	},
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an order and restore its stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "order")
		if err != nil {
			return err
		}
		c, err := authed(cmd.Context())
		if err != nil {
			return err
		}
		o, err := c.Admin().CancelOrder(cmd.Context(), id, orderReason)
		if err != nil {
			return err
		}
		return render(o, func() { output.Success("Order %s cancelled", o.OrderNumber) })
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd, ordersStatusCmd, ordersCancelCmd)

	ordersListCmd.Flags().StringVar(&orderStatus, "status", "", "Order status")
	ordersListCmd.Flags().StringVar(&orderPayment, "payment", "", "Payment status")
	ordersListCmd.Flags().StringVar(&orderSearch, "search", "", "Match order number or customer")
	ordersListCmd.Flags().BoolVar(&orderStats, "stats", false, "Show counts per status instead")
	ordersStatusCmd.Flags().StringVar(&orderNotes, "notes", "", "Admin notes")
	ordersCancelCmd.Flags().StringVar(&orderReason, "reason", "", "Cancellation reason")
}
