package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoxPack/internal/cart"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/orders"
	"github.com/piwi3910/BoxPack/internal/project"
)

func (c *cli) newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Work with stored orders",
		Long: `Lists, previews, places and imports orders in the order database.

Use --db (or database_path in the config) to point at the database the
desktop app writes; without it orders live in memory for one command.`,
	}
	cmd.AddCommand(
		c.newOrdersListCmd(),
		c.newOrdersPlaceCmd(),
		c.newOrdersPreviewCmd(),
		c.newOrdersPreviewAllCmd(),
		c.newOrdersStatusCmd(),
		c.newOrdersImportCmd(),
	)
	return cmd
}

func (c *cli) newOrdersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.env.Service.Store().List(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(list)
			}
			return c.table(func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "ID\tDATE\tCUSTOMER\tUNITS\tTOTAL\tBOX\tSTATUS")
				for _, o := range list {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
						o.ID, o.Date.Format("2006-01-02 15:04"), o.Customer, o.Units(),
						o.Total.StringFixed(2), o.BoxInfo.Category, o.Status)
				}
			})
		},
	}
}

func (c *cli) newOrdersPlaceCmd() *cobra.Command {
	var req orders.PlaceOrderRequest
	cmd := &cobra.Command{
		Use:   "place LINES_FILE",
		Short: "Place an order from a JSON array of cart lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read lines: %w", err)
			}
			var lines []cart.Line
			if err := json.Unmarshal(data, &lines); err != nil {
				return fmt.Errorf("failed to parse lines: %w", err)
			}
			req.Lines = lines

			order, err := c.env.Service.PlaceOrder(cmd.Context(), req)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(order)
			}
			fmt.Fprintf(c.out, "placed %s: %d unit(s), total %s, box %s (%s)\n",
				order.ID, order.Units(), order.Total.StringFixed(2), order.BoxInfo.Category, order.BoxInfo.Dimensions)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Customer.DisplayName, "name", "", "customer name")
	f.StringVar(&req.Customer.Email, "email", "", "customer email")
	f.StringVar(&req.Address, "address", "", "shipping address")
	f.StringVar(&req.PaymentMethod, "payment", "Card", "payment method")
	f.StringVar(&req.Type, "type", "", "order type (default Online)")
	return cmd
}

func (c *cli) newOrdersPreviewCmd() *cobra.Command {
	var out exportFlags
	cmd := &cobra.Command{
		Use:   "preview ORDER_ID",
		Short: "Pack an order into its recommended box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.env.Service.Preview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := c.writeExports(p, "Order "+args[0], out); err != nil {
				return err
			}
			return c.printPreview(p)
		},
	}
	cmd.Flags().StringVar(&out.pdf, "pdf", "", "write a stage-by-stage PDF report")
	cmd.Flags().StringVar(&out.labels, "labels", "", "write QR label sheets")
	cmd.Flags().StringVar(&out.dxf, "dxf", "", "write a 3D DXF wireframe")
	cmd.Flags().StringVar(&out.xlsx, "xlsx", "", "write an Excel workbook")
	cmd.Flags().StringVar(&out.png, "png", "", "write an isometric PNG")
	return cmd
}

func (c *cli) newOrdersPreviewAllCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "preview-all",
		Short: "Preview every stored order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers > 0 {
				c.env.Service.SetConcurrency(workers)
			}
			previews, err := c.env.Service.PreviewAll(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(previews)
			}
			return c.table(func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "ORDER\tBOX\tSOURCE\tPLACED\tUNPLACED\tUTILIZATION")
				for _, p := range previews {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.1f%%\n",
						p.OrderID, p.Container.Label, p.ContainerSource,
						p.Metrics.PlacedCount, p.Metrics.UnplacedCount, p.Metrics.ScaledPercent())
				}
			})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "orders packed in parallel (0 = default)")
	return cmd
}

func (c *cli) newOrdersStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status ORDER_ID STATUS",
		Short: "Set an order's status (Pending, Paid, Cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := model.ParseOrderStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q", args[1])
			}
			if err := c.env.Service.UpdateStatus(cmd.Context(), args[0], status); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s: %s\n", args[0], status)
			return nil
		},
	}
}

func (c *cli) newOrdersImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import ORDER_ID...",
		Short: "Import orders into the warehouse and remove them from the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := c.env.Service.ImportOrders(cmd.Context(), args)
			if err != nil {
				return err
			}
			total, err := project.AccumulateImportStats(c.env.StatsPath, delta)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(map[string]model.ImportStats{"imported": delta, "total": total})
			}
			return c.table(func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "\tIMPORTED\tALL TIME")
				fmt.Fprintf(w, "Orders\t%d\t%d\n", delta.Total, total.Total)
				fmt.Fprintf(w, "Revenue\t%s\t%s\n", delta.Revenue.StringFixed(2), total.Revenue.StringFixed(2))
				fmt.Fprintf(w, "Paid\t%d\t%d\n", delta.Paid, total.Paid)
				fmt.Fprintf(w, "Pending\t%d\t%d\n", delta.Pending, total.Pending)
				fmt.Fprintf(w, "Cancelled\t%d\t%d\n", delta.Cancelled, total.Cancelled)
			})
		},
	}
}
