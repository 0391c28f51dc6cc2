package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"textile-store/internal/app"
	"textile-store/internal/i18n"
	"textile-store/internal/models"
	"textile-store/internal/service"
)

var (
	adminEmail    string
	adminPassword string
	seedFile      string
	reportFrom    string
	reportTo      string
	reportLocale  string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Services.Auth.EnsureAdmin(ctx, adminEmail, adminPassword); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s ready\n", adminEmail)
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load products from a YAML file",
	Long: `Load catalog products from a YAML file. Products whose SKU already
exists are skipped, so the command can be run more than once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()

		products, err := parseSeed(f)
		if err != nil {
			return fmt.Errorf("%s: %w", seedFile, err)
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := seedProducts(ctx, a.Services.Catalog, products)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", res.Created, res.Skipped)
			return nil
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile-materials",
	Short: "Recompute the raw material stock table from the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			rows, err := a.Services.Materials.Reconcile(ctx)
			if err != nil {
				return err
			}
			return printStock(cmd.OutOrStdout(), rows)
		})
	},
}

var salesReportCmd = &cobra.Command{
	Use:   "sales-report",
	Short: "Print the sales summary for a date range (yyyy-mm-dd, Jakarta time)",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := service.ReportRange(reportFrom, reportTo, time.Now())
		if err != nil {
			return err
		}
		locale := i18n.Normalize(reportLocale)
		if locale == "" {
			locale = i18n.Indonesian
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			report, err := a.Services.Reports.Sales(ctx, from, to, locale)
			if err != nil {
				return err
			}
			return printSales(cmd.OutOrStdout(), report, locale)
		})
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "products.yaml", "YAML file with products")

	salesReportCmd.Flags().StringVar(&reportFrom, "from", "", "First day (default: 30 days ago)")
	salesReportCmd.Flags().StringVar(&reportTo, "to", "", "Last day (default: today)")
	salesReportCmd.Flags().StringVar(&reportLocale, "lang", i18n.Indonesian, "Output language (id|en)")
}

func printStock(w io.Writer, rows []models.MaterialStock) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MATERIAL\tUNIT\tPURCHASED\tUSED\tAVAILABLE\t")
	for _, r := range rows {
		flag := ""
		if r.Deficit {
			flag = "DEFICIT"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Name, r.Unit, r.Purchased, r.Used, r.Available, flag)
	}
	return tw.Flush()
}

func printSales(w io.Writer, r *models.SalesReport, locale string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Period\t%s .. %s\n", r.From, r.To)
	fmt.Fprintf(tw, "Orders\t%d\n", r.OrderCount)
	fmt.Fprintf(tw, "Items sold\t%d\n", r.ItemsSold)
	fmt.Fprintf(tw, "Revenue\t%s\n", i18n.FormatIDR(r.Revenue, locale))
	fmt.Fprintf(tw, "Average order\t%s\n", i18n.FormatIDR(r.AverageOrderValue, locale))
	if len(r.TopProducts) > 0 {
		fmt.Fprintln(tw, "\nID\tPRODUCT\tQTY\tREVENUE")
		for _, p := range r.TopProducts {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.ProductID, p.Name, p.Quantity, i18n.FormatIDR(p.Revenue, locale))
		}
	}
	return tw.Flush()
}
