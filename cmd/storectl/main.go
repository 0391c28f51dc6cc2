// storectl agrupa las tareas de administración que corren fuera del API:
// crear administradores, cargar el catálogo y sacar reportes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"textile-store/internal/app"
	"textile-store/internal/config"
	"textile-store/internal/logger"
)

var (
	log     *zap.Logger
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "Administrative tasks for the textile store",
	Long: `storectl runs maintenance tasks against the store database using
the same configuration as the API (environment variables or .env).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if log == nil {
			log = logger.Must(os.Getenv("APP_ENV"))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(salesReportCmd)
}

// withApp abre las conexiones, ejecuta fn y las cierra al terminar
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg := config.LoadConfig(log)
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	return fn(ctx, a)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
