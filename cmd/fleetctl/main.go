package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sultan1coder/BUS-ROUTE-sub001/config"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fleetctl",
		Short: "Operational tooling for the bus fleet tracking service",
	}

	rootCmd.AddCommand(purgeCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openModule connects to postgres and wires the broker-free service set.
func openModule() (*core.Module, *sql.DB, error) {
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := config.NewPostgres(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: %w", err)
	}

	m := core.BuildMaintenance(db, core.Options{
		DefaultSpeedLimitKmh: cfg.DefaultSpeedLimitKmh,
		FleetAverageSpeedKmh: cfg.FleetAverageSpeedKmh,
	})
	return m, db, nil
}

// purgeCmd deletes location samples and speed violations past the retention
// window.
func purgeCmd() *cobra.Command {
	var days int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete location and violation records older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}

			m, db, err := openModule()
			if err != nil {
				return err
			}
			defer db.Close()

			cutoff := time.Now().AddDate(0, 0, -days)
			fmt.Printf("purging records older than %s (%d days)\n", cutoff.Format(time.RFC3339), days)

			if dryRun {
				fmt.Println("dry run, nothing deleted")
				return nil
			}

			ctx := context.Background()

			locations, err := m.TrackingSvc.PurgeOlderThan(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("purge locations: %w", err)
			}
			fmt.Printf("deleted %d location samples\n", locations)

			violations, err := m.SpeedSvc.PurgeOlderThan(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("purge violations: %w", err)
			}
			fmt.Printf("deleted %d speed violations\n", violations)

			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "Retention window in days")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the cutoff without deleting")
	return cmd
}

// statsCmd prints fleet-wide speed violation statistics.
func statsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show speed violation statistics for the fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, db, err := openModule()
			if err != nil {
				return err
			}
			defer db.Close()

			filter := &domain.ViolationFilter{
				Start: time.Now().AddDate(0, 0, -days),
				End:   time.Now(),
			}

			report, err := m.FleetSvc.SpeedStats(context.Background(), filter)
			if err != nil {
				return fmt.Errorf("speed stats: %w", err)
			}

			fmt.Printf("Speed violations, last %d days\n", days)
			fmt.Printf("  Total: %d\n", report.Total)
			for _, sev := range []domain.Severity{domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow} {
				if n, ok := report.BySeverity[sev]; ok {
					fmt.Printf("  %-9s %d\n", sev, n)
				}
			}

			if len(report.TopVehicles) > 0 {
				fmt.Println("  Top vehicles:")
				for _, v := range report.TopVehicles {
					fmt.Printf("    %-12s %d\n", v.VehicleID, v.Count)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Lookback window in days")
	return cmd
}
