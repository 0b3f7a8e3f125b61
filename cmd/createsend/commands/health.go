package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/createsend/observability"
	"github.com/kbukum/createsend/version"
)

func (c *cli) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the API and print a health report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.RunTask(cmd.Context(), func(ctx context.Context) error {
				report := observability.NewReport(ctx, version.Get().String(), c.client)
				if err := printResult(cmd.OutOrStdout(), report); err != nil {
					return err
				}
				if report.Status != observability.HealthStatusUp {
					return fmt.Errorf("createsend api is %s", report.Status)
				}
				return nil
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Needs no configuration or credentials.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printResult(cmd.OutOrStdout(), version.Get())
		},
	}
}
