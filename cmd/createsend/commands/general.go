package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func (c *cli) systemDateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "systemdate",
		Short: "Print the account's current date and time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				date, err := c.client.General.SystemDate(ctx)
				if err != nil {
					return nil, err
				}
				return date.Format("2006-01-02 15:04:05"), nil
			})
		},
	}
}

func (c *cli) clientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List the clients in the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return c.client.General.Clients(ctx)
			})
		},
	}
}

func (c *cli) countriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List the country names the API accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return c.client.General.Countries(ctx)
			})
		},
	}
}

func (c *cli) timezonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timezones",
		Short: "List the time zone names the API accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return c.client.General.Timezones(ctx)
			})
		},
	}
}
