package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/createsend/createsend"
)

func (c *cli) listsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage subscriber lists",
	}
	cmd.AddCommand(
		c.listCreateCmd(),
		c.listGetCmd(),
		c.listUpdateCmd(),
		c.listDeleteCmd(),
		c.listSubscribersCmd(),
	)
	return cmd
}

func bindListFlags(cmd *cobra.Command, l *createsend.ListCreate) {
	cmd.Flags().StringVar(&l.Title, "title", "", "list title")
	cmd.Flags().StringVar(&l.UnsubscribePage, "unsubscribe-page", "", "URL shown after unsubscribing")
	cmd.Flags().StringVar(&l.UnsubscribeSetting, "unsubscribe-setting", "", "AllClientLists or OnlyThisList")
	cmd.Flags().BoolVar(&l.ConfirmedOptIn, "confirmed-opt-in", false, "require confirmation for new subscribers")
	cmd.Flags().StringVar(&l.ConfirmationSuccessPage, "confirmation-success-page", "", "URL shown after confirming")
}

func (c *cli) listCreateCmd() *cobra.Command {
	var list createsend.ListCreate
	cmd := &cobra.Command{
		Use:   "create <clientID>",
		Short: "Create a list and print its ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return c.client.Lists.Create(ctx, args[0], list)
			})
		},
	}
	bindListFlags(cmd, &list)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (c *cli) listGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <listID>",
		Short: "Print a list's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return c.client.Lists.Details(ctx, args[0])
			})
		},
	}
}

func (c *cli) listUpdateCmd() *cobra.Command {
	var list createsend.ListUpdate
	cmd := &cobra.Command{
		Use:   "update <listID>",
		Short: "Replace a list's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return nil, c.client.Lists.Update(ctx, args[0], list)
			})
		},
	}
	bindListFlags(cmd, &list.ListCreate)
	cmd.Flags().BoolVar(&list.AddUnsubscribesToSuppList, "add-unsubscribes-to-supp-list", false, "add current unsubscribes to the suppression list")
	cmd.Flags().BoolVar(&list.ScrubActiveWithSuppList, "scrub-active-with-supp-list", false, "remove active subscribers found in the suppression list")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (c *cli) listDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <listID>",
		Short: "Delete a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return nil, c.client.Lists.Delete(ctx, args[0])
			})
		},
	}
}

func (c *cli) listSubscribersCmd() *cobra.Command {
	var (
		state  string
		since  string
		paging createsend.PageOptions
	)
	cmd := &cobra.Command{
		Use:   "subscribers <listID>",
		Short: "Print one page of a list's subscribers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sinceDate time.Time
			if since != "" {
				t, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("--since must be YYYY-MM-DD: %w", err)
				}
				sinceDate = t
			}
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return c.client.Lists.Subscribers(ctx, args[0], state, sinceDate, paging)
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", createsend.StateActive, "active, unsubscribed, bounced, deleted or unconfirmed")
	cmd.Flags().StringVar(&since, "since", "", "only subscribers changed on or after this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&paging.Page, "page", 0, "page number (default 1)")
	cmd.Flags().IntVar(&paging.PageSize, "page-size", 0, "records per page, 10 to 1000 (default 1000)")
	cmd.Flags().StringVar(&paging.OrderField, "order-field", "", "email, name or date (default date)")
	cmd.Flags().StringVar(&paging.OrderDirection, "order-direction", "", "asc or desc (default asc)")
	return cmd
}
