package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/createsend/createsend"
)

func (c *cli) subscribersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "Manage the members of a list",
	}
	cmd.AddCommand(
		c.subscriberAddCmd(),
		c.subscriberGetCmd(),
		c.subscriberUpdateCmd(),
		c.subscriberUnsubscribeCmd(),
		c.subscriberDeleteCmd(),
	)
	return cmd
}

// subscriberFlags are shared by add and update.
type subscriberFlags struct {
	name        string
	fields      []string
	resubscribe bool
	consent     string
}

func (f *subscriberFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "subscriber name")
	cmd.Flags().StringArrayVar(&f.fields, "field", nil, "custom field as key=value (repeatable)")
	cmd.Flags().BoolVar(&f.resubscribe, "resubscribe", false, "resubscribe if previously unsubscribed")
	cmd.Flags().StringVar(&f.consent, "consent", createsend.ConsentUnchanged, "consent to track: Yes, No or Unchanged")
}

func (f *subscriberFlags) subscriber(email string) (createsend.SubscriberToAdd, error) {
	sub := createsend.SubscriberToAdd{
		EmailAddress:   email,
		Name:           f.name,
		Resubscribe:    f.resubscribe,
		ConsentToTrack: f.consent,
	}
	for _, field := range f.fields {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return sub, fmt.Errorf("--field %q: want key=value", field)
		}
		sub.CustomFields = append(sub.CustomFields, createsend.CustomField{Key: key, Value: value})
	}
	return sub, nil
}

func (c *cli) subscriberAddCmd() *cobra.Command {
	var flags subscriberFlags
	cmd := &cobra.Command{
		Use:   "add <listID> <email>",
		Short: "Add or resubscribe a subscriber",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := flags.subscriber(args[1])
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return c.client.Subscribers.Add(ctx, args[0], sub)
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func (c *cli) subscriberGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <listID> <email>",
		Short: "Print a subscriber's details",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return c.client.Subscribers.Get(ctx, args[0], args[1])
			})
		},
	}
}

func (c *cli) subscriberUpdateCmd() *cobra.Command {
	var (
		flags    subscriberFlags
		newEmail string
	)
	cmd := &cobra.Command{
		Use:   "update <listID> <email>",
		Short: "Update a subscriber",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[1]
			if newEmail != "" {
				email = newEmail
			}
			sub, err := flags.subscriber(email)
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return nil, c.client.Subscribers.Update(ctx, args[0], args[1], sub)
			})
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&newEmail, "email", "", "new email address")
	return cmd
}

func (c *cli) subscriberUnsubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <listID> <email>",
		Short: "Unsubscribe a subscriber",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return nil, c.client.Subscribers.Unsubscribe(ctx, args[0], args[1])
			})
		},
	}
}

func (c *cli) subscriberDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <listID> <email>",
		Short: "Move a subscriber to the deleted state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context) (any, error) {
				return nil, c.client.Subscribers.Delete(ctx, args[0], args[1])
			})
		},
	}
}
