package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/createsend/bootstrap"
	"github.com/kbukum/createsend/createsend"
)

// cli holds the flags and the per-invocation app shared by subcommands.
type cli struct {
	configFile string
	apiKey     string
	endpoint   string
	debug      bool

	app    *bootstrap.App[*AppConfig]
	client *createsend.Client
}

// Execute runs the CLI with os.Args. SIGINT and SIGTERM cancel the running
// request.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:               "createsend",
		Short:             "Command line client for the createsend API",
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default: search standard locations)")
	root.PersistentFlags().StringVar(&c.apiKey, "api-key", "", "API key (overrides CREATESEND_API_KEY)")
	root.PersistentFlags().StringVar(&c.endpoint, "endpoint", "", "API base URL (overrides CREATESEND_API_ENDPOINT)")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "dump requests and responses to stderr")

	root.AddCommand(
		c.systemDateCmd(),
		c.clientsCmd(),
		c.countriesCmd(),
		c.timezonesCmd(),
		c.listsCmd(),
		c.subscribersCmd(),
		c.healthCmd(),
		versionCmd(),
	)
	return root
}

// setup loads the configuration and prepares the app. The API client is
// created by a start hook so it picks up the app's metrics.
func (c *cli) setup(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.configFile)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		cfg.CreateSend.APIKey = c.apiKey
	}
	if c.endpoint != "" {
		cfg.CreateSend.APIEndpoint = c.endpoint
	}
	if c.debug {
		cfg.CreateSend.LoggingEnabled = true
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	app.OnStart(func(context.Context) error {
		client, err := createsend.New(cfg.CreateSend,
			createsend.WithLogger(app.Logger.WithComponent("createsend")),
			createsend.WithMetrics(app.Metrics),
		)
		if err != nil {
			return err
		}
		c.client = client
		app.OnStop(func(context.Context) error {
			client.Close()
			return nil
		})
		return nil
	})
	c.app = app
	return nil
}

// run executes fn inside the app lifecycle and prints its result.
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context) (any, error)) error {
	return c.app.RunTask(cmd.Context(), func(ctx context.Context) error {
		result, err := fn(ctx)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result)
	})
}

// printResult writes strings as a line and everything else as indented
// JSON. A nil result prints nothing.
func printResult(w io.Writer, v any) error {
	switch r := v.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintln(w, r)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
