// Package bootstrap runs a createsend tool through a uniform lifecycle:
// defaults and validation of the typed config, logger setup, optional
// OpenTelemetry export, start hooks, the task itself, then stop hooks.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.OnStart(func(ctx context.Context) error {
//	    client, err = createsend.New(cfg.CreateSend, createsend.WithMetrics(app.Metrics))
//	    return err
//	})
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := client.General.SystemDate(ctx)
//	    return err
//	})
//
// SIGINT and SIGTERM cancel the task context; stop hooks always run.
package bootstrap
