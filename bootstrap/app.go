package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/createsend/logger"
	"github.com/kbukum/createsend/observability"
	"github.com/kbukum/createsend/version"
)

// App runs a finite task with the shared lifecycle. The type parameter C is
// the config type.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger
	// Metrics is set during startup when metrics export is enabled and is
	// nil otherwise. Recording on a nil *Metrics is a no-op.
	Metrics *observability.Metrics

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// NewApp applies defaults to cfg, validates it and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         version.Get().Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// RunTask starts the app, runs task and shuts down. SIGINT and SIGTERM
// cancel the task context. The task error takes precedence over a
// shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Warn("shutdown after failed startup", logger.ErrorFields("stop", stopErr))
		}
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

// startup brings telemetry up and runs the start hooks.
func (a *App[C]) startup(ctx context.Context) error {
	a.Logger.Debug("starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := a.initTelemetry(ctx); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	return nil
}

func (a *App[C]) initTelemetry(ctx context.Context) error {
	base := a.Cfg.GetServiceConfig()

	if base.Tracing.Enabled {
		tc := base.Tracing
		if tc.ServiceVersion == "" {
			tc.ServiceVersion = a.Version
		}
		tp, err := observability.InitTracer(ctx, tc)
		if err != nil {
			return err
		}
		a.OnStop(tp.Shutdown)
	}

	if base.Metrics.Enabled {
		mc := base.Metrics
		if mc.ServiceVersion == "" {
			mc.ServiceVersion = a.Version
		}
		mp, err := observability.InitMeter(ctx, mc)
		if err != nil {
			return err
		}
		a.OnStop(mp.Shutdown)

		a.Metrics, err = observability.NewMetrics(observability.Meter())
		if err != nil {
			return err
		}
	}
	return nil
}

// stop runs the stop hooks in reverse order within the graceful timeout.
// Every hook runs even if an earlier one fails.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	for i := len(a.onStop) - 1; i >= 0; i-- {
		if err := a.onStop[i](ctx); err != nil {
			a.Logger.Error("stop hook failed", logger.ErrorFields("stop", err))
			errs = append(errs, err)
		}
	}
	a.onStop = nil

	a.Logger.Debug("application stopped", logger.Fields("name", a.Name))
	return errors.Join(errs...)
}
