package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/createsend/config"
	"github.com/kbukum/createsend/logger"
)

type testConfig struct {
	config.ServiceConfig
}

func newTestConfig(name string) *testConfig {
	return &testConfig{ServiceConfig: config.ServiceConfig{Name: name}}
}

func newTestApp(t *testing.T) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(newTestConfig("test-tool"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "test-tool" {
		t.Errorf("name = %q", app.Name)
	}
	if app.Version == "" {
		t.Error("expected version to be set")
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("defaults not applied, environment = %q", app.Cfg.Environment)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("graceful timeout = %s", app.gracefulTimeout)
	}
	if app.Metrics != nil {
		t.Error("metrics should stay nil when export is disabled")
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	_, err := NewApp(newTestConfig(""), WithLogger(logger.Nop()))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "config validation") {
		t.Errorf("error = %v", err)
	}
}

func TestNewApp_GracefulTimeout(t *testing.T) {
	app, err := NewApp(newTestConfig("x"), WithLogger(logger.Nop()), WithGracefulTimeout(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if app.gracefulTimeout != time.Second {
		t.Errorf("graceful timeout = %s", app.gracefulTimeout)
	}
}

func TestRunTask_HookOrder(t *testing.T) {
	app := newTestApp(t)
	var calls []string
	record := func(name string) Hook {
		return func(context.Context) error {
			calls = append(calls, name)
			return nil
		}
	}
	app.OnStart(record("start-1"), record("start-2"))
	app.OnStop(record("stop-1"), record("stop-2"))

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		calls = append(calls, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := []string{"start-1", "start-2", "task", "stop-2", "stop-1"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestRunTask_TaskErrorWins(t *testing.T) {
	app := newTestApp(t)
	taskErr := errors.New("task failed")
	app.OnStop(func(context.Context) error { return errors.New("stop failed") })

	err := app.RunTask(context.Background(), func(context.Context) error { return taskErr })
	if !errors.Is(err, taskErr) {
		t.Errorf("err = %v, want task error", err)
	}
}

func TestRunTask_StopErrorReturned(t *testing.T) {
	app := newTestApp(t)
	stopErr := errors.New("close failed")
	stopped := 0
	app.OnStop(
		func(context.Context) error { stopped++; return nil },
		func(context.Context) error { stopped++; return stopErr },
	)

	err := app.RunTask(context.Background(), func(context.Context) error { return nil })
	if !errors.Is(err, stopErr) {
		t.Errorf("err = %v, want stop error", err)
	}
	if stopped != 2 {
		t.Errorf("stop hooks run = %d, want 2", stopped)
	}
}

func TestRunTask_StartFailureSkipsTask(t *testing.T) {
	app := newTestApp(t)
	startErr := errors.New("no credentials")
	stopped := false
	app.OnStop(func(context.Context) error { stopped = true; return nil })
	app.OnStart(func(context.Context) error { return startErr })

	ran := false
	err := app.RunTask(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if !errors.Is(err, startErr) {
		t.Errorf("err = %v", err)
	}
	if ran {
		t.Error("task must not run after a failed start hook")
	}
	if !stopped {
		t.Error("stop hooks must run after a failed start")
	}
}

func TestRunTask_ContextCanceled(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.RunTask(ctx, func(ctx context.Context) error {
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
