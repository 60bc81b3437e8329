// Package app wires the portal client, session controller, activity log,
// console server and terminal front-end together and runs them until the
// user quits or the process is signalled.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/cli"
	"github.com/dmitrijs2005/netkeeper/internal/config"
	"github.com/dmitrijs2005/netkeeper/internal/console"
	"github.com/dmitrijs2005/netkeeper/internal/filex"
	"github.com/dmitrijs2005/netkeeper/internal/journal"
	"github.com/dmitrijs2005/netkeeper/internal/logging"
	"github.com/dmitrijs2005/netkeeper/internal/portal"
	"github.com/dmitrijs2005/netkeeper/internal/session"
	"github.com/jonboulle/clockwork"
)

const recorderInterval = 2 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	ctrl     *session.Controller
	store    *journal.SQLiteStore
	recorder *journal.Recorder
	console  *console.Server
	loc      *time.Location
	in       io.Reader
	out      io.Writer
	closers  []io.Closer
}

// NewApp builds every component from c. The caller must call Run, which
// releases the resources NewApp acquired.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	app := &App{config: c, loc: loc, in: in, out: out}

	logger, err := app.newLogger()
	if err != nil {
		app.close()
		return nil, err
	}
	app.logger = logger

	clock := clockwork.NewRealClock()

	var sink journal.Sink
	if c.HistoryPath != "" {
		store, err := journal.OpenSQLite(ctx, c.HistoryPath)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("history init error: %w", err)
		}
		app.store = store
		app.recorder = journal.NewRecorder(store, journal.NewRunID(), clock, recorderInterval, logger)
		sink = app.recorder
	}

	book := journal.NewBook(clock, sink)
	client := portal.NewClient(c.APIURL, c.RequestTimeout, loc, logger)

	ctrl, err := session.NewController(client, book, session.Options{
		Clock:         clock,
		Location:      loc,
		TickInterval:  c.TickInterval,
		RenewAfter:    c.RenewAfter,
		RenewStrategy: session.RenewStrategy(c.RenewStrategy),
		RenewFailure:  session.FailurePolicy(c.RenewFailure),
		Logger:        logger,
	})
	if err != nil {
		app.close()
		return nil, fmt.Errorf("controller init error: %w", err)
	}
	app.ctrl = ctrl

	if c.ConsoleAddr != "" {
		app.console = console.NewServer(console.Config{
			Addr:        c.ConsoleAddr,
			SignInRate:  c.SignInRate,
			SignInBurst: c.SignInBurst,
		}, ctrl, logger)
	}

	return app, nil
}

// newLogger writes to stderr, or to LogFile when one is configured.
func (app *App) newLogger() (logging.Logger, error) {
	var w io.Writer = os.Stderr
	if app.config.LogFile != "" {
		path, err := filex.EnsureParentDir(app.config.LogFile)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		app.closers = append(app.closers, f)
		w = f
	}
	return logging.New(app.config.LogLevel, app.config.LogFormat, w), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startConsole(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.console.Run(ctx); err != nil {
		app.logger.Error(ctx, "console failed", "error", err)
		cancelFunc()
	}
}

// history returns the store as a journal.Store, or nil when disabled.
func (app *App) history() journal.Store {
	if app.store == nil {
		return nil
	}
	return app.store
}

// Run blocks until the terminal session ends or the process is signalled,
// then shuts down in order: controller, console, recorder, store. An active
// portal session is left as is.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	// The recorder outlives ctx so it can persist entries written during
	// shutdown.
	recCtx, stopRecorder := context.WithCancel(context.WithoutCancel(ctx))
	defer stopRecorder()
	var recWG sync.WaitGroup
	if app.recorder != nil {
		recWG.Add(1)
		go func() {
			defer recWG.Done()
			app.recorder.Run(recCtx)
		}()
	}

	var wg sync.WaitGroup
	if app.console != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startConsole(ctx, cancelFunc)
		}()
	}

	// The REPL blocks on input, so it is not waited for on signal.
	replDone := make(chan struct{})
	go func() {
		defer close(replDone)
		cli.NewApp(app.ctrl, app.history(), app.loc, app.in, app.out).Run(ctx)
	}()

	select {
	case <-replDone:
		cancelFunc()
	case <-ctx.Done():
	}

	app.ctrl.Close()
	wg.Wait()

	stopRecorder()
	recWG.Wait()
	if app.recorder != nil {
		if n := app.recorder.Dropped(); n > 0 {
			app.logger.Warn(ctx, "activity log entries dropped", "count", n)
		}
	}

	app.logger.Info(ctx, "Stopped")
	app.close()
}

func (app *App) close() {
	if app.store != nil {
		_ = app.store.Close()
	}
	for _, c := range app.closers {
		_ = c.Close()
	}
}
