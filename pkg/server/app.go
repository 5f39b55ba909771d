package server

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "OptEdge/pkg/http"
	applogger "OptEdge/pkg/logger"
)

// App encapsulates the long-running HTTP service lifecycle.
type App struct {
	httpServer      *xhttp.Server
	closers         []io.Closer
	log             *applogger.Logger
	shutdownTimeout time.Duration
}

// New creates an App. Closers are closed in reverse order on shutdown.
func New(httpServer *xhttp.Server, l *applogger.Logger, shutdownTimeout time.Duration, closers ...io.Closer) *App {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &App{httpServer: httpServer, closers: closers, log: l, shutdownTimeout: shutdownTimeout}
}

// Run starts the HTTP server and blocks until ctx is done or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// Shutdown stops the HTTP server, then releases infrastructure clients.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	a.closeAll()
	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
		}
	}
	a.closers = nil
}

// CloseFunc adapts a cleanup function to io.Closer.
type CloseFunc func()

func (f CloseFunc) Close() error {
	f()
	return nil
}
