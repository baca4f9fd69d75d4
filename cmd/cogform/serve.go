package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goliatone/go-cogform/pkg/server"
)

const shutdownGrace = 5 * time.Second

func (a *app) serve(ctx context.Context) error {
	predictor, err := a.predictor(nil)
	if err != nil {
		return err
	}
	renderer, err := a.orch.Renderer("")
	if err != nil {
		return err
	}
	srv, err := server.New(a.form, renderer, predictor,
		server.WithLogger(a.log),
		server.WithFileSystem(a.files),
		server.WithUploadDir(a.cfg.Server.UploadDir),
		server.WithMediaDir(a.cfg.Outputs.MediaDir),
		server.WithPublicBaseURL(a.cfg.PublicBaseURL),
	)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	a.log.Info("serving form", "addr", a.cfg.Server.Addr, "title", a.form.Title, "api", a.cfg.API.URL)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("shutdown", "error", err)
	}
	return nil
}
