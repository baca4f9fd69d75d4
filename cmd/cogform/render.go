package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/goliatone/go-cogform/pkg/orchestrator"
)

func (a *app) render(ctx context.Context) error {
	page, err := a.orch.Render(ctx, a.form, orchestrator.Request{})
	if err != nil {
		return err
	}
	if flags.output == "" {
		_, err := os.Stdout.Write(page)
		return err
	}
	if err := afero.WriteFile(a.files, flags.output, page, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flags.output, err)
	}
	a.log.Info("form written", "path", flags.output)
	return nil
}
