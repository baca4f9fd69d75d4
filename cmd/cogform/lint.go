package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/goliatone/go-cogform/internal/config"
	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
	"github.com/goliatone/go-cogform/pkg/validation"
)

var errLintFailed = errors.New("schema has errors")

func lint(ctx context.Context, cfg *config.Config, files afero.Fs, out io.Writer) error {
	m, err := loadManifest(cfg, files)
	if err != nil {
		return err
	}
	source, err := pkgopenapi.ParseSource(cfg.SchemaSource())
	if err != nil {
		return err
	}
	doc, err := newLoader(files).Load(ctx, source)
	if err != nil {
		return err
	}

	result := validation.ValidateSchema(ctx, source, doc.Raw(), validation.Options{Manifest: m})
	for _, issue := range result.Issues {
		location := issue.Path
		if location == "" {
			location = source.Location()
		}
		if _, err := fmt.Fprintf(out, "%s: %s: %s\n", issue.Severity, location, issue.Message); err != nil {
			return err
		}
	}
	if !result.Valid {
		return errLintFailed
	}
	_, err = fmt.Fprintf(out, "%s: ok\n", source.Location())
	return err
}
