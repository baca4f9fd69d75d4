package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"

	"github.com/goliatone/go-cogform"
	"github.com/goliatone/go-cogform/internal/config"
	"github.com/goliatone/go-cogform/internal/logger"
	"github.com/goliatone/go-cogform/pkg/manifest"
	"github.com/goliatone/go-cogform/pkg/model"
	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
	"github.com/goliatone/go-cogform/pkg/orchestrator"
	"github.com/goliatone/go-cogform/pkg/outputs"
	"github.com/goliatone/go-cogform/pkg/predict"
)

const schemaFetchTimeout = 30 * time.Second

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "cogform: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs, err := createAndParseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	command := fs.Arg(0)
	if command == "" {
		printUsage(fs.FlagUsages())
		return errors.New("a command is required")
	}

	cfg, err := config.Load(config.LoadOptions{File: flags.configFile, Flags: fs})
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ContextWithLogger(ctx, log)

	files := afero.NewOsFs()
	if command == "lint" {
		return lint(ctx, cfg, files, os.Stdout)
	}

	app, err := newApp(ctx, cfg, log, files)
	if err != nil {
		return err
	}

	switch command {
	case "serve":
		return app.serve(ctx)
	case "prompt":
		return app.prompt(ctx, os.Stdout)
	case "render":
		return app.render(ctx)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// app holds what every command shares: the built form and its collaborators.
type app struct {
	cfg   *config.Config
	log   logger.Logger
	files afero.Fs
	orch  *orchestrator.Orchestrator
	form  model.FormModel
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger, files afero.Fs) (*app, error) {
	m, err := loadManifest(cfg, files)
	if err != nil {
		return nil, err
	}
	source, err := pkgopenapi.ParseSource(cfg.SchemaSource())
	if err != nil {
		return nil, err
	}

	orch := cogform.NewOrchestrator(orchestrator.WithLoader(newLoader(files)))
	form, err := orch.Form(ctx, orchestrator.Request{Source: source, Manifest: m})
	if err != nil {
		return nil, err
	}
	log.Debug("form built", "source", source.Location(), "fields", len(form.Fields), "slots", len(form.Slots))

	return &app{cfg: cfg, log: log, files: files, orch: orch, form: form}, nil
}

// predictor builds a predictor for the form. A nil materializer keeps media
// in memory.
func (a *app) predictor(materializer *outputs.Materializer) (*predict.Predictor, error) {
	return a.newPredictor(a.cfg.Predict(), materializer)
}

// localPredictor never rewrites local paths into public URLs, for commands
// that do not serve files.
func (a *app) localPredictor(materializer *outputs.Materializer) (*predict.Predictor, error) {
	pc := a.cfg.Predict()
	pc.PublicBaseURL = ""
	return a.newPredictor(pc, materializer)
}

func (a *app) newPredictor(pc predict.Config, materializer *outputs.Materializer) (*predict.Predictor, error) {
	pipelineOpts := []outputs.PipelineOption{
		outputs.WithMaxDepth(a.cfg.Outputs.MaxDepth),
		outputs.WithLogger(a.log),
	}
	if materializer != nil {
		pipelineOpts = append(pipelineOpts, outputs.WithMaterializer(materializer))
	}
	return predict.New(pc, a.form.SlotKinds(),
		predict.WithLogger(a.log),
		predict.WithFileSystem(a.files),
		predict.WithPipeline(outputs.NewPipeline(pipelineOpts...)),
	)
}

func newLoader(files afero.Fs) pkgopenapi.Loader {
	return cogform.NewLoader(
		pkgopenapi.WithLocalFS(files),
		pkgopenapi.WithHTTPFallback(schemaFetchTimeout),
	)
}

// loadManifest returns nil when no manifest is configured. The manifest's
// api block fills the endpoint and version the config left unset, so it runs
// before anything reads cfg.API.
func loadManifest(cfg *config.Config, files afero.Fs) (*manifest.Manifest, error) {
	if cfg.Schema.Manifest == "" {
		return nil, nil
	}
	m, err := manifest.Load(files, cfg.Schema.Manifest)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyManifestAPI(m.API.URL, m.API.Version); err != nil {
		return nil, err
	}
	return &m, nil
}
