package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	flag "github.com/spf13/pflag"
)

type appFlags struct {
	configFile string
	output     string
	format     string
}

var flags = appFlags{}

var usageText = heredoc.Doc(`
	cogform builds a form from the OpenAPI description of a prediction
	container and relays submissions to it.

	Usage:

	  cogform [flags] serve    serve the form over HTTP
	  cogform [flags] prompt   fill the form in the terminal and run one prediction
	  cogform [flags] render   write the form page to stdout or --output
	  cogform [flags] lint     check the schema and manifest for problems

	Every flag can also be set in cogform.yaml or as a COGFORM_* environment
	variable, e.g. COGFORM_API_TOKEN.

	The following flags are supported:
`)

// createAndParseFlags parses args[1:]. Flags that map onto config keys have
// zero defaults so values from the config file and environment win unless
// the flag is set explicitly.
func createAndParseFlags(args []string) (*flag.FlagSet, error) {
	fs := flag.NewFlagSet("cogform", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs.FlagUsages())
	}

	fs.StringVarP(&flags.configFile, "config", "c", "", "Path to a YAML config file.")
	fs.StringVarP(&flags.output, "output", "o", "", "File the render command writes to. Defaults to stdout.")
	fs.StringVar(&flags.format, "format", "pretty", heredoc.Doc(`
		How the prompt command prints outputs: "pretty" for one line per
		output slot or "json" for a JSON array.
	`))

	fs.String("api-url", "", "Prediction endpoint, e.g. http://localhost:5000/predictions.")
	fs.String("token", "", "API token sent as \"Authorization: Token <token>\".")
	fs.String("version", "", "Model version sent with hosted API submissions.")
	fs.String("public-base-url", "", heredoc.Doc(`
		Base URL the container uses to fetch uploaded files back from this
		process.
	`))
	fs.Duration("poll-interval", 0, "Delay between status polls for accepted jobs.")
	fs.Duration("poll-timeout", 0, "Give up polling after this long. Zero waits forever.")
	fs.String("backoff", "", `Poll backoff strategy: "constant" or "exponential".`)
	fs.String("addr", "", "Listen address for the serve command.")
	fs.String("upload-dir", "", "Directory uploaded inputs are written to.")
	fs.String("media-dir", "", "Directory decoded media outputs are written to.")
	fs.String("log-level", "", "One of debug, info, warn, error.")
	fs.Bool("log-json", false, "Log JSON lines instead of text.")
	fs.StringP("schema", "s", "", heredoc.Doc(`
		OpenAPI document path or URL. Defaults to /openapi.json on the
		prediction endpoint's host.
	`))
	fs.StringP("manifest", "m", "", "cog.yaml style manifest with example inputs and outputs.")

	return fs, fs.Parse(args[1:])
}

func printUsage(help string) {
	fmt.Println(usageText)
	fmt.Println(help)
}
