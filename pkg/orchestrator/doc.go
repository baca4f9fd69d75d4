// Package orchestrator wires the loader, parser, model builder and renderer
// into a single entry point: a Cog prediction schema in, a rendered form out.
package orchestrator
