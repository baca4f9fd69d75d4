// Package template defines the renderer-agnostic template contract used by the
// HTML renderer. The pongo subpackage provides the default implementation.
package template
