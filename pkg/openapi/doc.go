// Package openapi exposes the public contracts for reading a prediction
// container's API description: sources, loaders, and the parser that extracts
// the Input property set and Output schema. Implementations live under
// internal/openapi to keep kin-openapi out of the public API.
package openapi
