// Package pipeflow exposes module-level metadata for the pipeflow
// schema-checked pipeline library.
package pipeflow

// Version is the module version reported by the CLI.
const Version = "0.1.0"
