// Package version contains information on the current version of the
// program. It is split out for easy use by both the CLI and the preview
// server without either needing to import the other.
package version

// Current is the string representing the current version of expando.
const Current = "0.1.0"
