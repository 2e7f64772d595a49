// Package ui renders user-facing output for sprout runs.
//
// The Console type implements types.UserOutput over pterm printers and
// is the surface plugin hooks report progress through. Output format is
// detected from the terminal (NO_COLOR, pipes, color support) and can be
// forced with the --format flag.
package ui
