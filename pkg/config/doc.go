// Package config resolves the run configuration for a target directory.
//
// Values are layered: compiled defaults first, then the project config
// file (.sprout.toml or sprout.toml in the target directory), then
// SPROUT_-prefixed environment variables. Later layers win.
package config
