// Package types defines the core types and interfaces used throughout sprout.
// This includes the Plugin descriptor and lifecycle phases, the RunContext
// shared by plugin hooks, heavyweight integration types, and the FS
// abstraction the engine performs all file operations through.
package types
