package config

import (
	_ "embed"
)

//go:embed embedded/sample.toml
var sampleConfig []byte

// SampleContent returns the annotated sample configuration that the
// gen-config command prints or writes.
func SampleContent() string {
	return string(sampleConfig)
}
