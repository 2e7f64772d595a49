// pkg/ui/markdown_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test markdown rendering fallback behavior

package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sprout-sh/sprout/pkg/ui"
)

const sampleDoc = "# git plugin\n\nInitializes the repository and writes a `.gitignore`.\n"

func TestRenderMarkdownPlainFormatsPassThrough(t *testing.T) {
	assert.Equal(t, sampleDoc, ui.RenderMarkdown(sampleDoc, ui.FormatText))
	assert.Equal(t, sampleDoc, ui.RenderMarkdown(sampleDoc, ui.FormatJSON))
	assert.Equal(t, sampleDoc, ui.RenderMarkdown(sampleDoc, ui.FormatAuto))
}

func TestRenderMarkdownTerminal(t *testing.T) {
	out := ui.RenderMarkdown(sampleDoc, ui.FormatTerminal)

	assert.NotEmpty(t, out)
	assert.Contains(t, out, "git plugin")
}
