package ui

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders a markdown document for the terminal. Formats
// without styling get the source text back unchanged, as does any
// rendering failure.
func RenderMarkdown(content string, format Format) string {
	if format != FormatTerminal {
		return content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
