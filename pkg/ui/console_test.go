// pkg/ui/console_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test console output across formats

package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sprout-sh/sprout/pkg/ui"
)

func TestConsoleTextFormat(t *testing.T) {
	var buf bytes.Buffer
	c := ui.NewConsole(&buf, ui.FormatText)

	c.Info("checking %s", "tools")
	c.Success("done")
	c.Warning("careful")
	c.Error("boom")
	c.Step("running git")
	c.Blank()

	want := "checking tools\n" +
		"ok: done\n" +
		"warning: careful\n" +
		"error: boom\n" +
		"-> running git\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestConsoleJSONFormatIsSilent(t *testing.T) {
	var buf bytes.Buffer
	c := ui.NewConsole(&buf, ui.FormatJSON)

	c.Info("hidden")
	c.Success("hidden")
	c.Warning("hidden")
	c.Error("hidden")
	c.Step("hidden")
	c.Blank()

	assert.Empty(t, buf.String(), "JSON format leaves stdout to the machine-readable result")
}

func TestConsoleTerminalFormat(t *testing.T) {
	var buf bytes.Buffer
	c := ui.NewConsole(&buf, ui.FormatTerminal)

	c.Info("plugin order resolved")
	c.Warning("tool missing")

	out := buf.String()
	assert.Contains(t, out, "plugin order resolved")
	assert.Contains(t, out, "tool missing")
}

func TestConsoleAutoFallsBackToTextForPlainWriters(t *testing.T) {
	var buf bytes.Buffer
	c := ui.NewConsole(&buf, ui.FormatAuto)

	assert.Equal(t, ui.FormatText, c.Format())
}
