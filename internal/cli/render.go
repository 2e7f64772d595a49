package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sprout-sh/sprout/pkg/commands/initialize"
	"github.com/sprout-sh/sprout/pkg/types"
	"github.com/sprout-sh/sprout/pkg/ui"
	"github.com/sprout-sh/sprout/pkg/ui/styles"
)

// initRunSummary is the JSON shape of an init run. Result structs carry
// error values, which do not marshal, so the command layer flattens them
// to strings here.
type initRunSummary struct {
	RunID       string              `json:"runId"`
	TargetDir   string              `json:"targetDir"`
	ProjectName string              `json:"projectName"`
	DryRun      bool                `json:"dryRun"`
	Status      string              `json:"status"`
	Plugins     []initPluginSummary `json:"plugins"`
}

type initPluginSummary struct {
	Name        string              `json:"name"`
	Status      string              `json:"status"`
	Scope       string              `json:"scope,omitempty"`
	Hooks       []string            `json:"hooks,omitempty"`
	Error       string              `json:"error,omitempty"`
	Heavyweight *heavyweightSummary `json:"heavyweight,omitempty"`
}

type heavyweightSummary struct {
	Success    bool   `json:"success"`
	ExitCode   int    `json:"exitCode"`
	TimedOut   bool   `json:"timedOut"`
	RolledBack bool   `json:"rolledBack"`
	RuleFile   string `json:"ruleFile,omitempty"`
	Error      string `json:"error,omitempty"`
}

func summarizeInit(res *initialize.InitializeResult) initRunSummary {
	s := initRunSummary{
		RunID:       res.RunID,
		TargetDir:   res.TargetDir,
		ProjectName: res.ProjectName,
		DryRun:      res.Run.DryRun,
		Status:      string(res.Run.Status()),
		Plugins:     []initPluginSummary{},
	}
	for _, name := range res.Run.Order {
		pr := res.Run.PluginResults[name]
		if pr == nil {
			continue
		}
		ps := initPluginSummary{
			Name:   pr.Name,
			Status: string(pr.Status),
			Scope:  pr.Scope,
		}
		for _, phase := range pr.HooksRun {
			ps.Hooks = append(ps.Hooks, string(phase))
		}
		if pr.Error != nil {
			ps.Error = pr.Error.Error()
		}
		if hw := pr.Heavyweight; hw != nil {
			ps.Heavyweight = &heavyweightSummary{
				Success:    hw.Success,
				ExitCode:   hw.ExitCode,
				TimedOut:   hw.TimedOut,
				RolledBack: hw.RolledBack,
				RuleFile:   hw.MigratedRuleFile,
			}
			if hw.Err != nil {
				ps.Heavyweight.Error = hw.Err.Error()
			}
		}
		s.Plugins = append(s.Plugins, ps)
	}
	return s
}

// renderInitResult prints the per-plugin outcome of an init run. Progress
// lines were already written through the console while the run executed;
// this is the closing summary.
func renderInitResult(console *ui.Console, res *initialize.InitializeResult) {
	if res == nil || res.Run == nil {
		return
	}

	if console.Format() == ui.FormatJSON {
		_ = emitJSON(summarizeInit(res))
		return
	}

	if res.Run.DryRun {
		for _, name := range res.Run.Order {
			console.Step("would run %s", name)
		}
		console.Blank()
		console.Info(MsgDryRunNotice)
		return
	}

	console.Blank()
	for _, name := range res.Run.Order {
		pr := res.Run.PluginResults[name]
		if pr == nil {
			continue
		}
		switch pr.Status {
		case types.RunStatusSuccess:
			console.Success("%s", name)
		case types.RunStatusError:
			console.Error("%s: %v", name, pr.Error)
		case types.RunStatusSkipped:
			console.Step("%s (skipped)", name)
		default:
			console.Step("%s (%s)", name, pr.Status)
		}
		if pr.Heavyweight != nil {
			renderHeavyweight(console, pr.Heavyweight)
		}
	}

	switch res.Run.Status() {
	case types.RunStatusSuccess:
		console.Blank()
		console.Success(MsgInitDone, res.ProjectName)
	case types.RunStatusPartial:
		console.Blank()
		console.Warning(MsgInitDonePartial, res.ProjectName, len(res.Run.FailedPlugins()))
	}
}

func renderHeavyweight(console *ui.Console, hw *types.HeavyweightResult) {
	if hw.MigratedRuleFile != "" {
		console.Step("instructions moved to %s", hw.MigratedRuleFile)
	}
	for _, m := range hw.Merges {
		if m.Err != nil {
			console.Error("merge %s: %v", m.Path, m.Err)
			continue
		}
		console.Step("%s %s", m.Action, m.Path)
	}
	if hw.TimedOut {
		console.Warning("%s initializer timed out", hw.PluginName)
	}
	if hw.RolledBack {
		console.Warning("%s protected files restored from backup", hw.PluginName)
	}
}

func renderPluginList(result *types.ListPluginsResult) {
	if len(result.Plugins) == 0 {
		fmt.Println(MsgNoPlugins)
		return
	}

	nameStyle := styles.Get("PluginName")
	mutedStyle := styles.Get("Muted")

	hasDocs := false
	for _, p := range result.Plugins {
		marker := " "
		if p.HasDoc {
			marker = "*"
			hasDocs = true
		}

		line := fmt.Sprintf("%s %s %s", marker,
			nameStyle.Render(fmt.Sprintf("%-8s", p.CommandName)), p.Description)

		var notes []string
		if p.Heavyweight {
			notes = append(notes, "heavyweight")
		}
		if !p.Enabled {
			notes = append(notes, "disabled")
		}
		if len(notes) > 0 {
			line += " " + mutedStyle.Render("("+strings.Join(notes, ", ")+")")
		}
		fmt.Println(line)
	}

	if hasDocs {
		fmt.Println()
		fmt.Println(mutedStyle.Render(MsgPluginDocHint))
	}
}

func emitJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
