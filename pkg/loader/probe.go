package loader

import (
	"os/exec"
	"sync"

	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/types"
)

// ProbeTools looks up every external binary the selected plugins declare
// through the ToolRequirer capability and publishes the results as
// context facts under the tools. key prefix. Probes share no state and
// run concurrently; all results are joined before this returns, so the
// sequential phases that follow read a settled fact set.
func ProbeTools(rc *types.RunContext, selected []plugins.Plugin) {
	logger := logging.GetLogger("loader")

	tools := make(map[string]struct{})
	for _, p := range selected {
		tr, ok := p.(plugins.ToolRequirer)
		if !ok {
			continue
		}
		for _, tool := range tr.RequiredTools() {
			if tool != "" {
				tools[tool] = struct{}{}
			}
		}
	}
	if len(tools) == 0 {
		return
	}

	var wg sync.WaitGroup
	for tool := range tools {
		wg.Add(1)
		go func(tool string) {
			defer wg.Done()
			_, err := exec.LookPath(tool)
			rc.SetToolAvailable(tool, err == nil)
			logger.Debug().
				Str("tool", tool).
				Bool("available", err == nil).
				Msg("Probed external tool")
		}(tool)
	}
	wg.Wait()
}
