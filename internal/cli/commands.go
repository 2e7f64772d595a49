package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/sprout-sh/sprout/internal/version"
	"github.com/sprout-sh/sprout/pkg/commands/genconfig"
	"github.com/sprout-sh/sprout/pkg/commands/initialize"
	"github.com/sprout-sh/sprout/pkg/commands/list"
	"github.com/sprout-sh/sprout/pkg/ui"
)

// outputFormat resolves the --format persistent flag into a concrete
// output format.
func outputFormat(cmd *cobra.Command) (ui.Format, error) {
	raw, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := ui.ParseFormat(raw)
	if err != nil {
		return ui.FormatAuto, fmt.Errorf(MsgErrFormat, err)
	}
	if format == ui.FormatAuto {
		format = ui.DetectFormat(os.Stdout)
	}
	return format, nil
}

// pluginNamesCompletion provides shell completion for plugin command names
func pluginNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	result, err := list.ListPlugins(list.ListPluginsOptions{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, p := range result.Plugins {
		names = append(names, p.CommandName)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newInitCmd() *cobra.Command {
	var (
		pluginNames []string
		configPath  string
		envFile     string
		failFast    bool
	)

	cmd := &cobra.Command{
		Use:     "init [target]",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) > 0 {
				target = args[0]
			}

			// Get dry-run flag value (it's a persistent flag)
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			console := ui.NewConsole(os.Stdout, format)

			log.Info().
				Str("target", target).
				Strs("plugins", pluginNames).
				Bool("dry_run", dryRun).
				Msg("Initializing project")

			result, runErr := initialize.Initialize(cmd.Context(), initialize.InitializeOptions{
				TargetDir:   target,
				ConfigPath:  configPath,
				PluginNames: pluginNames,
				FailFast:    failFast,
				DryRun:      dryRun,
				EnvFile:     envFile,
				Out:         console,
			})

			renderInitResult(console, result)

			if runErr != nil {
				return fmt.Errorf(MsgErrInit, runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&pluginNames, "plugins", "p", nil, MsgFlagPlugins)
	cmd.Flags().StringVar(&configPath, "config", "", MsgFlagConfig)
	cmd.Flags().StringVar(&envFile, "env-file", "", MsgFlagEnvFile)
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, MsgFlagFailFast)
	_ = cmd.RegisterFlagCompletionFunc("plugins", pluginNamesCompletion)

	return cmd
}

func newPluginsCmd() *cobra.Command {
	var (
		configPath string
		docName    string
	)

	cmd := &cobra.Command{
		Use:     "plugins [target]",
		Short:   MsgPluginsShort,
		Long:    MsgPluginsLong,
		Example: MsgPluginsExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) > 0 {
				target = args[0]
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			if docName != "" {
				content, err := list.PluginDoc(docName)
				if err != nil {
					return fmt.Errorf(MsgErrPlugins, err)
				}
				fmt.Print(ui.RenderMarkdown(content, format))
				return nil
			}

			result, err := list.ListPlugins(list.ListPluginsOptions{
				TargetDir:  target,
				ConfigPath: configPath,
			})
			if err != nil {
				return fmt.Errorf(MsgErrPlugins, err)
			}

			if format == ui.FormatJSON {
				return emitJSON(result)
			}
			renderPluginList(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", MsgFlagConfig)
	cmd.Flags().StringVar(&docName, "doc", "", MsgFlagDoc)
	_ = cmd.RegisterFlagCompletionFunc("doc", pluginNamesCompletion)

	return cmd
}

func newGenConfigCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "gen-config [target]",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Example: MsgGenConfigExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) > 0 {
				target = args[0]
			}

			result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
				TargetDir: target,
				Write:     write,
			})
			if err != nil {
				return fmt.Errorf(MsgErrGenConfig, err)
			}

			if !write {
				fmt.Print(result.ConfigContent)
				return nil
			}
			if len(result.FilesWritten) == 0 {
				fmt.Println(MsgConfigExists)
				return nil
			}
			for _, f := range result.FilesWritten {
				fmt.Printf(MsgConfigWritten+"\n", f)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    MsgVersionLong,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sprout version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			header := &doc.GenManHeader{
				Title:   "SPROUT",
				Section: "1",
			}
			return doc.GenManTree(cmd.Root(), header, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagManDir)

	return cmd
}
