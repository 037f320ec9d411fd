package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dockplate/internal/version"
	"github.com/arthur-debert/dockplate/pkg/config"
	"github.com/arthur-debert/dockplate/pkg/display"
	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/logging"
)

func (a *app) newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    "Print the built-in configuration with every value commented out, ready to be saved as dockplate.toml.",
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(config.GenerateConfigContent())
		},
	}
}

func (a *app) newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.output(cmd, format)
			if err != nil {
				return err
			}
			info := version.Get()
			if r.Format() == display.FormatJSON {
				return r.JSON(info)
			}
			cmd.Print(info.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}

func (a *app) newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(dockplate completion bash)

Zsh:
  $ dockplate completion zsh > "${fpath[1]}/_dockplate"

Fish:
  $ dockplate completion fish | source

PowerShell:
  PS> dockplate completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				err = cmd.Root().GenZshCompletion(out)
			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			if err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "failed to generate %s completion", args[0])
			}
			return nil
		},
	}
}

func (a *app) newManCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.fs.MkdirAll(dir, a.cfg.Output.DirMode); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", dir)
			}
			header := &doc.GenManHeader{
				Title:   "DOCKPLATE",
				Section: "1",
				Source:  "dockplate " + version.Version,
				Manual:  "dockplate manual",
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return errors.Wrap(err, errors.ErrFileWrite, "failed to generate man pages")
			}
			logger := logging.GetLogger("cli.man")
			logger.Info().Str("dir", dir).Msg("man pages generated")
			cmd.Printf(MsgManWritten, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "man", MsgFlagManDir)
	return cmd
}
