package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dockplate/pkg/display"
	"github.com/arthur-debert/dockplate/pkg/engine"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/params"
	"github.com/arthur-debert/dockplate/pkg/watch"
)

// paramFlags are the parameter inputs shared by generate, watch and test
type paramFlags struct {
	file        string
	assignments []string
}

func (p *paramFlags) register(cmd *cobra.Command, withAssignments bool) {
	cmd.Flags().StringVar(&p.file, "params", "", MsgFlagParams)
	if withAssignments {
		cmd.Flags().StringArrayVar(&p.assignments, "param", nil, MsgFlagParam)
	}
}

// load merges the parameter file with the assignments, assignments last
func (p *paramFlags) load(a *app) (map[string]interface{}, error) {
	var fromFile map[string]interface{}
	if p.file != "" {
		var err error
		fromFile, err = params.LoadFile(a.fs, p.file)
		if err != nil {
			return nil, err
		}
	}
	fromFlags, err := params.ParseAssignments(p.assignments)
	if err != nil {
		return nil, err
	}
	return params.Merge(fromFile, fromFlags), nil
}

func (a *app) newGenerateCmd() *cobra.Command {
	var (
		pf     paramFlags
		dryRun bool
		strict bool
		format string
	)

	cmd := &cobra.Command{
		Use:               "generate <template> [output]",
		Short:             MsgGenerateShort,
		Long:              MsgGenerateLong,
		Example:           MsgGenerateExample,
		GroupID:           "templates",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: a.templateCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.generate")
			r, err := a.output(cmd, format)
			if err != nil {
				return err
			}
			supplied, err := pf.load(a)
			if err != nil {
				return err
			}
			e, err := a.openEngine(strict)
			if err != nil {
				return err
			}

			req := engine.GenerateRequest{
				TemplatePath: args[0],
				Params:       supplied,
				DryRun:       dryRun,
				Strict:       strict,
			}
			if len(args) > 1 {
				req.OutputDir = args[1]
			}

			report, err := e.Generate(req)
			if err != nil {
				return err
			}
			logger.Info().
				Str("template", report.Template).
				Int("files", len(report.Files)).
				Bool("dryRun", report.DryRun).
				Msg("generation finished")

			if err := r.Generation(report); err != nil {
				return err
			}
			if dryRun && r.Format() != display.FormatJSON {
				r.Files(report)
				_, _ = cmd.OutOrStdout().Write([]byte(MsgDryRunNotice + "\n"))
			}
			return nil
		},
	}

	pf.register(cmd, true)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&strict, "strict", false, MsgFlagStrict)
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}

func (a *app) newWatchCmd() *cobra.Command {
	var (
		pf     paramFlags
		strict bool
	)

	cmd := &cobra.Command{
		Use:               "watch <template> <output>",
		Short:             MsgWatchShort,
		Long:              MsgWatchLong,
		GroupID:           "templates",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: a.templateCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			supplied, err := pf.load(a)
			if err != nil {
				return err
			}

			out := a.renderer(cmd.OutOrStdout(), display.FormatAuto)
			errOut := a.renderer(cmd.ErrOrStderr(), display.FormatAuto)
			req := engine.GenerateRequest{
				TemplatePath: args[0],
				OutputDir:    args[1],
				Params:       supplied,
				Strict:       strict,
			}

			w := watch.New(a.fs, a.root(), a.engineOptions(strict), req, func(ev watch.Event) {
				if ev.Err != nil {
					errOut.Error(ev.Err)
					return
				}
				if ev.Trigger == "" {
					_ = out.Generation(ev.Report)
					return
				}
				cmd.Printf(MsgWatchRegenerated, ev.Report.Template, ev.Trigger)
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.Printf(MsgWatchStarted, args[0])
			return w.Run(ctx)
		},
	}

	pf.register(cmd, true)
	cmd.Flags().BoolVar(&strict, "strict", false, MsgFlagStrict)
	return cmd
}
