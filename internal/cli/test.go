package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/harness"
)

func (a *app) newTestCmd() *cobra.Command {
	var (
		pf     paramFlags
		report string
		format string
	)

	cmd := &cobra.Command{
		Use:               "test <template>",
		Short:             MsgTestShort,
		Long:              MsgTestLong,
		GroupID:           "testing",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.templateCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.output(cmd, format)
			if err != nil {
				return err
			}
			supplied, err := pf.load(a)
			if err != nil {
				return err
			}
			e, err := a.openEngine(false)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			h := harness.New(e, a.fs, a.runner, a.harnessOptions())
			suite := h.Run(ctx, args[0], supplied)
			if err := r.Suite(suite); err != nil {
				return err
			}

			if report != "" {
				if err := a.fs.WriteFile(report, []byte(suite.Markdown()), a.cfg.Output.FileMode); err != nil {
					return errors.Wrapf(err, errors.ErrFileWrite, "failed to write report %s", report).
						WithDetail("file", report)
				}
				cmd.Printf(MsgReportWritten, report)
			}

			if !suite.Success() {
				return errors.Newf(errors.ErrBuild, MsgErrTestsFailed, 1).
					WithDetail("template", args[0])
			}
			return nil
		},
	}

	pf.register(cmd, true)
	cmd.Flags().StringVar(&report, "report", "", MsgFlagReport)
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}

func (a *app) newBatchCmd() *cobra.Command {
	var (
		pf       paramFlags
		category string
		format   string
	)

	cmd := &cobra.Command{
		Use:               "batch [templates...]",
		Short:             MsgBatchShort,
		Long:              MsgBatchShort + ". With no arguments every template in the store is tested; --params applies to each of them.",
		GroupID:           "testing",
		ValidArgsFunction: a.templateCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.output(cmd, format)
			if err != nil {
				return err
			}
			supplied, err := pf.load(a)
			if err != nil {
				return err
			}
			e, err := a.openEngine(false)
			if err != nil {
				return err
			}
			paths, err := a.selectTemplates(args, category, e.Snapshot().Paths, e.List)
			if err != nil {
				return err
			}

			perTemplate := make(map[string]map[string]interface{}, len(paths))
			for _, p := range paths {
				perTemplate[p] = supplied
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			h := harness.New(e, a.fs, a.runner, a.harnessOptions())
			result := h.RunBatch(ctx, paths, perTemplate)
			if err := r.Batch(result); err != nil {
				return err
			}
			if !result.Success() {
				return errors.Newf(errors.ErrBuild, MsgErrTestsFailed, result.Failed)
			}
			return nil
		},
	}

	pf.register(cmd, false)
	cmd.Flags().StringVar(&category, "category", "", MsgFlagCategory)
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}
