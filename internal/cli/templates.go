package cli

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dockplate/pkg/display"
	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/tags"
	"github.com/arthur-debert/dockplate/pkg/types"
)

func (a *app) newListCmd() *cobra.Command {
	var category, format string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		GroupID: "templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(category)
			if err != nil {
				return err
			}
			r, err := a.output(cmd, format)
			if err != nil {
				return err
			}
			e, err := a.openEngine(false)
			if err != nil {
				return err
			}
			return r.Templates(e.List(cat))
		},
	}

	cmd.Flags().StringVar(&category, "category", "", MsgFlagCategory)
	cmd.Flags().StringVar(&format, "format", "table", MsgFlagFormat)
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:               "show <template>",
		Short:             MsgShowShort,
		GroupID:           "templates",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.templateCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.output(cmd, format)
			if err != nil {
				return err
			}
			e, err := a.openEngine(false)
			if err != nil {
				return err
			}
			rt, err := e.Resolve(args[0])
			if err != nil {
				return err
			}
			return r.YAML(rt)
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}

func (a *app) newDescribeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:               "describe <template>",
		Short:             MsgDescribeShort,
		GroupID:           "templates",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.templateCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.output(cmd, format)
			if err != nil {
				return err
			}
			e, err := a.openEngine(false)
			if err != nil {
				return err
			}
			rt, err := e.Resolve(args[0])
			if err != nil {
				return err
			}
			if r.Format() == display.FormatJSON {
				return r.JSON(rt)
			}
			return r.Markdown(display.DescribeMarkdown(rt))
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}

func (a *app) newValidateCmd() *cobra.Command {
	var category, format string

	cmd := &cobra.Command{
		Use:               "validate [templates...]",
		Short:             MsgValidateShort,
		Long:              MsgValidateShort + ". With no arguments every template in the store is checked.",
		GroupID:           "templates",
		ValidArgsFunction: a.templateCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.validate")
			r, err := a.output(cmd, format)
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

			invalid := 0
			for _, p := range paths {
				v := e.ValidateTemplate(p)
				if !v.Valid {
					invalid++
				}
				if err := r.Validation(v); err != nil {
					return err
				}
			}
			logger.Info().Int("templates", len(paths)).Int("invalid", invalid).Msg("validation finished")

			if invalid > 0 {
				return errors.Newf(errors.ErrValidation, MsgErrTemplatesInvalid, invalid)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", MsgFlagCategory)
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}

func (a *app) newTagsCmd() *cobra.Command {
	var (
		format   string
		registry string
		latest   bool
	)

	cmd := &cobra.Command{
		Use:               "tags <template>",
		Short:             MsgTagsShort,
		GroupID:           "templates",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.templateCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.output(cmd, format)
			if err != nil {
				return err
			}
			e, err := a.openEngine(false)
			if err != nil {
				return err
			}
			rt, err := e.Resolve(args[0])
			if err != nil {
				return err
			}

			opts := tags.Options{Registry: a.cfg.Registry.Host, Latest: a.cfg.Registry.Latest}
			if registry != "" {
				opts.Registry = registry
			}
			if cmd.Flags().Changed("latest") {
				opts.Latest = latest
			}
			refs, err := tags.Plan(rt, opts)
			if err != nil {
				return err
			}
			return r.Tags(tags.Repository(rt, opts.Registry), refs)
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	cmd.Flags().StringVar(&registry, "registry", "", MsgFlagRegistry)
	cmd.Flags().BoolVar(&latest, "latest", false, MsgFlagLatest)
	return cmd
}

// selectTemplates returns args when given, else every valid template,
// optionally narrowed to one category
func (a *app) selectTemplates(args []string, category string, all func() []string, list func(types.Category) []types.Summary) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if category == "" {
		return all(), nil
	}
	cat, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, s := range list(cat) {
		paths = append(paths, s.Path)
	}
	return paths, nil
}

func parseCategory(s string) (types.Category, error) {
	if s == "" {
		return "", nil
	}
	c := types.Category(s)
	if !c.Valid() {
		return "", errors.Newf(errors.ErrInvalidInput, MsgErrUnknownCategory, s).
			WithDetail("category", s)
	}
	return c, nil
}

// templateCompletion completes template paths from the store
func (a *app) templateCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if a.cfg == nil {
		if err := a.loadConfig(); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}
	e, err := a.openEngine(false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return e.Snapshot().Paths(), cobra.ShellCompDirectiveNoFileComp
}
