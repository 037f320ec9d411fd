package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dockplate/internal/version"
	"github.com/arthur-debert/dockplate/pkg/config"
	"github.com/arthur-debert/dockplate/pkg/display"
	"github.com/arthur-debert/dockplate/pkg/engine"
	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/filesystem"
	"github.com/arthur-debert/dockplate/pkg/harness"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// app carries the global flags and collaborators shared by every command
type app struct {
	verbosity    int
	templatesDir string
	configFile   string
	noColor      bool

	fs     types.FS
	runner harness.Runner
	stdout io.Writer
	stderr io.Writer

	// configOpts is the base for config.Load; flags fill ConfigFile
	configOpts config.LoadOptions
	cfg        *config.Config

	// setupLogging is replaced in tests to keep the global logger off disk
	setupLogging func(verbosity int)
}

func newApp() *app {
	return &app{
		fs:           filesystem.NewOS(),
		runner:       harness.NewExecRunner(),
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		setupLogging: logging.SetupLogger,
	}
}

// Execute runs the CLI and returns the process exit code. Failures are
// printed as coded errors on stderr.
func Execute() int {
	a := newApp()
	rootCmd := a.rootCmd()
	if err := rootCmd.Execute(); err != nil {
		a.renderer(a.stderr, display.FormatAuto).Error(err)
		return 1
	}
	return 0
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dockplate",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.setupLogging(a.verbosity)
			logging.LogCommand(cmd.Name(), args)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.templatesDir, "templates-dir", "", MsgFlagTemplatesDir)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.AddGroup(&cobra.Group{ID: "templates", Title: "TEMPLATES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "testing", Title: "TESTING:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(a.newListCmd())
	rootCmd.AddCommand(a.newShowCmd())
	rootCmd.AddCommand(a.newDescribeCmd())
	rootCmd.AddCommand(a.newValidateCmd())
	rootCmd.AddCommand(a.newGenerateCmd())
	rootCmd.AddCommand(a.newWatchCmd())
	rootCmd.AddCommand(a.newTagsCmd())
	rootCmd.AddCommand(a.newTestCmd())
	rootCmd.AddCommand(a.newBatchCmd())
	rootCmd.AddCommand(a.newGenConfigCmd())
	rootCmd.AddCommand(a.newVersionCmd())
	rootCmd.AddCommand(a.newCompletionCmd())
	rootCmd.AddCommand(a.newManCmd())

	if err := a.installTopics(rootCmd); err != nil {
		log.Warn().Err(err).Msg("help topics unavailable")
	}

	return rootCmd
}

func (a *app) loadConfig() error {
	opts := a.configOpts
	opts.ConfigFile = a.configFile
	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// root returns the template store directory: the flag, else the config
func (a *app) root() string {
	if a.templatesDir != "" {
		return a.templatesDir
	}
	return a.cfg.TemplatesDir
}

func (a *app) engineOptions(strict bool) engine.Options {
	opts := engine.DefaultOptions()
	opts.FileMode = a.cfg.Output.FileMode
	opts.DirMode = a.cfg.Output.DirMode
	opts.StrictRequired = strict || a.cfg.Validation.StrictRequired
	return opts
}

func (a *app) openEngine(strict bool) (*engine.Engine, error) {
	return engine.Open(a.fs, a.root(), a.engineOptions(strict))
}

func (a *app) harnessOptions() harness.Options {
	t := a.cfg.Testing
	return harness.Options{
		DockerBinary:   t.DockerBinary,
		BuildTimeout:   t.BuildTimeout,
		CommandTimeout: t.CommandTimeout,
		CleanupImages:  t.CleanupImages,
		Concurrency:    t.Concurrency,
	}
}

// renderer creates a renderer for out, honoring --no-color
func (a *app) renderer(out io.Writer, format display.Format) *display.Renderer {
	if a.noColor && format == display.FormatAuto {
		format = display.FormatText
	}
	return display.NewRenderer(out, format)
}

func (a *app) output(cmd *cobra.Command, format string) (*display.Renderer, error) {
	f, err := display.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return a.renderer(cmd.OutOrStdout(), f), nil
}
