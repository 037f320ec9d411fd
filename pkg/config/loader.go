package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/logging"
)

const (
	appName           = "dockplate"
	envPrefix         = "DOCKPLATE_"
	projectConfigName = "dockplate.toml"
)

// LoadOptions selects the configuration sources
type LoadOptions struct {
	// ConfigFile replaces the project config lookup when set
	ConfigFile string

	// ProjectDir is searched for dockplate.toml. Defaults to the working directory.
	ProjectDir string

	// UserConfigDir overrides $XDG_CONFIG_HOME/dockplate
	UserConfigDir string

	// Overrides are applied last, keyed by dotted path (e.g. "testing.concurrency")
	Overrides map[string]interface{}
}

// Load builds the configuration from every layer
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config
	userDir := opts.UserConfigDir
	if userDir == "" {
		userDir = filepath.Join(xdg.ConfigHome, appName)
	}
	if err := loadFileIfExists(k, filepath.Join(userDir, "config.toml")); err != nil {
		return nil, err
	}

	// 3. Project config, or the explicit file
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", opts.ConfigFile)
		}
		if err := loadFileIfExists(k, opts.ConfigFile); err != nil {
			return nil, err
		}
	} else {
		projectDir := opts.ProjectDir
		if projectDir == "" {
			projectDir = "."
		}
		if err := loadFileIfExists(k, filepath.Join(projectDir, projectConfigName)); err != nil {
			return nil, err
		}
	}

	// 4. Environment
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 5. Command-line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg, err := decode(k)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("templatesDir", cfg.TemplatesDir).
		Int("concurrency", cfg.Testing.Concurrency).
		Msg("configuration loaded")

	return cfg, nil
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
	}
	return nil
}

func decode(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if cfg.Testing.Concurrency < 1 {
		cfg.Testing.Concurrency = 1
	}
	return &cfg, nil
}
