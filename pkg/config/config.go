package config

import (
	"os"
	"time"
)

// Config is the fully resolved dockplate configuration
type Config struct {
	TemplatesDir string           `koanf:"templates_dir"`
	Output       OutputConfig     `koanf:"output"`
	Validation   ValidationConfig `koanf:"validation"`
	Testing      TestingConfig    `koanf:"testing"`
	Registry     RegistryConfig   `koanf:"registry"`
}

// OutputConfig controls how generated files are written
type OutputConfig struct {
	FileMode os.FileMode `koanf:"file_mode"`
	DirMode  os.FileMode `koanf:"dir_mode"`
}

// ValidationConfig controls parameter validation
type ValidationConfig struct {
	StrictRequired bool `koanf:"strict_required"`
}

// TestingConfig controls the template test harness
type TestingConfig struct {
	DockerBinary   string        `koanf:"docker_binary"`
	BuildTimeout   time.Duration `koanf:"build_timeout"`
	CommandTimeout time.Duration `koanf:"command_timeout"`
	Concurrency    int           `koanf:"concurrency"`
	CleanupImages  bool          `koanf:"cleanup_images"`
}

// RegistryConfig controls image tag planning
type RegistryConfig struct {
	Host   string `koanf:"host"`
	Latest bool   `koanf:"latest"`
}

// Default returns the configuration encoded in the embedded defaults
func Default() *Config {
	return &Config{
		TemplatesDir: "templates",
		Output: OutputConfig{
			FileMode: 0644,
			DirMode:  0755,
		},
		Testing: TestingConfig{
			DockerBinary:   "docker",
			BuildTimeout:   5 * time.Minute,
			CommandTimeout: time.Minute,
			Concurrency:    4,
			CleanupImages:  true,
		},
		Registry: RegistryConfig{
			Host: "docker.io",
		},
	}
}
