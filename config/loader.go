package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/epsilon-records/audiokit/validation"
)

// FileSystem abstracts file lookups so loader tests can inject fixtures.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds explicit paths that skip the search.
type LoaderConfig struct {
	// ConfigFile is an explicit audiokit.yml path.
	ConfigFile string
	// EnvFile is an explicit .env path.
	EnvFile string
}

// Loader resolves and loads configuration files.
type Loader struct {
	FileSystem FileSystem
}

// NewLoader creates a loader backed by the real filesystem.
func NewLoader() *Loader {
	return &Loader{FileSystem: RealFileSystem{}}
}

// Load resolves files, reads them through viper, applies AUDIOKIT_* env
// overrides, then defaults and validation. A missing config file is not an
// error; defaults apply.
func (l *Loader) Load(opts LoaderConfig) (*Config, error) {
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = l.findConfigFile()
	}
	envFile := opts.EnvFile
	if envFile == "" && l.FileSystem.Exists(".env") {
		envFile = ".env"
	}

	if envFile != "" {
		if err := l.FileSystem.LoadEnv(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("AUDIOKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile searches standard locations for audiokit.yml.
func (l *Loader) findConfigFile() string {
	paths := []string{
		"./audiokit.yml",
		"./audiokit.yaml",
		"./config/audiokit.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "audiokit", "audiokit.yml"),
		)
	}
	for _, p := range paths {
		if l.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// Token returns the remote auth token from the environment. The second
// return is false when the token is absent, which disables remote execution.
func Token() (string, bool) {
	tok := os.Getenv(TokenEnvVar)
	return tok, tok != ""
}
