package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/GuitarSoul/putty-sessions/internal/importer"
	"github.com/GuitarSoul/putty-sessions/internal/sessionfile"
)

// EnvPrefix prefixes environment overrides, e.g. PUTTY_SESSIONS_OUTPUT_DIR
const EnvPrefix = "PUTTY_SESSIONS"

var ErrInvalid = errors.New("invalid configuration")

// Placeholders are the template tokens replaced per host
type Placeholders struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Address string `yaml:"address" mapstructure:"address"`
	User    string `yaml:"user" mapstructure:"user"`
}

// Output controls where session files are written; an empty Ext means the
// extension of the selected format
type Output struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
	Ext string `yaml:"ext" mapstructure:"ext"`
}

// Config holds all configuration options
type Config struct {
	Format        string       `yaml:"format" mapstructure:"format"`
	Username      string       `yaml:"username" mapstructure:"username"`
	Placeholders  Placeholders `yaml:"placeholders" mapstructure:"placeholders"`
	Output        Output       `yaml:"output" mapstructure:"output"`
	ImportCommand []string     `yaml:"import_command" mapstructure:"import_command"`
	Workers       int          `yaml:"workers" mapstructure:"workers"`
}

// FlagKeys maps command-line flag names to config keys
var FlagKeys = map[string]string{
	"name-placeholder":    "placeholders.name",
	"address-placeholder": "placeholders.address",
	"user-placeholder":    "placeholders.user",
	"format":              "format",
	"username":            "username",
	"outdir":              "output.dir",
	"ext":                 "output.ext",
	"workers":             "workers",
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Format: sessionfile.DefaultFormat,
		Placeholders: Placeholders{
			Name:    sessionfile.DefaultNamePlaceholder,
			Address: sessionfile.DefaultAddressPlaceholder,
			User:    sessionfile.DefaultUserPlaceholder,
		},
		Output: Output{
			Dir: "sessions",
		},
		ImportCommand: append([]string{}, importer.DefaultCommand...),
		Workers:       4,
	}
}

// configPath returns the path to the config file
func configPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "putty-sessions", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "putty-sessions", "config.yaml")
}

// Path returns the default config file path
func Path() string {
	return configPath()
}

// Load layers defaults, the config file at path (empty means the default
// path), PUTTY_SESSIONS_* environment variables and any changed flags in fs,
// in increasing order of precedence
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	if path == "" {
		path = configPath()
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if fs != nil {
		for name, key := range FlagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("format", cfg.Format)
	v.SetDefault("username", cfg.Username)
	v.SetDefault("placeholders.user", cfg.Placeholders.User)
	v.SetDefault("placeholders.name", cfg.Placeholders.Name)
	v.SetDefault("placeholders.address", cfg.Placeholders.Address)
	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.ext", cfg.Output.Ext)
	v.SetDefault("import_command", cfg.ImportCommand)
	v.SetDefault("workers", cfg.Workers)
}

// Validate reports settings that would produce broken session files
func (c *Config) Validate() error {
	switch {
	case c.Placeholders.Name == "" || c.Placeholders.Address == "":
		return fmt.Errorf("%w: placeholders must not be empty", ErrInvalid)
	case c.Placeholders.Name == c.Placeholders.Address:
		return fmt.Errorf("%w: name and address placeholders are both %q", ErrInvalid, c.Placeholders.Name)
	case c.Placeholders.User == "":
		return fmt.Errorf("%w: user placeholder must not be empty", ErrInvalid)
	case c.Placeholders.User == c.Placeholders.Name || c.Placeholders.User == c.Placeholders.Address:
		return fmt.Errorf("%w: user placeholder %q reuses another placeholder", ErrInvalid, c.Placeholders.User)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	case len(c.ImportCommand) == 0:
		return fmt.Errorf("%w: import_command must not be empty", ErrInvalid)
	}
	if _, err := sessionfile.LookupFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// SessionFormat returns the configured builtin format
func (c *Config) SessionFormat() (sessionfile.Format, error) {
	return sessionfile.LookupFormat(c.Format)
}

// FileExt returns the output extension, falling back to the format's own
func (c *Config) FileExt() string {
	if c.Output.Ext != "" {
		return c.Output.Ext
	}
	if f, err := c.SessionFormat(); err == nil {
		return f.Ext
	}
	return ""
}

// YAML renders the configuration as a config file
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
