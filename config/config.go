// Package config loads and validates the batch configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dixieflatline76/Cornermark/pkg/analyzer"
	"github.com/zalando/go-keyring"
)

// Config holds the Cloudinary credentials and the batch settings.
type Config struct {
	Cloudinary CloudinaryConfig `toml:"cloudinary"`
	Script     ScriptConfig     `toml:"script"`

	path    string   // absolute path of the file this was loaded from
	unknown []string // keys present in the file but not understood
}

// CloudinaryConfig holds the account the images are uploaded to.
type CloudinaryConfig struct {
	CloudName string `toml:"cloud_name"`
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`
}

// ScriptConfig holds the folders and the watermark transformations.
type ScriptConfig struct {
	InputFolder                  string `toml:"input_folder"`
	OutputFolder                 string `toml:"output_folder"`
	BlackWatermarkTransformation string `toml:"black_watermark_transformation"`
	WhiteWatermarkTransformation string `toml:"white_watermark_transformation"`
	Workers                      int    `toml:"workers"`
	Strategy                     string `toml:"strategy"`
}

// MissingOptionError reports a required section or option absent from the configuration file.
type MissingOptionError struct {
	Section string
	Option  string // empty when the whole section is missing
}

func (e *MissingOptionError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("%s section [%s] is missing from configuration file. Please look at README.md", e.Section, e.Section)
	}
	return fmt.Sprintf("%s option is missing from configuration file. Please look at README.md", e.Option)
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	skipSecret bool
}

// WithoutSecret leaves a missing api_secret empty instead of looking it up in
// the keyring. Used by runs that never contact Cloudinary.
func WithoutSecret() LoadOption {
	return func(o *loadOptions) {
		o.skipSecret = true
	}
}

// Load reads, validates and resolves the configuration file at path.
// Relative folders are resolved against the directory of the file. A missing
// api_secret is looked up in the OS keyring under the cloud name.
func Load(path string, opts ...LoadOption) (*Config, error) {
	var lo loadOptions
	for _, opt := range opts {
		opt(&lo)
	}


	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving configuration path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file was not found at the path: %s", path)
		}
		return nil, fmt.Errorf("checking configuration file: %w", err)
	}

	cfg := &Config{path: absPath}
	md, err := toml.DecodeFile(absPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing configuration file %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.unknown = append(cfg.unknown, key.String())
	}

	if err := cfg.checkRequired(md); err != nil {
		return nil, err
	}

	if cfg.Cloudinary.APISecret == "" && !lo.skipSecret {
		secret, err := LookupSecret(cfg.Cloudinary.CloudName)
		if err != nil {
			return nil, err
		}
		cfg.Cloudinary.APISecret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(absPath)
	cfg.Script.InputFolder = resolve(dir, cfg.Script.InputFolder)
	cfg.Script.OutputFolder = resolve(dir, cfg.Script.OutputFolder)
	if cfg.Script.Workers == 0 {
		cfg.Script.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

// checkRequired walks the required options in file order and reports the first missing one.
func (c *Config) checkRequired(md toml.MetaData) error {
	required := []struct {
		section string
		options []string
		values  []string
	}{
		{
			section: SectionCloudinary,
			options: []string{OptCloudName, OptAPIKey},
			values:  []string{c.Cloudinary.CloudName, c.Cloudinary.APIKey},
		},
		{
			section: SectionScript,
			options: []string{OptInputFolder, OptOutputFolder, OptBlackWatermarkTransformation, OptWhiteWatermarkTransformation},
			values: []string{c.Script.InputFolder, c.Script.OutputFolder,
				c.Script.BlackWatermarkTransformation, c.Script.WhiteWatermarkTransformation},
		},
	}

	for _, r := range required {
		if !md.IsDefined(r.section) {
			return &MissingOptionError{Section: r.section}
		}
		for i, opt := range r.options {
			if !md.IsDefined(r.section, opt) || strings.TrimSpace(r.values[i]) == "" {
				return &MissingOptionError{Section: r.section, Option: opt}
			}
		}
	}
	return nil
}

// Validate checks the optional settings.
func (c *Config) Validate() error {
	if c.Script.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Script.Workers)
	}
	if _, err := analyzer.ParseStrategy(c.Script.Strategy); err != nil {
		return fmt.Errorf("invalid strategy: %w", err)
	}
	return nil
}

// Path returns the absolute path the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// UnknownKeys returns the keys of the file that were ignored.
func (c *Config) UnknownKeys() []string {
	return c.unknown
}

// Transformation returns the configured transformation for a watermark color.
func (c *Config) Transformation(w analyzer.WatermarkColor) string {
	if w == analyzer.White {
		return c.Script.WhiteWatermarkTransformation
	}
	return c.Script.BlackWatermarkTransformation
}

// LookupSecret returns the API secret stored in the OS keyring for cloudName.
func LookupSecret(cloudName string) (string, error) {
	secret, err := keyring.Get(KeyringService, cloudName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", &MissingOptionError{Section: SectionCloudinary, Option: OptAPISecret}
		}
		return "", fmt.Errorf("failed to retrieve API secret from keyring: %w", err)
	}
	return secret, nil
}

// StoreSecret saves the API secret for cloudName in the OS keyring.
func StoreSecret(cloudName, secret string) error {
	if cloudName == "" || secret == "" {
		return fmt.Errorf("cloud name and secret are required")
	}
	if err := keyring.Set(KeyringService, cloudName, secret); err != nil {
		return fmt.Errorf("failed to save API secret to keyring: %w", err)
	}
	return nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// ReadCloudName returns the cloud name from the configuration file without
// validating the rest of it.
func ReadCloudName(path string) (string, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return "", fmt.Errorf("parsing configuration file %s: %w", path, err)
	}
	if strings.TrimSpace(cfg.Cloudinary.CloudName) == "" {
		return "", &MissingOptionError{Section: SectionCloudinary, Option: OptCloudName}
	}
	return cfg.Cloudinary.CloudName, nil
}
