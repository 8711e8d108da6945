// Package yaml loads tracestrip configuration files with gopkg.in/yaml.v3.
//
// A configuration file overrides individual settings; keys it leaves out
// keep their stored values and unknown keys are ignored. Example:
//
//	clean_unicode: true
//	extra_attributes: [data-testid, data-sourcepos]
//	invisible_chars:
//	  - label: Word Joiner (U+2060)
//	    ranges: U+2060
//	batch_timeout: 1m
package yaml

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/fwojciec/tracestrip"
	"gopkg.in/yaml.v3"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "tracestrip"

// DefaultConfigFile is the configuration file name looked up in the working directory.
const DefaultConfigFile = ".tracestrip.yaml"

// File is the on-disk configuration. Nil fields are unset.
type File struct {
	CleanAttributes  *bool                             `yaml:"clean_attributes"`
	CleanUnicode     *bool                             `yaml:"clean_unicode"`
	TrackLocations   *bool                             `yaml:"track_locations"`
	AutoClean        *bool                             `yaml:"auto_clean"`
	ExtraAttributes  []string                          `yaml:"extra_attributes"`
	InvisibleChars   []tracestrip.InvisibleCharSetting `yaml:"invisible_chars"`
	ReplaceInvisible *bool                             `yaml:"replace_invisible"`
	BatchSize        *int                              `yaml:"batch_size"`
	Concurrency      *int                              `yaml:"concurrency"`
	BatchTimeout     *time.Duration                    `yaml:"batch_timeout"`
	Rate             *float64                          `yaml:"rate"`
}

// LoadFile reads a configuration file.
// Returns ENOTFOUND if the file does not exist.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tracestrip.Errorf(tracestrip.ENOTFOUND, "config file %q not found", path)
		}
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a configuration from r. An empty document yields an empty File.
func Decode(r io.Reader) (*File, error) {
	var cf File
	if err := yaml.NewDecoder(r).Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, tracestrip.Errorf(tracestrip.EINVALID, "invalid config file: %v", err)
	}
	return &cf, nil
}

// Apply overrides s with every field set in the file. Extra attributes are
// merged into the stored ones; invisible characters replace stored entries
// with the same label and append the rest.
func (f *File) Apply(s *tracestrip.Settings) error {
	setBool(&s.CleanAttributes, f.CleanAttributes)
	setBool(&s.CleanUnicode, f.CleanUnicode)
	setBool(&s.TrackLocations, f.TrackLocations)
	setBool(&s.AutoClean, f.AutoClean)
	setBool(&s.ReplaceInvisible, f.ReplaceInvisible)

	if len(f.ExtraAttributes) > 0 {
		s.ExtraAttributes = tracestrip.NormalizeAttributes(append(s.ExtraAttributes, f.ExtraAttributes...))
	}

	for _, setting := range f.InvisibleChars {
		replaced := false
		for i := range s.InvisibleChars {
			if s.InvisibleChars[i].Label == setting.Label {
				s.InvisibleChars[i] = setting
				replaced = true
				break
			}
		}
		if !replaced {
			s.InvisibleChars = append(s.InvisibleChars, setting)
		}
	}

	if f.BatchSize != nil {
		s.BatchSize = *f.BatchSize
	}
	if f.Concurrency != nil {
		s.Concurrency = *f.Concurrency
	}
	if f.BatchTimeout != nil {
		s.BatchTimeout = *f.BatchTimeout
	}
	if f.Rate != nil {
		s.RatePerSecond = *f.Rate
	}

	return s.Validate()
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .tracestrip.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// ConfigDir returns the XDG configuration directory for tracestrip.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
