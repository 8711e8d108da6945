package tracestrip

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"
)

// InvisibleCharSetting is the stored form of an invisible-character catalog
// entry. Ranges uses the notation accepted by ParseCodeRanges.
type InvisibleCharSetting struct {
	Label  string `json:"label" yaml:"label"`
	Ranges string `json:"ranges" yaml:"ranges"`
}

// Settings holds the persistent options from which the orchestration layer
// assembles a Config and CleanOptions.
type Settings struct {
	CleanAttributes bool `json:"cleanAttributes"`
	CleanUnicode    bool `json:"cleanUnicode"`
	TrackLocations  bool `json:"trackLocations"`

	// AutoClean cleans documents as they are created or updated.
	AutoClean bool `json:"autoClean"`

	ExtraAttributes  []string               `json:"extraAttributes"`
	InvisibleChars   []InvisibleCharSetting `json:"invisibleChars"`
	ReplaceInvisible bool                   `json:"replaceInvisible"`

	BatchSize     int           `json:"batchSize"`
	Concurrency   int           `json:"concurrency"`
	BatchTimeout  time.Duration `json:"batchTimeout"`
	RatePerSecond float64       `json:"ratePerSecond"` // 0 disables pacing
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() *Settings {
	return &Settings{
		CleanAttributes: true,
		CleanUnicode:    true,
		AutoClean:       true,
		BatchSize:       50,
		Concurrency:     4,
		BatchTimeout:    30 * time.Second,
	}
}

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() *Settings {
	other := *s
	other.ExtraAttributes = slices.Clone(s.ExtraAttributes)
	other.InvisibleChars = slices.Clone(s.InvisibleChars)
	return &other
}

// Validate returns an error if the settings contain invalid fields.
func (s *Settings) Validate() error {
	if s.BatchSize <= 0 {
		return Errorf(EINVALID, "batch size must be positive")
	}
	if s.Concurrency <= 0 {
		return Errorf(EINVALID, "concurrency must be positive")
	}
	if s.BatchTimeout <= 0 {
		return Errorf(EINVALID, "batch timeout must be positive")
	}
	if s.RatePerSecond < 0 {
		return Errorf(EINVALID, "rate must not be negative")
	}
	_, err := s.invisibleChars()
	return err
}

// Options returns the cleaning options selected by the settings.
func (s *Settings) Options() CleanOptions {
	return CleanOptions{
		CleanAttributes: s.CleanAttributes,
		CleanUnicode:    s.CleanUnicode,
		TrackLocations:  s.TrackLocations,
	}
}

// Config assembles the engine configuration: the default catalogs extended
// (or, for invisible characters, optionally replaced) by the stored ones.
func (s *Settings) Config() (*Config, error) {
	chars, err := s.invisibleChars()
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig().WithAttributes(s.ExtraAttributes...)
	if len(chars) > 0 || s.ReplaceInvisible {
		cfg = cfg.WithInvisibleChars(chars, s.ReplaceInvisible)
	}
	return cfg, nil
}

func (s *Settings) invisibleChars() ([]InvisibleChar, error) {
	chars := make([]InvisibleChar, 0, len(s.InvisibleChars))
	for _, setting := range s.InvisibleChars {
		ranges, err := ParseCodeRanges(setting.Ranges)
		if err != nil {
			return nil, err
		}
		ch := InvisibleChar{Label: setting.Label, Ranges: ranges}
		if err := ch.Validate(); err != nil {
			return nil, err
		}
		chars = append(chars, ch)
	}
	return chars, nil
}

// SettingKeys lists the keys accepted by Set, in display order.
func SettingKeys() []string {
	return []string{
		"clean-attributes",
		"clean-unicode",
		"track-locations",
		"auto-clean",
		"extra-attributes",
		"replace-invisible",
		"batch-size",
		"concurrency",
		"batch-timeout",
		"rate",
	}
}

// Get returns the textual value of a setting.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "clean-attributes":
		return strconv.FormatBool(s.CleanAttributes), nil
	case "clean-unicode":
		return strconv.FormatBool(s.CleanUnicode), nil
	case "track-locations":
		return strconv.FormatBool(s.TrackLocations), nil
	case "auto-clean":
		return strconv.FormatBool(s.AutoClean), nil
	case "extra-attributes":
		return strings.Join(s.ExtraAttributes, ","), nil
	case "replace-invisible":
		return strconv.FormatBool(s.ReplaceInvisible), nil
	case "batch-size":
		return strconv.Itoa(s.BatchSize), nil
	case "concurrency":
		return strconv.Itoa(s.Concurrency), nil
	case "batch-timeout":
		return s.BatchTimeout.String(), nil
	case "rate":
		return strconv.FormatFloat(s.RatePerSecond, 'g', -1, 64), nil
	}
	return "", Errorf(EINVALID, "unknown setting %q", key)
}

// Set parses value and assigns it to the setting named key.
func (s *Settings) Set(key, value string) error {
	var err error
	switch key {
	case "clean-attributes":
		s.CleanAttributes, err = strconv.ParseBool(value)
	case "clean-unicode":
		s.CleanUnicode, err = strconv.ParseBool(value)
	case "track-locations":
		s.TrackLocations, err = strconv.ParseBool(value)
	case "auto-clean":
		s.AutoClean, err = strconv.ParseBool(value)
	case "extra-attributes":
		s.ExtraAttributes = NormalizeAttributes(strings.Split(value, ","))
	case "replace-invisible":
		s.ReplaceInvisible, err = strconv.ParseBool(value)
	case "batch-size":
		s.BatchSize, err = strconv.Atoi(value)
	case "concurrency":
		s.Concurrency, err = strconv.Atoi(value)
	case "batch-timeout":
		s.BatchTimeout, err = time.ParseDuration(value)
	case "rate":
		s.RatePerSecond, err = strconv.ParseFloat(value, 64)
	default:
		return Errorf(EINVALID, "unknown setting %q", key)
	}
	if err != nil {
		return Errorf(EINVALID, "invalid value %q for %s", value, key)
	}
	return nil
}

// SettingsService represents persistent option storage.
type SettingsService interface {
	// FindSettings returns the stored settings, or DefaultSettings if none are stored.
	FindSettings(ctx context.Context) (*Settings, error)

	// UpdateSettings validates and stores settings.
	UpdateSettings(ctx context.Context, settings *Settings) error
}
