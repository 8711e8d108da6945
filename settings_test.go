package tracestrip_test

import (
	"testing"
	"time"

	"github.com/fwojciec/tracestrip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, tracestrip.DefaultSettings().Validate())

	tests := map[string]func(s *tracestrip.Settings){
		"zero batch size":       func(s *tracestrip.Settings) { s.BatchSize = 0 },
		"zero concurrency":      func(s *tracestrip.Settings) { s.Concurrency = 0 },
		"zero batch timeout":    func(s *tracestrip.Settings) { s.BatchTimeout = 0 },
		"negative rate":         func(s *tracestrip.Settings) { s.RatePerSecond = -1 },
		"unparseable ranges":    func(s *tracestrip.Settings) { s.InvisibleChars = []tracestrip.InvisibleCharSetting{{Label: "X", Ranges: "nope"}} },
		"printable ascii range": func(s *tracestrip.Settings) { s.InvisibleChars = []tracestrip.InvisibleCharSetting{{Label: "X", Ranges: "U+0041"}} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := tracestrip.DefaultSettings()
			mutate(s)

			err := s.Validate()
			require.Error(t, err)
			assert.Equal(t, tracestrip.EINVALID, tracestrip.ErrorCode(err))
		})
	}
}

func TestSettings_Config(t *testing.T) {
	t.Parallel()

	t.Run("defaults produce the default config", func(t *testing.T) {
		t.Parallel()

		cfg, err := tracestrip.DefaultSettings().Config()

		require.NoError(t, err)
		assert.Equal(t, tracestrip.DefaultAttributes(), cfg.Attributes)
		assert.Equal(t, tracestrip.DefaultInvisibleChars(), cfg.InvisibleChars)
	})

	t.Run("extends catalogs", func(t *testing.T) {
		t.Parallel()

		s := tracestrip.DefaultSettings()
		s.ExtraAttributes = []string{"data-testid"}
		s.InvisibleChars = []tracestrip.InvisibleCharSetting{{Label: "Hangul Filler", Ranges: "U+3164"}}

		cfg, err := s.Config()

		require.NoError(t, err)
		assert.Contains(t, cfg.Attributes, "data-testid")
		assert.Len(t, cfg.InvisibleChars, len(tracestrip.DefaultInvisibleChars())+1)
	})

	t.Run("replace with no entries empties the unicode catalog", func(t *testing.T) {
		t.Parallel()

		s := tracestrip.DefaultSettings()
		s.ReplaceInvisible = true

		cfg, err := s.Config()

		require.NoError(t, err)
		assert.False(t, cfg.HasInvisibleChars())
	})
}

func TestSettings_Options(t *testing.T) {
	t.Parallel()

	s := tracestrip.DefaultSettings()
	s.CleanUnicode = false
	s.TrackLocations = true

	assert.Equal(t, tracestrip.CleanOptions{CleanAttributes: true, TrackLocations: true}, s.Options())
}

func TestSettings_GetSet(t *testing.T) {
	t.Parallel()

	t.Run("every key round-trips", func(t *testing.T) {
		t.Parallel()

		values := map[string]string{
			"clean-attributes":  "false",
			"clean-unicode":     "false",
			"track-locations":   "true",
			"auto-clean":        "false",
			"extra-attributes":  "data-a,data-b",
			"replace-invisible": "true",
			"batch-size":        "10",
			"concurrency":       "2",
			"batch-timeout":     "1m0s",
			"rate":              "2.5",
		}
		s := tracestrip.DefaultSettings()
		for _, key := range tracestrip.SettingKeys() {
			value, ok := values[key]
			require.True(t, ok, key)
			require.NoError(t, s.Set(key, value), key)

			got, err := s.Get(key)
			require.NoError(t, err, key)
			assert.Equal(t, value, got, key)
		}
		assert.Equal(t, time.Minute, s.BatchTimeout)
	})

	t.Run("normalizes extra attributes", func(t *testing.T) {
		t.Parallel()

		s := tracestrip.DefaultSettings()
		require.NoError(t, s.Set("extra-attributes", " Data-A, ,data-a"))

		assert.Equal(t, []string{"data-a"}, s.ExtraAttributes)
	})

	t.Run("rejects unknown key", func(t *testing.T) {
		t.Parallel()

		s := tracestrip.DefaultSettings()

		assert.Equal(t, tracestrip.EINVALID, tracestrip.ErrorCode(s.Set("colour", "red")))
		_, err := s.Get("colour")
		assert.Equal(t, tracestrip.EINVALID, tracestrip.ErrorCode(err))
	})

	t.Run("rejects malformed value", func(t *testing.T) {
		t.Parallel()

		s := tracestrip.DefaultSettings()

		err := s.Set("batch-size", "many")
		require.Error(t, err)
		assert.Equal(t, tracestrip.EINVALID, tracestrip.ErrorCode(err))
	})
}

func TestSettings_Clone(t *testing.T) {
	t.Parallel()

	s := tracestrip.DefaultSettings()
	s.ExtraAttributes = []string{"data-a"}
	s.InvisibleChars = []tracestrip.InvisibleCharSetting{{Label: "X", Ranges: "U+3164"}}

	other := s.Clone()
	other.ExtraAttributes[0] = "data-b"
	other.InvisibleChars[0].Label = "Y"
	other.BatchSize = 1

	assert.Equal(t, []string{"data-a"}, s.ExtraAttributes)
	assert.Equal(t, "X", s.InvisibleChars[0].Label)
	assert.Equal(t, 50, s.BatchSize)
}
