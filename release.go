package tracestrip

import (
	"context"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Release describes a published version of the tool.
type Release struct {
	Version   string    `json:"version"`
	URL       string    `json:"url"`
	Published time.Time `json:"published"`
}

// UpdateChecker looks up the latest published release.
type UpdateChecker interface {
	// LatestRelease returns the newest release.
	// Returns ENOTFOUND if no release has been published.
	LatestRelease(ctx context.Context) (*Release, error)
}

// CanonicalVersion returns v in "vMAJOR.MINOR.PATCH" form, accepting versions
// with or without the leading "v". Returns "" if v is not a semantic version.
func CanonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// IsNewer reports whether latest is a higher semantic version than current.
// A current version that does not parse (such as a development build) is
// never considered outdated.
func IsNewer(current, latest string) bool {
	c, l := CanonicalVersion(current), CanonicalVersion(latest)
	if c == "" || l == "" {
		return false
	}
	return semver.Compare(l, c) > 0
}
