// Package http provides the update checker, which reads the project's
// release feed over HTTP.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/tracestrip"
	"golang.org/x/mod/semver"
)

// DefaultFeedURL is the Atom feed of published releases.
const DefaultFeedURL = "https://github.com/fwojciec/tracestrip/releases.atom"

// DefaultTimeout is the default timeout for a single feed request.
const DefaultTimeout = 10 * time.Second

// MaxFeedSize caps the bytes read from a feed response.
const MaxFeedSize = 2 << 20

// Ensure UpdateChecker implements tracestrip.UpdateChecker at compile time.
var _ tracestrip.UpdateChecker = (*UpdateChecker)(nil)

// UpdateChecker finds the newest release in an Atom release feed.
type UpdateChecker struct {
	client      *http.Client
	feedURL     string
	timeout     time.Duration
	retryDelays []time.Duration
}

// Option configures an UpdateChecker.
type Option func(*UpdateChecker)

// WithClient sets the HTTP client. The client's own timeout is replaced.
func WithClient(client *http.Client) Option {
	return func(c *UpdateChecker) {
		c.client = client
	}
}

// WithFeedURL sets the feed location. Defaults to DefaultFeedURL.
func WithFeedURL(url string) Option {
	return func(c *UpdateChecker) {
		c.feedURL = url
	}
}

// WithTimeout sets the timeout for each request.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *UpdateChecker) {
		c.timeout = d
	}
}

// WithRetryDelays sets the backoff between attempts.
// This is useful for testing without waiting for real delays.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *UpdateChecker) {
		c.retryDelays = delays
	}
}

// NewUpdateChecker creates a new UpdateChecker.
func NewUpdateChecker(opts ...Option) *UpdateChecker {
	c := &UpdateChecker{
		feedURL:     DefaultFeedURL,
		timeout:     DefaultTimeout,
		retryDelays: DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(c)
	}

	client := &http.Client{}
	if c.client != nil {
		*client = *c.client
	}
	client.Timeout = c.timeout
	c.client = client

	return c
}

// LatestRelease returns the release with the highest semantic version in the
// feed. Entries whose tag is not a semantic version, and prereleases, are
// ignored. Returns ENOTFOUND if no entry qualifies.
func (c *UpdateChecker) LatestRelease(ctx context.Context) (*tracestrip.Release, error) {
	body, err := retry(ctx, c.retryDelays, c.fetch)
	if err != nil {
		return nil, err
	}

	releases, err := parseFeed(body)
	if err != nil {
		return nil, err
	}

	var latest *tracestrip.Release
	for _, r := range releases {
		if latest == nil || semver.Compare(r.Version, latest.Version) > 0 {
			latest = r
		}
	}
	if latest == nil {
		return nil, tracestrip.Errorf(tracestrip.ENOTFOUND, "no release published")
	}
	return latest, nil
}

// fetch retrieves the feed. Client errors (4xx) are permanent.
func (c *UpdateChecker) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, &permanentError{err: err}
	}
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d for %s", resp.StatusCode, c.feedURL)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, &permanentError{err: err}
		}
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxFeedSize {
		return nil, &permanentError{err: fmt.Errorf("feed at %s exceeds %d bytes", c.feedURL, MaxFeedSize)}
	}
	return body, nil
}

// parseFeed extracts releases from an Atom feed. The version is taken from
// the last path segment of the entry link (".../releases/tag/v1.2.3"),
// falling back to the entry title.
func parseFeed(body []byte) ([]*tracestrip.Release, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("parsing release feed: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "feed" {
		return nil, fmt.Errorf("not an Atom feed")
	}

	var releases []*tracestrip.Release
	for _, entry := range root.SelectElements("entry") {
		var href string
		if link := entry.SelectElement("link"); link != nil {
			href = link.SelectAttrValue("href", "")
		}

		version := tracestrip.CanonicalVersion(path.Base(href))
		if version == "" {
			if title := entry.SelectElement("title"); title != nil {
				version = tracestrip.CanonicalVersion(title.Text())
			}
		}
		if version == "" || semver.Prerelease(version) != "" {
			continue
		}

		r := &tracestrip.Release{Version: version, URL: href}
		if updated := entry.SelectElement("updated"); updated != nil {
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(updated.Text())); err == nil {
				r.Published = t
			}
		}
		releases = append(releases, r)
	}
	return releases, nil
}
