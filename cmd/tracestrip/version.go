package main

import (
	"fmt"

	"github.com/fwojciec/tracestrip"
)

// Run executes the version command.
func (c *VersionCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "tracestrip %s\n", version)
	if !c.Check {
		return nil
	}

	release, err := deps.Updates.LatestRelease(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: update check failed: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	if tracestrip.IsNewer(version, release.Version) {
		fmt.Fprintf(deps.Stdout, "A newer version is available: %s\n%s\n", release.Version, release.URL)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Up to date (latest release %s)\n", release.Version)
	return nil
}
