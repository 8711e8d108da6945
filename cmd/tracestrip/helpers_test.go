package main_test

import (
	"bytes"
	"context"
	"strings"

	"github.com/fwojciec/tracestrip"
	"github.com/fwojciec/tracestrip/clean"
	main "github.com/fwojciec/tracestrip/cmd/tracestrip"
	"github.com/fwojciec/tracestrip/goquery"
)

// newTestDeps returns dependencies with buffered output and a real cleaner.
func newTestDeps(stdin string) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:      context.Background(),
		Stdin:    strings.NewReader(stdin),
		Stdout:   stdout,
		Stderr:   stderr,
		Settings: tracestrip.DefaultSettings(),
		NewCleaner: func(fallback bool) tracestrip.Cleaner {
			if fallback {
				return clean.NewEngine(nil, nil)
			}
			return clean.NewEngine(nil, goquery.NewStrategy())
		},
	}
	return deps, stdout, stderr
}
