package main

import (
	"fmt"

	"github.com/fwojciec/tracestrip"
	tsyaml "github.com/fwojciec/tracestrip/yaml"
)

// Run executes the config show command.
func (c *ConfigShowCmd) Run(deps *Dependencies) error {
	settings, err := deps.SettingsService.FindSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	for _, key := range tracestrip.SettingKeys() {
		value, err := settings.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "%-18s %s\n", key, value)
	}

	if len(settings.InvisibleChars) > 0 {
		fmt.Fprintln(deps.Stdout, "invisible-chars:")
		for _, ch := range settings.InvisibleChars {
			ranges := ch.Ranges
			if parsed, err := tracestrip.ParseCodeRanges(ranges); err == nil {
				ranges = tracestrip.FormatCodeRanges(parsed)
			}
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", ranges, ch.Label)
		}
	}

	if deps.ConfigFile != "" {
		fmt.Fprintf(deps.Stdout, "\nOverridden for each run by %s\n", deps.ConfigFile)
	}
	return nil
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	settings, err := deps.SettingsService.FindSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	if err := settings.Set(c.Key, c.Value); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s. Run 'tracestrip config show' to see available settings.\n", tracestrip.ErrorMessage(err))
		return err
	}

	if err := deps.SettingsService.UpdateSettings(deps.Ctx, settings); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	value, _ := settings.Get(c.Key)
	fmt.Fprintf(deps.Stdout, "%s = %s\n", c.Key, value)
	return nil
}

// Run executes the config import command.
func (c *ConfigImportCmd) Run(deps *Dependencies) error {
	cf, err := tsyaml.LoadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	settings, err := deps.SettingsService.FindSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	if err := cf.Apply(settings); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	if err := deps.SettingsService.UpdateSettings(deps.Ctx, settings); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported settings from %s\n", c.File)
	return nil
}
