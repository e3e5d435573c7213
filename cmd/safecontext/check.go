package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/safecontext/internal/errors"
	"github.com/vango-dev/safecontext/pkg/safecontext"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration",
		Long: `Load safecontext.json, validate it and render every scenario once.

Examples:
  safecontext check
  safecontext check --config=./examples/safecontext.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if path := a.cfg.Path(); path != "" {
				success(out, "Loaded %s", path)
			} else {
				success(out, "No safecontext.json found, using defaults")
			}
			success(out, "Configuration is valid")

			for _, name := range a.registry.Names() {
				if _, err := a.registry.Render(name, true, false); err != nil {
					return err
				}
				for _, ctx := range a.missing.take() {
					diag := errors.Diagnose(&safecontext.MissingContextError{Context: ctx}, errors.CodeMissingContext)
					warn(out, "%s: %s", name, diag.FormatCompact())
				}
			}
			success(out, "Rendered %d scenarios", len(a.registry.Names()))
			return nil
		},
	}
}
