package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vango-dev/safecontext/internal/demo"
	"github.com/vango-dev/safecontext/internal/errors"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		format string
		pretty bool
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "render [scenario...]",
		Short: "Render demo scenarios",
		Long: `Render demo scenarios to text, HTML or JSON.

Without arguments every scenario is rendered.

Examples:
  safecontext render
  safecontext render menu display
  safecontext render missing --format=html --pretty
  safecontext render --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				for _, name := range a.registry.Names() {
					s, _ := a.registry.Lookup(name)
					fmt.Fprintf(out, "%-10s %s\n", name, s.Description)
				}
				return nil
			}

			if cmd.Flags().Changed("pretty") {
				a.cfg.Render.Pretty = pretty
			}
			if len(args) == 0 {
				args = a.registry.Names()
			}
			return runRender(out, a.registry, args, format, a.cfg.Render.Pretty)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, html or json")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent HTML output (default from safecontext.json)")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List the scenarios")

	return cmd
}

func runRender(out io.Writer, registry *demo.Registry, names []string, format string, pretty bool) error {
	if format != "text" && format != "html" && format != "json" {
		return errors.New(errors.CodeRenderFailed).
			WithDetail(fmt.Sprintf("unknown format %q", format)).
			WithSuggestion("Use --format=text, --format=html or --format=json")
	}

	results := make([]demo.Result, 0, len(names))
	for _, name := range names {
		res, err := registry.Render(name, format != "text", pretty)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return errors.New(errors.CodeRenderFailed).Wrap(err)
		}
		fmt.Fprintln(out, string(data))
	case "html":
		for _, res := range results {
			fmt.Fprintf(out, "<!-- %s -->\n%s\n", res.Scenario, res.HTML)
		}
	default:
		for _, res := range results {
			fmt.Fprintf(out, "%s: %s\n", res.Scenario, res.Text)
		}
	}
	return nil
}
