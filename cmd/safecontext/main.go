package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/safecontext/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "safecontext",
		Short: "Type-safe contexts and context injection for vango components",
		Long: `safecontext renders and serves the demo scenarios of the safecontext library.

Every scenario builds a vango provider tree and renders it:

  • menu        a config context injected next to an incoming prop
  • display     a raw vango context and two safe contexts, resolved in order
  • missing     a consumer rendered without its provider
  • menu-memo   a memoized wrapper rendered twice`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to safecontext.json (default: search upward from the working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		renderCmd(&flags),
		serveCmd(&flags),
		checkCmd(&flags),
		versionCmd(),
	)

	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m!\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
