// Package cli implements the locations operator command line using Cobra.
// Every command goes through the same service wiring as the HTTP API, so a
// failing provider shows up as "offline" output rather than an error.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"casedesk/internal/bootstrap"
	"casedesk/internal/config"

	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	offline    bool
	verbose    bool

	components *bootstrap.Components
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "locations",
		Short: "Look up countries, states, cities and coordinates",
		Long: `locations queries the same location lookups the case intake API uses.
Lists come from the remote location provider and fall back to the bundled
dataset when it fails or --offline is set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.components != nil {
				opts.components.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: ./config.yaml)")
	root.PersistentFlags().BoolVar(&opts.offline, "offline", false, "use only the bundled dataset")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log lookups to stderr")

	root.AddCommand(
		newCountriesCmd(opts),
		newStatesCmd(opts),
		newCitiesCmd(opts),
		newCoordsCmd(opts),
		newSearchCmd(opts),
	)
	return root
}

func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	cfg.Log.Level = "warn"
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	logger := cfg.NewLoggerTo(cmd.ErrOrStderr())

	o.components, err = bootstrap.New(cmd.Context(), cfg, bootstrap.Options{Offline: o.offline}, logger)
	if err != nil {
		return err
	}
	o.components.Service.Warm(cmd.Context())
	return nil
}

// Execute runs the root command. Called from main.go.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func offlineNote(w io.Writer, offline bool) {
	if offline {
		fmt.Fprintln(w, "(from bundled dataset)")
	}
}
