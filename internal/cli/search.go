package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const searchTimeout = 30 * time.Second

func newSearchCmd(opts *options) *cobra.Command {
	var country, state string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Suggest cities for a partial name",
		Long: `search runs a city query through a form session, so it sees the same
suggestions as the intake form: a loaded city list is filtered locally and
anything else goes to the debounced search index.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := opts.components.Service
			id, session, err := svc.Create(nil)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Delete(id) }()

			ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
			defer cancel()

			if err := session.SetCountry(country); err != nil {
				return err
			}
			if err := session.Wait(ctx); err != nil {
				return fmt.Errorf("failed to load states: %w", err)
			}
			if state != "" {
				if err := session.SetState(state); err != nil {
					return err
				}
				if err := session.Wait(ctx); err != nil {
					return fmt.Errorf("failed to load cities: %w", err)
				}
			}

			if err := session.SearchCity(args[0]); err != nil {
				return err
			}
			if err := session.Wait(ctx); err != nil {
				return fmt.Errorf("search did not finish: %w", err)
			}

			snap := session.Snapshot()
			out := cmd.OutOrStdout()
			if len(snap.Suggestions) == 0 {
				fmt.Fprintln(out, "No matching cities.")
				return nil
			}
			for _, c := range snap.Suggestions {
				fmt.Fprintln(out, c.Name)
			}
			offlineNote(out, snap.Offline)
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "country name or code")
	cmd.Flags().StringVar(&state, "state", "", "state name")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}
