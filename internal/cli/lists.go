package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCountriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := opts.components.Service.ListCountries(cmd.Context())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME")
			for _, c := range res.Items {
				fmt.Fprintf(w, "%s\t%s\n", c.Code, c.Name)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			offlineNote(cmd.OutOrStdout(), res.Offline)
			return nil
		},
	}
}

func newStatesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "states <country>",
		Short: "List the states of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := opts.components.Service.ListStates(cmd.Context(), args[0])
			if len(res.Items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no states; list its cities instead.\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME")
			for _, s := range res.Items {
				fmt.Fprintf(w, "%s\t%s\n", s.Code, s.Name)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			offlineNote(cmd.OutOrStdout(), res.Offline)
			return nil
		},
	}
}

func newCitiesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cities <country> [state]",
		Short: "List the cities of a country or state",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := ""
			if len(args) == 2 {
				state = args[1]
			}
			res := opts.components.Service.ListCities(cmd.Context(), args[0], state)
			if len(res.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cities known; the city must be entered as free text.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tREGION")
			for _, c := range res.Items {
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Region)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			offlineNote(cmd.OutOrStdout(), res.Offline)
			return nil
		},
	}
}
