package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCoordsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "coords <country>",
		Short: "Print the representative coordinates of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.components.Generator.Generate(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to generate coordinates: %w", err)
			}

			lat, lon := res.Coords.Strings()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "latitude:  %s\nlongitude: %s\nsource:    %s\n", lat, lon, res.Source)
			if res.Timezone != "" {
				fmt.Fprintf(out, "timezone:  %s\n", res.Timezone)
			}
			return nil
		},
	}
}
