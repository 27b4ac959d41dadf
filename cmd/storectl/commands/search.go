package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <address>",
		Short: "Look up address candidates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			geocoder, err := newGeocoder()
			if err != nil {
				return err
			}

			if limit <= 0 {
				limit = cfg.Geocode.MaxResults
			}
			cands, err := geocoder.Search(cmd.Context(), strings.Join(args, " "), limit, cfg.Geocode.MinChars)
			if err != nil {
				return err
			}
			if len(cands) == 0 {
				fmt.Fprintln(out, "No matches.")
				return nil
			}
			for i, c := range cands {
				fmt.Fprintf(out, "%d. %s (%.6f, %.6f)\n", i+1, c.DisplayText, c.Coordinates.Lat, c.Coordinates.Lon)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of candidates (default from GEOCODE_MAX_RESULTS)")
	return cmd
}
