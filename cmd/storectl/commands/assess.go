package commands

import (
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"strings"

	"github.com/spf13/cobra"
)

func assessCmd() *cobra.Command {
	var lat, lng float64

	cmd := &cobra.Command{
		Use:   "assess [address]",
		Short: "Check whether an address or point is within the delivery radius",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			pointGiven := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng")
			if !pointGiven && len(args) == 0 {
				return errors.New("give an address or --lat and --lng")
			}

			estimator, err := newEstimator()
			if err != nil {
				return err
			}
			m := newMap(estimator, true, nil)

			at := domain.Coordinates{Lat: lat, Lon: lng}
			if !pointGiven {
				geocoder, err := newGeocoder()
				if err != nil {
					return err
				}
				cands, err := geocoder.Search(ctx, strings.Join(args, " "), 1, cfg.Geocode.MinChars)
				if err == nil && len(cands) == 0 {
					err = domain.ErrGeocodeEmpty
				}
				if err != nil {
					m.ShowGeocodeError(err)
					fmt.Fprintln(out, m.Snapshot().Status.Text())
					return err
				}
				fmt.Fprintln(out, cands[0].DisplayText)
				at = cands[0].Coordinates
			}

			if _, err := m.OnAddressSelected(ctx, at); err != nil {
				fmt.Fprintln(out, m.Snapshot().Status.Text())
				return err
			}
			fmt.Fprintln(out, m.Snapshot().Status.Text())
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the delivery point")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude of the delivery point")
	return cmd
}
