package commands

import (
	"bufio"
	"context"
	"fmt"
	"storefront-delivery-service/internal/autocomplete"
	"storefront-delivery-service/internal/deliverymap"
	"storefront-delivery-service/internal/domain"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

const suggestHelp = `Type an address to search. Commands:
  /down /up     move the highlight
  /enter        pick the highlighted address
  /esc          close the suggestions
  /here         use the --lat/--lng position as the device location
  /reset        clear the map
  /quit         exit`

func suggestCmd() *cobra.Command {
	var lat, lng float64

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Interactive address autocomplete with delivery range feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			geocoder, err := newGeocoder()
			if err != nil {
				return err
			}
			estimator, err := newEstimator()
			if err != nil {
				return err
			}

			var outMu sync.Mutex
			printf := func(format string, a ...any) {
				outMu.Lock()
				defer outMu.Unlock()
				fmt.Fprintf(cmd.OutOrStdout(), format, a...)
			}

			m := newMap(estimator, false, func(s deliverymap.Snapshot) {
				if text := s.Status.Text(); text != "" {
					printf("%s\n", text)
				}
			})

			ac := autocomplete.New(geocoder, autocomplete.Options{
				Delay:      cfg.Autocomplete.Delay,
				MinChars:   cfg.Geocode.MinChars,
				MaxResults: cfg.Geocode.MaxResults,
				OnChange: func(s autocomplete.Snapshot) {
					if s.State != autocomplete.Showing {
						return
					}
					for i, c := range s.Candidates {
						mark := " "
						if i == s.Selected {
							mark = ">"
						}
						printf("%s %d. %s\n", mark, i+1, c.DisplayText)
					}
				},
				OnSelect: func(c domain.AddressCandidate) {
					printf("Selected: %s\n", c.DisplayText)
					_, _ = m.OnAddressSelected(context.WithoutCancel(ctx), c.Coordinates)
				},
				OnError: m.ShowGeocodeError,
			})

			var loc fixedLocator
			hasLoc := cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng")
			if hasLoc {
				loc.at = domain.Coordinates{Lat: lat, Lon: lng}
			}

			printf("%s\n%s\n", m.Messages().Initial, suggestHelp)

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := sc.Text()
				switch strings.TrimSpace(line) {
				case "/quit":
					return nil
				case "/down":
					ac.KeyDown(autocomplete.KeyDown)
				case "/up":
					ac.KeyDown(autocomplete.KeyUp)
				case "/enter":
					ac.KeyDown(autocomplete.KeyEnter)
				case "/esc":
					ac.KeyDown(autocomplete.KeyEscape)
				case "/reset":
					m.ResetMap()
				case "/here":
					if !hasLoc {
						_, _ = m.UseDeviceLocation(ctx, nil)
						continue
					}
					_, _ = m.UseDeviceLocation(ctx, loc)
				default:
					ac.Input(line)
				}
			}
			return sc.Err()
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "device latitude for /here")
	cmd.Flags().Float64Var(&lng, "lng", 0, "device longitude for /here")
	return cmd
}
