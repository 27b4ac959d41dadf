package commands

import (
	"errors"
	"fmt"
	"storefront-delivery-service/internal/adapters/orderstore"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/orderform"

	"github.com/spf13/cobra"
)

func orderCmd() *cobra.Command {
	var (
		apiURL string
		email  string
		in     orderform.Input
		lat    float64
		lng    float64
	)

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place an order against a running storefront API",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			client, err := orderstore.NewClient(apiURL, cfg.Geocode.Timeout)
			if err != nil {
				return err
			}

			// The map only carries the marker here; the server decides range.
			m := newMap(nil, true, nil)
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
				a, err := m.OnAddressSelected(ctx, domain.Coordinates{Lat: lat, Lon: lng})
				if err != nil {
					return err
				}
				if !a.InRange {
					fmt.Fprintln(out, m.Snapshot().Status.Text())
				}
			}

			token, err := client.CustomerLogin(ctx, email, in.Name)
			if err != nil {
				return fmt.Errorf("customer login: %w", err)
			}

			form := orderform.NewController(client, m)
			form.SetToken(token)

			receipt, err := form.Submit(ctx, in)
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				for field, msg := range verr.Fields {
					fmt.Fprintf(out, "%s: %s\n", field, msg)
				}
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Order %s placed for %d x %s.\n", receipt.OrderID, receipt.Payload.Qty, receipt.Payload.Product)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&apiURL, "api", "http://localhost:8080", "storefront API base URL")
	f.StringVar(&email, "email", "", "customer email used to sign in")
	f.StringVar(&in.Name, "name", "", "customer name")
	f.StringVar(&in.Product, "product", "", "product name, or Lainnya for a custom request")
	f.StringVar(&in.CustomProduct, "custom", "", "custom product request when --product=Lainnya")
	f.IntVar(&in.Qty, "qty", 1, "quantity")
	f.StringVar(&in.Address, "address", "", "delivery address")
	f.Float64Var(&lat, "lat", 0, "delivery latitude")
	f.Float64Var(&lng, "lng", 0, "delivery longitude")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
