package commands

import (
	"context"
	"os"
	"os/signal"
	"storefront-delivery-service/internal/adapters/geocode"
	"storefront-delivery-service/internal/adapters/routing"
	"storefront-delivery-service/internal/config"
	"storefront-delivery-service/internal/deliverymap"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"

	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	locale string
	noETA  bool
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Storefront delivery tools: address search, range checks and orders",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Read()
			obs.Configure(cfg.Log.Level, cfg.Log.Format)
			if locale == "" {
				locale = cfg.Locale
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&locale, "locale", "", "message language, id or en (default from LOCALE)")
	root.PersistentFlags().BoolVar(&noETA, "no-eta", false, "skip travel time lookups")

	root.AddCommand(dbCmd(), searchCmd(), assessCmd(), suggestCmd(), orderCmd())
	return root
}

func newGeocoder() (ports.Geocoder, error) {
	return geocode.NewNominatimClient(geocode.NominatimConfig{
		BaseURL:           cfg.Geocode.BaseURL,
		Locality:          cfg.Geocode.Locality,
		UserAgent:         cfg.Geocode.UserAgent,
		RequestsPerSecond: cfg.Geocode.RequestsPerSecond,
		Timeout:           cfg.Geocode.Timeout,
	})
}

func newEstimator() (ports.RouteEstimator, error) {
	if noETA {
		return nil, nil
	}
	return routing.NewOSRMClient(routing.OSRMConfig{
		BaseURL:     cfg.Routing.BaseURL,
		Profile:     cfg.Routing.Profile,
		Timeout:     cfg.Routing.Timeout,
		MaxAttempts: cfg.Routing.MaxAttempts,
	})
}

func storeLocation() domain.Coordinates {
	return domain.Coordinates{Lat: cfg.Store.Lat, Lon: cfg.Store.Lon}
}

// newMap builds a delivery map controller. With sync set the travel time
// lookup runs inline so the returned snapshot already carries it.
func newMap(estimator ports.RouteEstimator, sync bool, onChange func(deliverymap.Snapshot)) *deliverymap.Controller {
	mc := deliverymap.Config{
		Store:        storeLocation(),
		RadiusMeters: cfg.Store.RadiusMeters,
		DefaultZoom:  cfg.Store.DefaultZoom,
		Locale:       locale,
		Estimator:    estimator,
		ETATimeout:   cfg.Routing.Timeout,
		OnChange:     onChange,
	}
	if sync {
		mc.Async = func(f func()) { f() }
	}
	return deliverymap.NewController(mc)
}

// fixedLocator stands in for a device position given on the command line.
type fixedLocator struct {
	at domain.Coordinates
}

func (l fixedLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	return l.at, nil
}
