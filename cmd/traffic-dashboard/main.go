package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	trafficsvc "github.com/diwise/traffic-dashboard/internal/pkg/application/services/traffic"
	"github.com/diwise/traffic-dashboard/internal/pkg/infrastructure/config"
	"github.com/diwise/traffic-dashboard/internal/pkg/presentation/api"
	"github.com/diwise/traffic-dashboard/internal/pkg/trafficdata"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const serviceName string = "traffic-dashboard"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          serviceName,
		Short:        "Road traffic dashboard for a metro area",
		Long:         `traffic-dashboard loads a CSV of road traffic samples and serves a dashboard with summary metrics, a congestion heatmap and colour coded markers per sample.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, v, cfgFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("data-source", config.DefaultDataSource, "path or http(s) url of the traffic CSV")
	flags.Float64("metro-latitude", config.DefaultMetroLatitude, "latitude of the metro map center")
	flags.Float64("metro-longitude", config.DefaultMetroLongitude, "longitude of the metro map center")
	flags.String("listen-address", config.DefaultListenAddress, "address the dashboard listens on")

	v.BindPFlag("data_source", flags.Lookup("data-source"))
	v.BindPFlag("metro_latitude", flags.Lookup("metro-latitude"))
	v.BindPFlag("metro_longitude", flags.Lookup("metro-longitude"))
	v.BindPFlag("listen_address", flags.Lookup("listen-address"))

	rootCmd.AddCommand(newServeCommand(v, &cfgFile))
	rootCmd.AddCommand(newSummaryCommand(v, &cfgFile))

	return rootCmd
}

func newServeCommand(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and its JSON api",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, v, *cfgFile)
		},
	}
}

func newSummaryCommand(v *viper.Viper, cfgFile *string) *cobra.Command {
	var road string

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the traffic summary for a road selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}

			svc := newTrafficService(cfg)
			vm, err := svc.BuildView(cmd.Context(), trafficdata.SelectRoad(road))
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), vm)
			return nil
		},
	}

	summaryCmd.Flags().StringVar(&road, "road", trafficdata.AllRoads, "road name, or \""+trafficdata.AllRoads+"\"")

	return summaryCmd
}

func serve(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	serviceVersion := buildinfo.SourceVersion()
	ctx, logger, cleanup := o11y.Init(cmd.Context(), serviceName, serviceVersion, cfg.LogFormat)
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := newTrafficService(cfg)
	warmUp(ctx, svc, cfg.DataSource)

	dashboard := api.New(ctx, svc, api.Settings{
		ListenAddress:   cfg.ListenAddress,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})

	done, err := dashboard.Start(ctx)
	if err != nil {
		logger.Error("failed to start dashboard", "address", cfg.ListenAddress, "err", err.Error())
		return err
	}

	logger.Info("serving traffic dashboard", "address", cfg.ListenAddress, "source", cfg.DataSource)

	<-done

	logger.Info("traffic dashboard stopped")

	return nil
}

func newTrafficService(cfg *config.Config) trafficsvc.TrafficService {
	source := trafficsvc.NewSource(cfg.DataSource)
	cache := trafficsvc.NewCache(source)
	metro := trafficsvc.LatLon{Lat: cfg.MetroLatitude, Lon: cfg.MetroLongitude}

	return trafficsvc.NewTrafficService(cache, metro)
}

// warmUp loads the table once so that a broken source is reported at startup.
// The dashboard still starts and shows the error state until the source recovers.
func warmUp(ctx context.Context, svc trafficsvc.TrafficService, source string) {
	logger := logging.GetFromContext(ctx)

	roads, err := svc.RoadOptions(ctx)
	if err != nil {
		logger.Warn("initial load of traffic data failed", "source", source, "err", err.Error())
		return
	}

	logger.Info("traffic data available", "source", source, "options", len(roads))
}

func printSummary(w io.Writer, vm *trafficsvc.ViewModel) {
	fmt.Fprintf(w, "Selection:   %s\n", vm.Selection)
	fmt.Fprintf(w, "Samples:     %d\n", len(vm.Rows))
	fmt.Fprintf(w, "Avg Speed:   %v km/h\n", vm.Summary.AvgSpeed)
	fmt.Fprintf(w, "Congestion:  %s\n", vm.Summary.Congestion)
	fmt.Fprintf(w, "Incident:    %s\n", vm.Summary.Incident)
	fmt.Fprintf(w, "Map center:  %v, %v (zoom %d)\n", vm.Map.Center.Lat, vm.Map.Center.Lon, vm.Map.Zoom)

	for _, issue := range vm.Issues {
		fmt.Fprintf(w, "Skipped:     %s\n", issue.Error())
	}
}
