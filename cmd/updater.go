package cmd

import (
	"context"
	"time"

	flog "github.com/imagespy/freshness/log"
	"github.com/imagespy/freshness/scrape"
	"github.com/imagespy/freshness/updater"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var updaterCmd = &cobra.Command{
	Use:   "updater",
	Short: "Checks all containers for newer images",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return errors.Wrap(err, "unable to connect to database")
		}

		if s != nil {
			defer s.Close()
		}

		src, err := newSource()
		if err != nil {
			return err
		}

		u := updater.NewUpdater(viper.GetString("pushgateway.url"), src, scrape.NewScraper(newRegistryClient(), s), viper.GetInt("workers"))
		ctx, cancel := signalContext()
		defer cancel()

		if interval := viper.GetDuration("interval"); interval > 0 {
			runPeriodically(ctx, u, interval)
			return nil
		}

		report, err := u.Run(ctx)
		if err != nil {
			return err
		}

		return printJSON(report)
	},
}

// runPeriodically runs u immediately and then every interval until ctx is
// done.
func runPeriodically(ctx context.Context, u updater.Updater, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		report, err := u.Run(ctx)
		if err != nil {
			log.Errorf("update run failed: %s", flog.FormatError(err))
		} else {
			log.Infof("checked %d containers in %s, %d updates available, %d failed", len(report.Checks), report.Duration, report.UpdatesAvailable, report.Failed)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func init() {
	updaterCmd.Flags().Duration("interval", 0, "repeat the run at this interval instead of exiting")
	updaterCmd.Flags().String("pushgateway.url", "", "push metrics to this Prometheus Pushgateway after each run")
	updaterCmd.Flags().Int("workers", 1, "number of image references checked in parallel")
	addSourceFlags(updaterCmd)
	addStoreFlags(updaterCmd)
	rootCmd.AddCommand(updaterCmd)
}
