package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/imagespy/freshness/scrape"
	"github.com/imagespy/freshness/updater"
	"github.com/imagespy/freshness/web"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serves the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return errors.Wrap(err, "unable to connect to database")
		}

		if s != nil {
			defer s.Close()
		}

		scraper := scrape.NewScraper(newRegistryClient(), s)
		ctx, cancel := signalContext()
		defer cancel()

		if interval := viper.GetDuration("updater.interval"); interval > 0 {
			src, err := newSource()
			if err != nil {
				return err
			}

			u := updater.NewUpdater(viper.GetString("pushgateway.url"), src, scraper, viper.GetInt("workers"))
			go runPeriodically(ctx, u, interval)
		}

		srv := &http.Server{
			Addr:    viper.GetString("http.address"),
			Handler: web.Init(scraper, s),
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			srv.Shutdown(shutdownCtx)
		}()

		log.Infof("listening on %s", srv.Addr)
		err = srv.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}

		return err
	},
}

func init() {
	serverCmd.Flags().String("http.address", ":3001", "ip:port combination to bind to")
	serverCmd.Flags().Duration("updater.interval", 0, "check all containers periodically, disabled if 0")
	serverCmd.Flags().String("pushgateway.url", "", "push updater metrics to this Prometheus Pushgateway")
	serverCmd.Flags().Int("workers", 1, "number of image references checked in parallel")
	addSourceFlags(serverCmd)
	addStoreFlags(serverCmd)
	rootCmd.AddCommand(serverCmd)
}
