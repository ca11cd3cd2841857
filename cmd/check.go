package cmd

import (
	"github.com/imagespy/freshness/scrape"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var checkCmd = &cobra.Command{
	Use:   "check IMAGE",
	Short: "Checks whether the registry serves a different digest for IMAGE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		digest := viper.GetString("digest")
		if digest == "" {
			return errors.New("--digest is required")
		}

		ctx, cancel := signalContext()
		defer cancel()
		verdict := scrape.NewScraper(newRegistryClient(), nil).CheckUpdateAvailable(ctx, digest, args[0])
		return printJSON(verdict)
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags IMAGE",
	Short: "Lists the tags of the repository of IMAGE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		tags, err := scrape.NewScraper(newRegistryClient(), nil).Tags(ctx, args[0])
		if err != nil {
			return err
		}

		return printJSON(tags)
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest IMAGE",
	Short: "Prints the newest version tag of the repository of IMAGE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		tv, err := scrape.NewScraper(newRegistryClient(), nil).LatestTag(ctx, args[0])
		if err != nil {
			return err
		}

		return printJSON(tv)
	},
}

func init() {
	checkCmd.Flags().String("digest", "", "digest of the local image, e.g. sha256:...")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(latestCmd)
}
