package cmd

import (
	"github.com/imagespy/freshness/versionparser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var parseCmd = &cobra.Command{
	Use:   "parse VALUE",
	Short: "Parses VALUE as an image tag or, with --label, as a version label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			v   *versionparser.Version
			err error
		)

		if viper.GetBool("label") {
			v, err = versionparser.ParseString(args[0])
		} else {
			v, err = versionparser.ParseTag(args[0])
		}

		if err != nil {
			return err
		}

		return printJSON(v)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Creates or updates the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set("migrations.enabled", true)
		s, err := openStore()
		if err != nil {
			return err
		}

		if s == nil {
			return errDBConnectionRequired
		}

		return s.Close()
	},
}

func init() {
	parseCmd.Flags().Bool("label", false, "parse VALUE as a label value instead of a tag")
	rootCmd.AddCommand(parseCmd)
	addStoreFlags(migrateCmd)
	rootCmd.AddCommand(migrateCmd)
}
