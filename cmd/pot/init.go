package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/east825/pot/pkg/initialize"
	"github.com/east825/pot/pkg/report"
)

var initGitURL string

var initCmd = &cobra.Command{
	Use:   "init [location]",
	Short: "Create a pot repository and populate its default config.yaml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location := "."
		if len(args) > 0 {
			location = args[0]
		}

		_, err := initialize.Run(initialize.Options{
			Location: location,
			GitURL:   initGitURL,
			Reporter: report.New(quietMode(), failFast),
		})
		if err != nil {
			log.Error().Err(err).Str("location", location).Msg("Initialization failed")
		}
		return err
	},
}

func init() {
	initCmd.Flags().StringVar(&initGitURL, "git", "", "Seed the storage directory from a git repository URL")
}
