package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/east825/pot/pkg/grab"
	"github.com/east825/pot/pkg/report"
)

var grabCmd = &cobra.Command{
	Use:   "grab <path>",
	Short: "Move a dotfile into the repository and symlink it back",
	Long: `Grab captures a live file: it is moved into the repository designated by
the POT_HOME environment variable (default ~/.pot) and a symlink pointing at
the captured copy is left in its place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := grab.Grab(args[0], report.New(quietMode(), failFast))
		if err != nil {
			log.Error().Err(err).Str("path", args[0]).Msg("Grab failed")
		}
		return err
	},
}
