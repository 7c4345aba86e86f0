package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/east825/pot/pkg/install"
)

var installCmd = &cobra.Command{
	Use:   "install [location] [names...]",
	Short: "Install dotfiles into the system",
	Long: `Install reconciles the manifest against your environment. Every entry is
placed per its action (symlink, copy or include). Trailing names select a
subset of entries; without them the whole manifest is installed. Failures
are reported per entry and do not stop the run unless --fail-fast is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		location := "."
		var names []string
		if len(args) > 0 {
			location = args[0]
			names = args[1:]
		}

		result, err := install.Install(install.Options{
			RepoRoot: location,
			Names:    names,
			Force:    force,
			FailFast: failFast,
			Quiet:    quietMode(),
		})
		if err != nil {
			log.Error().Err(err).Str("location", location).Msg("Installation failed")
			return err
		}
		if n := result.Failed(); n > 0 {
			log.Warn().Int("failed", n).Msg("Some entries were not installed")
		}
		return nil
	},
}
