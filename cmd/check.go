package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio/posts"
	"portfolio/site"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and content without side effects",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Config was validated by the root command already.
		lib, err := posts.Load(appConfig.ContentDir)
		if err != nil {
			return err
		}
		if _, err := site.LoadData(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d posts\n", lib.Len())
		return nil
	},
}
