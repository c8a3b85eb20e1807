package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile content and write the sitemap",
	Long: `build compiles every post (failing on the first invalid collection),
copies cover images into the public directory and writes
<public>/sitemap.xml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadContent(appConfig)
		if err != nil {
			return err
		}

		path, err := site.WriteSitemap(appConfig.PublicDir, appConfig.BaseURL(), store.Library().All(), time.Now())
		if err != nil {
			return err
		}

		logger.Info("build complete", zap.Int("posts", store.Library().Len()), zap.String("sitemap", path))
		fmt.Fprintf(cmd.OutOrStdout(), "built %d posts, sitemap at %s\n", store.Library().Len(), path)
		return nil
	},
}
