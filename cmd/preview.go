package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"portfolio/posts"
)

const previewWidth = 100

var previewCmd = &cobra.Command{
	Use:   "preview <slug>",
	Short: "Render a post in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := posts.Load(appConfig.ContentDir)
		if err != nil {
			return err
		}
		post, err := lib.BySlug(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		out, err := renderPreview(post)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func renderPreview(post posts.Post) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(previewWidth),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}

	header := fmt.Sprintf("%s\n\n*%s · %d min read*\n\n", post.Title, post.Date.Format("January 2, 2006"), post.Metadata.ReadingTime)
	out, err := renderer.Render(header + post.Markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", post.Slug, err)
	}
	return out, nil
}
