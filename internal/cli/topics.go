package cli

import (
	"embed"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dockplate/pkg/display"
	"github.com/arthur-debert/dockplate/pkg/topics"
)

//go:embed topics/*.md
var topicFiles embed.FS

// installTopics adds the embedded help topics to root
func (a *app) installTopics(root *cobra.Command) error {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		return err
	}
	m, err := topics.Load(sub)
	if err != nil {
		return err
	}
	m.Install(root, func(cmd *cobra.Command, t *topics.Topic) error {
		return a.renderer(cmd.OutOrStdout(), display.FormatAuto).Markdown(t.Content)
	})
	return nil
}
