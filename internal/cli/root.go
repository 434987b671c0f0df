// Package cli implements the sitemapgen command line.
package cli

import (
	"fmt"
	"os"

	"github.com/polyglottis/sitemapgen/internal/logger"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd builds the command tree working on fs.
func NewRootCmd(fs afero.Fs) *cobra.Command {
	root := &cobra.Command{
		Use:   "sitemapgen",
		Short: "XML sitemap generator",
		Long: `sitemapgen writes XML sitemaps from lists of URLs.
Sites with more than 50000 URLs get numbered sitemaps and a sitemap index.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config-dir", ".", "directory holding the .env file")
	root.AddCommand(newGenerateCmd(fs), newInspectCmd(fs))
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd(afero.NewOsFs()).Execute(); err != nil {
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
