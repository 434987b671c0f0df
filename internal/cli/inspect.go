package cli

import (
	"bytes"
	"fmt"

	"github.com/polyglottis/sitemapgen"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newInspectCmd(fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a sitemap or sitemap index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := afero.ReadFile(fs, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if index, err := sitemap.ReadIndex(bytes.NewReader(data)); err == nil {
				fmt.Fprintf(out, "sitemap index: %d sitemaps\n", len(index.SitemapRefs))
				for _, ref := range index.SitemapRefs {
					fmt.Fprintf(out, "  %s\t%s\n", ref.Location, ref.LastModified)
				}
				return nil
			}

			set, err := sitemap.ReadURLSet(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%s is neither a sitemap nor a sitemap index: %w", args[0], err)
			}
			fmt.Fprintf(out, "sitemap: %d urls\n", len(set.Entries))
			if len(set.Entries) > sitemap.MaxURLs {
				fmt.Fprintf(out, "warning: more than %d urls\n", sitemap.MaxURLs)
			}
			return nil
		},
	}
}
