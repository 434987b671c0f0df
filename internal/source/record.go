package source

import (
	"fmt"

	"github.com/polyglottis/sitemapgen"
)

// Record is one URL as read from a source. Empty fields are unset.
type Record struct {
	Loc             string `yaml:"loc"`
	LastModified    string `yaml:"lastmod"`
	ChangeFrequency string `yaml:"changefreq"`
	Priority        string `yaml:"priority"`
}

// Options returns the sitemap options for the fields set on r.
func (r Record) Options() []sitemap.URLOption {
	var opts []sitemap.URLOption
	if r.LastModified != "" {
		opts = append(opts, sitemap.LastModified(r.LastModified))
	}
	if r.ChangeFrequency != "" {
		opts = append(opts, sitemap.Frequency(sitemap.ChangeFrequency(r.ChangeFrequency)))
	}
	if r.Priority != "" {
		opts = append(opts, sitemap.Priority(r.Priority))
	}
	return opts
}

// AddAll adds every record to w, stopping at the first invalid one.
func AddAll(w *sitemap.Writer, records []Record) error {
	for i, r := range records {
		if err := w.Add(r.Loc, r.Options()...); err != nil {
			return fmt.Errorf("record %d (%s): %w", i+1, r.Loc, err)
		}
	}
	return nil
}
