package sitemap

import "fmt"

// Config holds the file-level settings of a sitemap run.
type Config struct {
	// Output is the path of the sitemap (or of the index when split).
	Output string `mapstructure:"output" default:"sitemap.xml"`
	// BaseURL prefixes sitemap file names in the index.
	BaseURL string `mapstructure:"base_url" default:"/"`
	// LastModified is the default lastmod, "today" for the current date.
	LastModified string `mapstructure:"lastmod" default:""`
	// ChangeFrequency is the default changefreq.
	ChangeFrequency string `mapstructure:"changefreq" default:""`
	// Priority is the default priority.
	Priority string `mapstructure:"priority" default:""`
}

// Validate checks the default change frequency.
func (c Config) Validate() error {
	if _, err := ParseChangeFrequency(c.ChangeFrequency); err != nil {
		return fmt.Errorf("sitemap config: %w", err)
	}
	return nil
}

// Options converts the configuration to Writer options. Empty values set no default.
func (c Config) Options() []Option {
	opts := []Option{IndexBaseURL(c.BaseURL)}
	if c.LastModified != "" {
		opts = append(opts, DefaultLastModified(c.LastModified))
	}
	if c.ChangeFrequency != "" {
		opts = append(opts, DefaultChangeFrequency(ChangeFrequency(c.ChangeFrequency)))
	}
	if c.Priority != "" {
		opts = append(opts, DefaultPriority(c.Priority))
	}
	return opts
}
