// Package config loads the sitemapgen configuration from the environment.
//
// Values come from environment variables, optionally read from a .env file
// first. Nested keys map to upper-case variables joined by underscores:
// sitemap.output is SITEMAP_OUTPUT, publish.bucket is PUBLISH_BUCKET.
// Defaults are declared with `default` struct tags next to `mapstructure` ones.
package config
