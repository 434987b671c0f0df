// Package logger builds the zap logger used by the sitemapgen command.
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Sitemap created", zap.Int("urls", n))
package logger
