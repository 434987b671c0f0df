// Package source reads the URL records a sitemap is generated from.
//
// Records come from files (plain text, CSV or YAML, chosen by extension) or
// from a database table. Empty fields are left unset so that the sitemap
// writer's defaults apply.
//
// # File formats
//
// Plain text holds one record per line, whitespace separated:
//
//	# loc [lastmod [changefreq [priority]]]
//	http://example.com/            today   daily   1.0
//	http://example.com/about
//
// CSV files carry a header naming the loc, lastmod, changefreq and priority
// columns, in any order. YAML files hold a list of mappings with the same keys.
package source
