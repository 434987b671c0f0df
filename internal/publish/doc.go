// Package publish uploads generated sitemap files to S3 compatible object storage.
//
// Files are stored under an optional key prefix with their base name, so a
// split sitemap keeps the names its index refers to.
package publish
