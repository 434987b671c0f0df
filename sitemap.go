/*
Package sitemap generates XML sitemaps and sitemap indexes following the
sitemaps.org protocol (http://www.sitemaps.org/protocol.html).

A Writer collects URLs and writes them to disk. A sitemap may hold at most
50000 URLs; when more are added, Write splits them into numbered files and
writes an index referencing each of them.

Example of use:

	w := sitemap.NewWriter(
		sitemap.DefaultChangeFrequency(sitemap.Weekly),
		sitemap.DefaultPriority(0.5),
		sitemap.IndexBaseURL("http://example.com/"),
	)
	w.Add("http://example.com/")
	w.Add("http://example.com/about", sitemap.LastModified(sitemap.Today), sitemap.Priority(0.8))

	files, err := w.Write("public/sitemap.xml")

With up to 50000 URLs this writes public/sitemap.xml only. Beyond that it
writes public/sitemap1.xml, public/sitemap2.xml, ... and an index at
public/sitemap.xml:

	<?xml version='1.0' encoding='UTF-8'?>
	<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	<sitemap>
	<loc>http://example.com/sitemap1.xml</loc>
	<lastmod>2015-06-01</lastmod>
	</sitemap>
	...
	</sitemapindex>

The package also provides a Router, embedding a github.com/gorilla/mux.Router,
which registers routes as sitemap entries and serves the generated files.
*/
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Protocol constants written into every sitemap.
const (
	Namespace      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	SchemaInstance = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation = "http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd"
)

// MaxURLs is the maximum number of URLs a single sitemap file may hold.
const MaxURLs = 50000

// DateFormat is the W3C date layout used for lastmod values.
const DateFormat = "2006-01-02"

// ChangeFrequency is an optional attribute for sitemap entries.
type ChangeFrequency string

const (
	None    ChangeFrequency = ""
	Always  ChangeFrequency = "always"
	Hourly  ChangeFrequency = "hourly"
	Daily   ChangeFrequency = "daily"
	Weekly  ChangeFrequency = "weekly"
	Monthly ChangeFrequency = "monthly"
	Yearly  ChangeFrequency = "yearly"
	Never   ChangeFrequency = "never"
)

// ParseChangeFrequency returns s as a ChangeFrequency.
// The empty string is valid and means the entry has no changefreq.
func ParseChangeFrequency(s string) (ChangeFrequency, error) {
	switch f := ChangeFrequency(s); f {
	case None, Always, Hourly, Daily, Weekly, Monthly, Yearly, Never:
		return f, nil
	}
	return None, fmt.Errorf("%w: invalid changefreq value %q", ErrInvalidArgument, s)
}

// URLSet is a decoded sitemap (a urlset document).
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Entries []*Entry `xml:"url"`
}

// Entry is a decoded url block. Location holds the unescaped text.
type Entry struct {
	Location        string          `xml:"loc"`
	LastModified    string          `xml:"lastmod,omitempty"`    // optional
	ChangeFrequency ChangeFrequency `xml:"changefreq,omitempty"` // optional
	Priority        string          `xml:"priority,omitempty"`   // optional
}

// ReadURLSet decodes a sitemap from r.
func ReadURLSet(r io.Reader) (*URLSet, error) {
	set := new(URLSet)
	if err := xml.NewDecoder(r).Decode(set); err != nil {
		return nil, fmt.Errorf("decode urlset: %w", err)
	}
	return set, nil
}
