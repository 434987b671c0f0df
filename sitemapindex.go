package sitemap

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
)

// Index is a decoded sitemap index.
type Index struct {
	XMLName     xml.Name         `xml:"sitemapindex"`
	SitemapRefs []*FileReference `xml:"sitemap"`
}

// FileReference is a reference to a sitemap (given by full URL) and its last modification.
type FileReference struct {
	Location     string `xml:"loc"`
	LastModified string `xml:"lastmod,omitempty"` // optional
}

// ReadIndex decodes a sitemap index from r.
func ReadIndex(r io.Reader) (*Index, error) {
	index := new(Index)
	if err := xml.NewDecoder(r).Decode(index); err != nil {
		return nil, fmt.Errorf("decode sitemapindex: %w", err)
	}
	return index, nil
}

// writeIndex writes "<stem>.xml", listing every file of w.files under w.baseURL.
// Files are referenced by base name, the directory they were written to is not
// part of their URL.
func (w *Writer) writeIndex(stem string) (string, error) {
	name := stem + ".xml"
	lastmod := w.now().UTC().Format(DateFormat)
	err := writeFile(w.fs, name, func(buf *bufio.Writer) {
		buf.WriteString(indexOpen)
		for _, file := range w.files {
			buf.WriteString("<sitemap>\n<loc>")
			buf.WriteString(Escape(w.baseURL + filepath.Base(file)))
			buf.WriteString("</loc>\n<lastmod>")
			buf.WriteString(lastmod)
			buf.WriteString("</lastmod>\n</sitemap>\n")
		}
		buf.WriteString(indexClose)
	})
	return name, err
}
