package sitemap

import (
	"bufio"
	"os"

	"github.com/spf13/afero"
)

const xmlHeader = "<?xml version='1.0' encoding='UTF-8'?>\n"

const urlsetOpen = xmlHeader +
	`<urlset xmlns:xsi="` + SchemaInstance + `"` + "\n" +
	`        xsi:schemaLocation="` + Namespace + "\n" +
	`        ` + SchemaLocation + `"` + "\n" +
	`        xmlns="` + Namespace + `">` + "\n"

const urlsetClose = "</urlset>\n"

const indexOpen = xmlHeader +
	`<sitemapindex xmlns="` + Namespace + `">` + "\n"

const indexClose = "</sitemapindex>\n"

// writeFile truncates or creates path on fs and fills it with encode.
// The file is closed on every path; the first error wins.
func writeFile(fs afero.Fs, path string, encode func(*bufio.Writer)) (err error) {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &FileError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &FileError{Op: "close", Path: path, Err: cerr}
		}
	}()

	// bufio errors are sticky, so checking Flush covers every write.
	buf := bufio.NewWriter(f)
	encode(buf)
	if ferr := buf.Flush(); ferr != nil {
		return &FileError{Op: "write", Path: path, Err: ferr}
	}
	return nil
}

// encodeURLSet writes a urlset document holding urls.
func encodeURLSet(buf *bufio.Writer, urls []URL) {
	buf.WriteString(urlsetOpen)
	for i := range urls {
		u := &urls[i]
		buf.WriteString(" <url>\n  <loc>")
		buf.WriteString(u.loc)
		buf.WriteString("</loc>\n")
		writeOptional(buf, "lastmod", u.lastmod)
		writeOptional(buf, "changefreq", string(u.changefreq))
		writeOptional(buf, "priority", u.priority)
		buf.WriteString(" </url>\n")
	}
	buf.WriteString(urlsetClose)
}

// writeOptional skips unset values; an empty tag is never written.
func writeOptional(buf *bufio.Writer, tag, value string) {
	if value == "" {
		return
	}
	buf.WriteString("  <" + tag + ">")
	buf.WriteString(Escape(value))
	buf.WriteString("</" + tag + ">\n")
}
