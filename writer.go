package sitemap

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultBaseName is the file name Write uses when given an empty one.
const DefaultBaseName = "sitemap"

// Writer collects sitemap URLs and writes them to one or more files.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	lastmod    any
	changefreq ChangeFrequency
	priority   any
	baseURL    string

	fs  afero.Fs
	log *zap.Logger
	now func() time.Time

	urls          []URL
	files         []string
	indexRequired bool
}

// Option configures a Writer.
type Option func(*Writer)

// DefaultLastModified sets the lastmod used by Add when none is given.
func DefaultLastModified(v any) Option {
	return func(w *Writer) { w.lastmod = v }
}

// DefaultChangeFrequency sets the changefreq used by Add when none is given.
// It is validated by Add.
func DefaultChangeFrequency(f ChangeFrequency) Option {
	return func(w *Writer) { w.changefreq = f }
}

// DefaultPriority sets the priority used by Add when none is given.
func DefaultPriority(v any) Option {
	return func(w *Writer) { w.priority = v }
}

// IndexBaseURL sets the prefix of every sitemap location listed in the index.
// Defaults to "/".
func IndexBaseURL(url string) Option {
	return func(w *Writer) { w.baseURL = url }
}

// WithFs sets the filesystem files are written to. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(w *Writer) { w.fs = fs }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Writer) { w.log = l }
}

// WithClock sets the clock used for Today and for index lastmod dates.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// NewWriter creates an empty Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		baseURL: "/",
		fs:      afero.NewOsFs(),
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add appends a URL. Fields not set by opts take the writer's defaults.
// Nothing is added if the resulting changefreq is invalid.
func (w *Writer) Add(loc string, opts ...URLOption) error {
	c := urlConfig{
		lastmod:    w.lastmod,
		changefreq: w.changefreq,
		priority:   w.priority,
		escape:     true,
		now:        w.now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	u, err := c.build(loc)
	if err != nil {
		return err
	}
	w.urls = append(w.urls, u)
	return nil
}

// Len returns the number of URLs added.
func (w *Writer) Len() int { return len(w.urls) }

// URLs returns a copy of the added URLs, in insertion order.
func (w *Writer) URLs() []URL {
	return append([]URL(nil), w.urls...)
}

// Files returns the sitemap files produced by the last call to Write, index excluded.
func (w *Writer) Files() []string {
	return append([]string(nil), w.files...)
}

// IndexRequired reports whether the last call to Write had to split the URLs.
func (w *Writer) IndexRequired() bool { return w.indexRequired }

// Write writes all URLs to files named after baseName, a path whose ".xml"
// suffix is optional.
//
// Up to MaxURLs URLs go to "<base>.xml". Beyond that, they are split into
// "<base>1.xml", "<base>2.xml", ... and an index is written to "<base>.xml".
// Existing files are truncated.
//
// All files written are returned, the index last. On failure the error is a
// *FileError; files written before it are left in place and returned.
func (w *Writer) Write(baseName string) ([]string, error) {
	if baseName == "" {
		baseName = DefaultBaseName
	}
	stem := strings.TrimSuffix(baseName, ".xml")

	w.files = nil
	w.indexRequired = len(w.urls) > MaxURLs

	for i, chunk := range chunks(w.urls, MaxURLs) {
		name := stem + ".xml"
		if w.indexRequired {
			name = fmt.Sprintf("%s%d.xml", stem, i+1)
		}
		err := writeFile(w.fs, name, func(buf *bufio.Writer) {
			encodeURLSet(buf, chunk)
		})
		if err != nil {
			w.log.Error("Can't write sitemap", zap.String("file", name), zap.Error(err))
			return w.Files(), err
		}
		w.files = append(w.files, name)
		w.log.Debug("Sitemap written", zap.String("file", name), zap.Int("urls", len(chunk)))
	}

	written := w.Files()
	if w.indexRequired {
		index, err := w.writeIndex(stem)
		if err != nil {
			w.log.Error("Can't write sitemap index", zap.String("file", index), zap.Error(err))
			return written, err
		}
		written = append(written, index)
	}

	w.log.Info("Sitemap created",
		zap.Int("urls", len(w.urls)),
		zap.Int("files", len(w.files)),
		zap.Bool("index", w.indexRequired))
	return written, nil
}

// chunks splits urls into consecutive slices of at most n elements.
func chunks(urls []URL, n int) [][]URL {
	var out [][]URL
	for len(urls) > n {
		out = append(out, urls[:n:n])
		urls = urls[n:]
	}
	if len(urls) > 0 {
		out = append(out, urls)
	}
	return out
}
