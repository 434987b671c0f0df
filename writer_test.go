package sitemap

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestWriter(fs afero.Fs, opts ...Option) *Writer {
	return NewWriter(append([]Option{WithFs(fs), WithClock(frozen(testNow))}, opts...)...)
}

func addN(t *testing.T, w *Writer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, w.Add(fmt.Sprintf("http://example.com/page/%d", i)))
	}
}

func readURLSet(t *testing.T, fs afero.Fs, name string) *URLSet {
	t.Helper()
	f, err := fs.Open(name)
	require.NoError(t, err)
	defer f.Close()
	set, err := ReadURLSet(f)
	require.NoError(t, err)
	return set
}

func readIndex(t *testing.T, fs afero.Fs, name string) *Index {
	t.Helper()
	f, err := fs.Open(name)
	require.NoError(t, err)
	defer f.Close()
	index, err := ReadIndex(f)
	require.NoError(t, err)
	return index
}

func TestWriteSingleFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs, DefaultChangeFrequency(Daily))
	require.NoError(t, w.Add("http://example.com/?a=1&b=2", LastModified("2015-01-01"), Priority(0.8)))
	require.NoError(t, w.Add("http://example.com/plain", Frequency(Never)))

	files, err := w.Write("sitemap")
	require.NoError(t, err)
	assert.Equal(t, []string{"sitemap.xml"}, files)
	assert.False(t, w.IndexRequired())

	data, err := afero.ReadFile(fs, "sitemap.xml")
	require.NoError(t, err)
	want := "<?xml version='1.0' encoding='UTF-8'?>\n" +
		`<urlset xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` + "\n" +
		`        xsi:schemaLocation="http://www.sitemaps.org/schemas/sitemap/0.9` + "\n" +
		`        http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd"` + "\n" +
		`        xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n" +
		" <url>\n" +
		"  <loc>http://example.com/?a=1&amp;b=2</loc>\n" +
		"  <lastmod>2015-01-01</lastmod>\n" +
		"  <changefreq>daily</changefreq>\n" +
		"  <priority>0.8</priority>\n" +
		" </url>\n" +
		" <url>\n" +
		"  <loc>http://example.com/plain</loc>\n" +
		"  <changefreq>never</changefreq>\n" +
		" </url>\n" +
		"</urlset>\n"
	assert.Equal(t, want, string(data))

	set := readURLSet(t, fs, "sitemap.xml")
	require.Len(t, set.Entries, 2)
	assert.Equal(t, "http://example.com/?a=1&b=2", set.Entries[0].Location)
}

func TestWriteOmitsUnsetFields(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs)
	require.NoError(t, w.Add("http://example.com/", LastModified("2015-01-01")))

	_, err := w.Write("out.xml")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "out.xml")
	require.NoError(t, err)
	assert.Contains(t, string(data), " <url>\n  <loc>http://example.com/</loc>\n  <lastmod>2015-01-01</lastmod>\n </url>\n")
	assert.NotContains(t, string(data), "<priority>")
	assert.NotContains(t, string(data), "<changefreq>")
}

func TestAddUsesDefaults(t *testing.T) {
	w := newTestWriter(afero.NewMemMapFs(),
		DefaultLastModified(Today),
		DefaultChangeFrequency(Weekly),
		DefaultPriority("0.3"))

	require.NoError(t, w.Add("http://example.com/a"))
	require.NoError(t, w.Add("http://example.com/b", Priority(1.0), Frequency(Yearly), LastModified("2001-01-01")))
	require.NoError(t, w.Add("http://example.com/c", Priority(nil), Frequency(None), LastModified(nil)))

	urls := w.URLs()
	require.Len(t, urls, 3)
	for _, i := range []int{0, 2} {
		assert.Equal(t, "2015-06-01", urls[i].LastModified())
		assert.Equal(t, Weekly, urls[i].ChangeFrequency())
		assert.Equal(t, "0.3", urls[i].Priority())
	}
	assert.Equal(t, "2001-01-01", urls[1].LastModified())
	assert.Equal(t, Yearly, urls[1].ChangeFrequency())
	assert.Equal(t, "1.0", urls[1].Priority())
}

func TestAddRejectsInvalidDefault(t *testing.T) {
	w := newTestWriter(afero.NewMemMapFs(), DefaultChangeFrequency("sometimes"))

	err := w.Add("http://example.com/")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0, w.Len())

	require.NoError(t, w.Add("http://example.com/", Frequency(Hourly)))
	assert.Equal(t, 1, w.Len())
}

func TestURLsIsACopy(t *testing.T) {
	w := newTestWriter(afero.NewMemMapFs())
	addN(t, w, 2)

	urls := w.URLs()
	urls[0] = URL{}
	assert.Equal(t, "http://example.com/page/0", w.URLs()[0].Location())
}

func TestWriteExactlyMaxURLs(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs)
	addN(t, w, MaxURLs)

	files, err := w.Write("sitemap")
	require.NoError(t, err)
	assert.Equal(t, []string{"sitemap.xml"}, files)
	assert.False(t, w.IndexRequired())

	exists, err := afero.Exists(fs, "sitemap1.xml")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Len(t, readURLSet(t, fs, "sitemap.xml").Entries, MaxURLs)
}

func TestWriteSplitsWithIndex(t *testing.T) {
	fs := afero.NewMemMapFs()
	// 22:30 at UTC-2 is already June 1st in UTC.
	late := time.Date(2015, 5, 31, 22, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))
	w := newTestWriter(fs, IndexBaseURL("http://example.com/maps/"), WithClock(frozen(late)))
	addN(t, w, MaxURLs+1)

	files, err := w.Write("sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"sitemap1.xml", "sitemap2.xml", "sitemap.xml"}, files)
	assert.Equal(t, []string{"sitemap1.xml", "sitemap2.xml"}, w.Files())
	assert.True(t, w.IndexRequired())

	first := readURLSet(t, fs, "sitemap1.xml")
	require.Len(t, first.Entries, MaxURLs)
	assert.Equal(t, "http://example.com/page/0", first.Entries[0].Location)
	second := readURLSet(t, fs, "sitemap2.xml")
	require.Len(t, second.Entries, 1)
	assert.Equal(t, fmt.Sprintf("http://example.com/page/%d", MaxURLs), second.Entries[0].Location)

	index := readIndex(t, fs, "sitemap.xml")
	require.Len(t, index.SitemapRefs, 2)
	assert.Equal(t, "http://example.com/maps/sitemap1.xml", index.SitemapRefs[0].Location)
	assert.Equal(t, "http://example.com/maps/sitemap2.xml", index.SitemapRefs[1].Location)
	for _, ref := range index.SitemapRefs {
		assert.Equal(t, "2015-06-01", ref.LastModified)
	}

	data, err := afero.ReadFile(fs, "sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, "<?xml version='1.0' encoding='UTF-8'?>\n"+
		`<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`+"\n"+
		"<sitemap>\n<loc>http://example.com/maps/sitemap1.xml</loc>\n<lastmod>2015-06-01</lastmod>\n</sitemap>\n"+
		"<sitemap>\n<loc>http://example.com/maps/sitemap2.xml</loc>\n<lastmod>2015-06-01</lastmod>\n</sitemap>\n"+
		"</sitemapindex>\n", string(data))
}

func TestWriteTwiceListsEachFileOnce(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs)
	addN(t, w, MaxURLs+1)

	_, err := w.Write("sitemap")
	require.NoError(t, err)
	files, err := w.Write("sitemap")
	require.NoError(t, err)
	assert.Equal(t, []string{"sitemap1.xml", "sitemap2.xml", "sitemap.xml"}, files)

	index := readIndex(t, fs, "sitemap.xml")
	assert.Len(t, index.SitemapRefs, 2)
}

func TestWriteIntoDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("public", 0o755))
	w := newTestWriter(fs)
	addN(t, w, MaxURLs+1)

	files, err := w.Write("public/map")
	require.NoError(t, err)
	assert.Equal(t, []string{"public/map1.xml", "public/map2.xml", "public/map.xml"}, files)

	index := readIndex(t, fs, "public/map.xml")
	require.Len(t, index.SitemapRefs, 2)
	assert.Equal(t, "/map1.xml", index.SitemapRefs[0].Location)
}

func TestWriteDefaultName(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs)
	addN(t, w, 1)

	files, err := w.Write("")
	require.NoError(t, err)
	assert.Equal(t, []string{"sitemap.xml"}, files)
}

func TestWriteTruncatesExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "sitemap.xml", []byte(strings.Repeat("x", 10000)), 0o644))
	w := newTestWriter(fs)
	addN(t, w, 1)

	_, err := w.Write("sitemap")
	require.NoError(t, err)
	data, err := afero.ReadFile(fs, "sitemap.xml")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "</urlset>\n"))
	assert.NotContains(t, string(data), "xxxx")
}

func TestWriteOpenFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	w := newTestWriter(fs)
	addN(t, w, 1)

	files, err := w.Write("sitemap")
	require.Error(t, err)
	assert.Empty(t, files)
	assert.ErrorIs(t, err, ErrIO)

	var ferr *FileError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "open", ferr.Op)
	assert.Equal(t, "sitemap.xml", ferr.Path)
	assert.Contains(t, err.Error(), "sitemap.xml")
}

var errDiskFull = errors.New("disk full")

// failingFs fails every write to the file named target and counts its closes.
type failingFs struct {
	afero.Fs
	target string
	closes int
}

func (fs *failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := fs.Fs.OpenFile(name, flag, perm)
	if err != nil || name != fs.target {
		return f, err
	}
	return &failingFile{File: f, fs: fs}, nil
}

type failingFile struct {
	afero.File
	fs *failingFs
}

func (f *failingFile) Write([]byte) (int, error)       { return 0, errDiskFull }
func (f *failingFile) WriteString(string) (int, error) { return 0, errDiskFull }

func (f *failingFile) Close() error {
	f.fs.closes++
	return f.File.Close()
}

func TestWriteFailures(t *testing.T) {
	t.Run("Second chunk", func(t *testing.T) {
		fs := &failingFs{Fs: afero.NewMemMapFs(), target: "s2.xml"}
		w := newTestWriter(fs)
		addN(t, w, MaxURLs+1)

		files, err := w.Write("s")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIO)
		assert.ErrorIs(t, err, errDiskFull)

		var ferr *FileError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, "write", ferr.Op)
		assert.Equal(t, "s2.xml", ferr.Path)

		assert.Equal(t, []string{"s1.xml"}, files)
		assert.Equal(t, 1, fs.closes)
		assert.Len(t, readURLSet(t, fs, "s1.xml").Entries, MaxURLs)

		exists, err := afero.Exists(fs, "s.xml")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Index", func(t *testing.T) {
		fs := &failingFs{Fs: afero.NewMemMapFs(), target: "s.xml"}
		w := newTestWriter(fs)
		addN(t, w, MaxURLs+1)

		files, err := w.Write("s")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIO)

		var ferr *FileError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, "write", ferr.Op)
		assert.Equal(t, "s.xml", ferr.Path)

		assert.Equal(t, []string{"s1.xml", "s2.xml"}, files)
		assert.Equal(t, []string{"s1.xml", "s2.xml"}, w.Files())
		assert.Equal(t, 1, fs.closes)
		assert.Len(t, readURLSet(t, fs, "s2.xml").Entries, 1)
	})
}

func TestWriteNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs)

	files, err := w.Write("sitemap")
	require.NoError(t, err)
	assert.Empty(t, files)
}
