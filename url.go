package sitemap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Today, given as a last modification value, is replaced by the current UTC date.
const Today = "today"

// URL is a single sitemap entry (a url block in the XML file).
// Its fields are fixed once built by NewURL.
type URL struct {
	loc        string
	lastmod    string
	changefreq ChangeFrequency
	priority   string
}

// Location returns the location, escaped unless NoEscape was given.
func (u URL) Location() string { return u.loc }

// LastModified returns the lastmod value, or "" when unset.
func (u URL) LastModified() string { return u.lastmod }

// ChangeFrequency returns the changefreq value, or None when unset.
func (u URL) ChangeFrequency() ChangeFrequency { return u.changefreq }

// Priority returns the priority value, or "" when unset.
func (u URL) Priority() string { return u.priority }

// URLOption sets an optional field of a URL.
type URLOption func(*urlConfig)

type urlConfig struct {
	lastmod    any
	changefreq ChangeFrequency
	priority   any
	escape     bool
	now        func() time.Time
}

// LastModified sets the date of last modification: a string (Today is
// resolved to the current date), a time.Time, or anything with a string form.
// A nil value leaves the field to its default.
func LastModified(v any) URLOption {
	return func(c *urlConfig) {
		if v != nil {
			c.lastmod = v
		}
	}
}

// Frequency sets the expected change frequency. None leaves the field to its default.
func Frequency(f ChangeFrequency) URLOption {
	return func(c *urlConfig) {
		if f != None {
			c.changefreq = f
		}
	}
}

// Priority sets the priority relative to other URLs of the site.
// The value is stored in its string form and is not range checked.
// A nil value leaves the field to its default.
func Priority(v any) URLOption {
	return func(c *urlConfig) {
		if v != nil {
			c.priority = v
		}
	}
}

// NoEscape stores the location verbatim. The caller must make sure it is XML safe.
func NoEscape() URLOption {
	return func(c *urlConfig) { c.escape = false }
}

// At sets the clock used to resolve Today.
func At(now func() time.Time) URLOption {
	return func(c *urlConfig) { c.now = now }
}

// NewURL builds a URL for location loc.
func NewURL(loc string, opts ...URLOption) (URL, error) {
	c := urlConfig{escape: true, now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c.build(loc)
}

func (c *urlConfig) build(loc string) (URL, error) {
	freq, err := ParseChangeFrequency(string(c.changefreq))
	if err != nil {
		return URL{}, err
	}
	lastmod, err := c.lastModified()
	if err != nil {
		return URL{}, err
	}
	priority, err := toString(c.priority)
	if err != nil {
		return URL{}, fmt.Errorf("%w: priority: %v", ErrInvalidArgument, err)
	}
	if c.escape {
		loc = Escape(loc)
	}
	return URL{
		loc:        loc,
		lastmod:    lastmod,
		changefreq: freq,
		priority:   priority,
	}, nil
}

func (c *urlConfig) lastModified() (string, error) {
	switch v := c.lastmod.(type) {
	case string:
		if v == Today {
			return c.now().UTC().Format(DateFormat), nil
		}
		return v, nil
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(DateFormat), nil
		}
		return v.Format(time.RFC3339), nil
	}
	s, err := toString(c.lastmod)
	if err != nil {
		return "", fmt.Errorf("%w: lastmod: %v", ErrInvalidArgument, err)
	}
	return s, nil
}

// toString renders floats with at least one decimal, so 1.0 stays "1.0".
func toString(v any) (string, error) {
	switch f := v.(type) {
	case float64:
		return withDecimal(strconv.FormatFloat(f, 'f', -1, 64)), nil
	case float32:
		return withDecimal(strconv.FormatFloat(float64(f), 'f', -1, 32)), nil
	}
	return cast.ToStringE(v)
}

func withDecimal(s string) string {
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"'", "&apos;",
	`"`, "&quot;",
	">", "&gt;",
	"<", "&lt;",
)

// Escape replaces the five XML special characters of s with entity references.
// Every character is replaced once, so an ampersand is never escaped twice.
// Invalid UTF-8 is replaced by U+FFFD.
func Escape(s string) string {
	return escaper.Replace(strings.ToValidUTF8(s, "�"))
}
