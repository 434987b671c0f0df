package sitemap

import (
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Router has an embedded github.com/gorilla/mux.Router.
// It retains all functionalities of the router (unchanged)
// and has a few extra methods to register the routes which should belong to the sitemap.
//
// Example of use:
//
//	r := sitemap.NewRouter(mux.NewRouter(), "http://example.com", "local/path/to/sitemaps/cache")
//
//	// static route, listed in the sitemap
//	r.Register("/my/static/route").Handler(handler)
//
//	// secret route, not listed
//	r.HandleFunc("/my/secret/route", f)
//
//	// parameterized route, one entry per enumerated value
//	r.RegisterParam("/documents/{category}/{id:[A-Z]+}", func(cb func(...string) error) error {
//		for _, doc := range documents {
//			if err := cb("category", doc.Category, "id", doc.Id); err != nil {
//				return err
//			}
//		}
//		return nil
//	}).Handler(h)
//
//	r.HandleSitemaps()
//	http.Handle("/", r)
//
// An http GET on (r.Options.ServerPath + "sitemap.xml") then returns the sitemap,
// or the index of sitemap1.xml, sitemap2.xml, ... for large sites.
//
// See Register(), RegisterParam() and HandleSitemaps().
type Router struct {
	*mux.Router
	sitemapMutex  sync.RWMutex
	staticEntries []*path
	paramEntries  []*paramPath
	Options       *Options
}

// Options is used by Router.
type Options struct {
	CachePath              string          // path of a directory, to store sitemaps on disk
	ServerPath             string          // server path for sitemaps
	DefaultPriority        float64         // default priority for sitemap entries
	DefaultChangeFrequency ChangeFrequency // default changefreq for sitemap entries, optional
	Domain                 string          // domain for entries in the sitemap (multiple domains are not supported)
	Fs                     afero.Fs        // filesystem holding CachePath, the OS filesystem when nil
	Logger                 *zap.Logger     // no logging when nil
}

// DefaultOptions is the default options used when calling NewRouter().
var DefaultOptions = &Options{
	ServerPath:      "/",
	DefaultPriority: 0.5,
}

// indexName is the stem of the sitemap (or index) file, relative to CachePath.
const indexName = "sitemap.xml"

// path represents a static route.
type path struct {
	Priority float64
	Location string
}

// paramPath represents a parameterized route.
type paramPath struct {
	Priority   float64
	Route      *mux.Route
	Enumerator VariableEnumerator
}

// VariableEnumerator calls the callback as many times as there are routes allowed.
//
// The arguments passed to the callback should be as needed by github.com/gorilla/mux.Route.URL().
type VariableEnumerator func(callback func(pairs ...string) error) error

// NewRouter wraps router into a new Router, ready to register sitemap urls for the given domain.
//
// localPath is the path where to store the sitemaps when created.
//
// Change the routers options if you want more control on the sitemap creation:
//
//	r := NewRouter(router, "http://example.com", "cache/sitemaps")
//	r.Options.DefaultPriority = 1
//	r.Options.ServerPath = "/sitemaps/" // don't forget the trailing slash!
func NewRouter(router *mux.Router, domain, localPath string) *Router {
	if !strings.HasSuffix(localPath, "/") {
		localPath += "/"
	}
	options := new(Options)
	*options = *DefaultOptions
	options.Domain = domain
	options.CachePath = localPath
	return &Router{
		Router:  router,
		Options: options,
	}
}

// Register creates a static route (no variables in the path) and adds it to the sitemap.
func (r *Router) Register(pattern string) *mux.Route {
	r.staticEntries = append(r.staticEntries, &path{
		Location: pattern,
		Priority: r.Options.DefaultPriority,
	})
	return r.Path(pattern)
}

// RegisterParam creates a route with parameters (=variables) in the path.
// Each time the sitemap is (re-)created, enum is called to get the list of allowed variable values.
func (r *Router) RegisterParam(pattern string, enum VariableEnumerator) *mux.Route {
	route := r.Path(pattern)
	r.paramEntries = append(r.paramEntries, &paramPath{
		Route:      route,
		Priority:   r.Options.DefaultPriority,
		Enumerator: enum,
	})
	return route
}

func (r *Router) fs() afero.Fs {
	if r.Options.Fs == nil {
		return afero.NewOsFs()
	}
	return r.Options.Fs
}

func (r *Router) logger() *zap.Logger {
	if r.Options.Logger == nil {
		return zap.NewNop()
	}
	return r.Options.Logger
}

// GenerateSitemaps writes the sitemap of all registered routes into r.Options.CachePath.
// Large sites get sitemap1.xml, sitemap2.xml, and so on, indexed by sitemap.xml.
//
// All files created are returned (paths relative to r.Options.CachePath).
//
// It is safe to call GenerateSitemaps() even when they are served due to a call to HandleSitemaps().
// A read-write lock takes care of queueing requests until the sitemaps are generated.
func (r *Router) GenerateSitemaps() ([]string, error) {
	r.sitemapMutex.Lock()
	defer r.sitemapMutex.Unlock()
	return r.generate()
}

// generate must be called with sitemapMutex held for writing.
func (r *Router) generate() ([]string, error) {
	fs := r.fs()
	if err := fs.MkdirAll(r.Options.CachePath, 0o755); err != nil {
		return nil, &FileError{Op: "create directory", Path: r.Options.CachePath, Err: err}
	}

	w := NewWriter(
		DefaultChangeFrequency(r.Options.DefaultChangeFrequency),
		IndexBaseURL(r.Options.Domain+r.Options.ServerPath),
		WithFs(fs),
		WithLogger(r.logger()),
	)
	for _, entry := range r.staticEntries {
		if err := w.Add(r.Options.Domain+entry.Location, Priority(entry.Priority)); err != nil {
			return nil, err
		}
	}
	for _, entry := range r.paramEntries {
		err := entry.Enumerator(func(pairs ...string) error {
			route, err := entry.Route.URL(pairs...)
			if err != nil {
				return err
			}
			return w.Add(r.Options.Domain+route.String(), Priority(entry.Priority))
		})
		if err != nil {
			return nil, err
		}
	}

	if err := r.removeCached(); err != nil {
		return nil, err
	}
	files, err := w.Write(filepath.Join(r.Options.CachePath, indexName))
	for i, f := range files {
		files[i] = filepath.Base(f)
	}
	return files, err
}

var cachedSitemap = regexp.MustCompile(`^sitemap\d*\.xml$`)

// removeCached deletes the sitemap files of a previous generation.
func (r *Router) removeCached() error {
	fs := r.fs()
	infos, err := afero.ReadDir(fs, r.Options.CachePath)
	if err != nil {
		return &FileError{Op: "read directory", Path: r.Options.CachePath, Err: err}
	}
	for _, info := range infos {
		if info.IsDir() || !cachedSitemap.MatchString(info.Name()) {
			continue
		}
		name := filepath.Join(r.Options.CachePath, info.Name())
		if err := fs.Remove(name); err != nil {
			return &FileError{Op: "remove", Path: name, Err: err}
		}
	}
	return nil
}

// HandleSitemaps register routes to serve the sitemap files on the router. The http handler is returned.
//
// All routes registered are:
//
//	r.Options.ServerPath + "sitemap.xml"
//	r.Options.ServerPath + "sitemap%d.xml" // where %d is a replaced by a positive integer.
func (r *Router) HandleSitemaps() http.Handler {
	sitemapHandler := &sitemapHandler{
		router: r,
	}
	r.Handle(r.Options.ServerPath+"{file:sitemap\\d*\\.xml}", sitemapHandler)
	return sitemapHandler
}
