package sitemap

import (
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// sitemapHandler handles the requests to sitemaps.
// It uses the router's read-write lock to ensure only valid sitemaps are served.
// The sitemaps are created automatically on the first request.
type sitemapHandler struct {
	router      *Router
	fileHandler http.Handler
}

// ServeHTTP serves the sitemaps from disk.
// It generates the files if they don't exist.
func (sh *sitemapHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	mutex := &sh.router.sitemapMutex
	mutex.RLock()
	ready := sh.fileHandler != nil
	mutex.RUnlock()

	if !ready {
		if err := sh.init(); err != nil {
			sh.router.logger().Error("Can't generate sitemaps", zap.Error(err))
			http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
			return
		}
	}

	mutex.RLock()
	defer mutex.RUnlock()
	sh.fileHandler.ServeHTTP(w, req)
}

// init generates the sitemaps unless already on disk, and sets up the file handler.
func (sh *sitemapHandler) init() error {
	r := sh.router
	r.sitemapMutex.Lock()
	defer r.sitemapMutex.Unlock()

	if sh.fileHandler != nil {
		return nil
	}

	fs := r.fs()
	exists, err := afero.Exists(fs, filepath.Join(r.Options.CachePath, indexName))
	if err != nil {
		return err
	}
	if !exists {
		if _, err := r.generate(); err != nil {
			return err
		}
	}
	sh.fileHandler = http.StripPrefix(r.Options.ServerPath,
		http.FileServer(afero.NewHttpFs(fs).Dir(r.Options.CachePath)))
	return nil
}
