package server

// static.go serves the pre-built client application

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/information-sharing-networks/newsposts/internal/logger"
	"github.com/information-sharing-networks/newsposts/internal/newsposts"
)

// staticFiles serves GET and HEAD requests for paths that name a regular file in dir.
// All other requests continue down the chain.
func staticFiles(dir string) func(http.Handler) http.Handler {
	root := http.Dir(dir)
	fileServer := http.FileServer(root)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			if !isRegularFile(root, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			fileServer.ServeHTTP(w, r)
		})
	}
}

func isRegularFile(root http.FileSystem, urlPath string) bool {
	f, err := root.Open(path.Clean("/" + urlPath))
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// spaFallback serves index.html for GET and HEAD requests no route matched,
// so client side routes can be loaded directly.
// Other methods, or a bundle without index.html, get a 404 error response.
func spaFallback(dir string) http.HandlerFunc {
	indexPath := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			newsposts.RespondWithErrorResponse(w, r, newsposts.NewNotFoundError("no route for "+r.Method+" "+r.URL.Path))
			return
		}

		f, err := os.Open(indexPath)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.ContextRequestLogger(r.Context()).Error("failed to open client index",
					slog.String("path", indexPath),
					slog.String("error", err.Error()),
				)
			}
			newsposts.RespondWithErrorResponse(w, r, newsposts.NewNotFoundError("not found: "+r.URL.Path))
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			newsposts.RespondWithErrorResponse(w, r, newsposts.WrapInternalError(err, "failed to stat client index"))
			return
		}

		w.Header().Set("Cache-Control", "no-cache")
		http.ServeContent(w, r, "index.html", info.ModTime(), f)
	}
}
