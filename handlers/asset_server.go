package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/camden-git/camerahub/media"
)

// AssetServer creates a handler that serves stored assets through the media
// store, which owns the path resolution and traversal checks. The route
// prefix must match subDir:
//
//	r.Get("/snapshots/*", AssetServer(mediaStore, "snapshots"))
func AssetServer(store media.Store, subDir string) http.HandlerFunc {
	log.Printf("Serving assets for '/%s/*' from the media store", subDir)

	return func(w http.ResponseWriter, r *http.Request) {
		// e.g., for route /snapshots/* and request /snapshots/alice/photo.jpg, extract "alice/photo.jpg"
		routePrefix := "/api/" + subDir + "/"
		relativePath := strings.TrimPrefix(r.URL.Path, routePrefix)

		if relativePath == "" || strings.Contains(relativePath, "..") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		reader, info, err := store.Get(path.Join(subDir, relativePath))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error opening asset %s: %v", relativePath, err)
			return
		}
		defer reader.Close()

		if contentType := mime.TypeByExtension(filepath.Ext(info.Name())); contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		if seeker, ok := reader.(io.ReadSeeker); ok {
			http.ServeContent(w, r, info.Name(), info.ModTime(), seeker)
			return
		}
		if _, err := io.Copy(w, reader); err != nil {
			log.Printf("Error streaming asset %s: %v", relativePath, err)
		}
	}
}
