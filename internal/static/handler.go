package static

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Handler serves the built frontend bundle and the compiled wasm engine
// from a single directory.
type Handler struct {
	dir string
}

func NewHandler(dir string) *Handler {
	return &Handler{dir: dir}
}

// Serve returns the file-serving handler. Bundler output under /assets/
// is content-hashed and cached forever; everything else revalidates so a
// redeployed wasm build is picked up without a hard refresh. Paths
// without an extension fall back to index.html.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/assets/") {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
			fs.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-cache")

		full := filepath.Join(h.dir, filepath.Clean(path))
		if info, err := os.Stat(full); err != nil || info.IsDir() {
			if filepath.Ext(path) == "" {
				r.URL.Path = "/"
			}
		}
		fs.ServeHTTP(w, r)
	})
}
