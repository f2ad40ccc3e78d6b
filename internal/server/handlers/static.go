package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// StaticHandler serves the built frontend from a directory. Paths that do not name a
// file fall back to index.html so client side routes resolve.
type StaticHandler struct {
	dir   string
	files http.Handler
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{
		dir:   dir,
		files: http.FileServer(http.Dir(dir)),
	}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	if name != "/" {
		info, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(strings.TrimPrefix(name, "/"))))
		if err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	}

	index, err := os.Open(filepath.Join(h.dir, "index.html"))
	if err != nil {
		slog.Debug("No frontend build found", "handler", "static", "dir", h.dir)
		http.NotFound(w, r)
		return
	}
	defer index.Close()

	info, err := index.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, "index.html", info.ModTime(), index)
}
