package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// spaHandler serves the front-end build directory. Paths that do not match a
// file fall back to the entry document so client-side routing keeps working.
type spaHandler struct {
	staticDir string
	index     string
}

func newSPAHandler(staticDir, index string) spaHandler {
	return spaHandler{staticDir: staticDir, index: index}
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(filepath.Clean(r.URL.Path), "/")
	path := filepath.Join(h.staticDir, rel)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.staticDir, h.index))
		return
	}
	http.FileServer(http.Dir(h.staticDir)).ServeHTTP(w, r)
}
