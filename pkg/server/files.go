package server

import (
	"net/http"
	"path/filepath"
	"strings"
)

// filePrefix matches the URLs the predictor rewrites local input paths to.
const filePrefix = "/file="

// handleFile serves a file from the upload or media directory. Any other
// path is reported as missing so the route reveals nothing about the disk.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	path := filepath.Clean(strings.TrimPrefix(r.URL.Path, filePrefix))
	if !filepath.IsAbs(path) || !s.servable(path) {
		http.NotFound(w, r)
		return
	}

	file, err := s.files.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}

func (s *Server) servable(path string) bool {
	for _, dir := range []string{s.uploadDir, s.mediaDir} {
		if dir == "" {
			continue
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			continue
		}
		if rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
