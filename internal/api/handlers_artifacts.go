// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package api

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/comolive/internal/cache"
)

// Artifact serves a file from the artifact cache.
//
// @Summary Download a cached artifact
// @Description Serves a rendered image, its EPS companion or a cached text answer by file name.
// @Tags Artifacts
// @Produce image/jpeg
// @Produce application/postscript
// @Produce text/html
// @Produce text/plain
// @Param name path string true "Artifact file name (key plus extension)"
// @Success 200 {file} file
// @Failure 404 {object} models.APIResponse "No such artifact"
// @Router /artifacts/{name} [get]
func (h *Handler) Artifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.store == nil || !h.store.Enabled() || !cache.IsArtifactName(name) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Artifact not found", nil)
		return
	}

	path := filepath.Join(h.store.Dir(), name)
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to read artifact", err)
			return
		}
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Artifact not found", nil)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to read artifact", err)
		return
	}

	w.Header().Set("Content-Type", cache.ContentType(filepath.Ext(name)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	http.ServeContent(w, r, name, info.ModTime(), f)
}
