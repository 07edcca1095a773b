package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/models"
)

type uploadResponse struct {
	URL string `json:"url"`
}

// apiUpload receives one photo as a multipart form with `file`, `place`,
// `time`, and `tags` (JSON array) fields. The bytes go to the object store
// under a timestamp-prefixed name, the metadata into the repository.
func (app *application) apiUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "malformed multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "no file selected"})
		return
	}
	defer func() {
		_ = file.Close()
	}()
	content, err := io.ReadAll(file)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "read uploaded file"))
		return
	}

	tags := []models.WireTag{}
	if tagsField := r.FormValue("tags"); tagsField != "" {
		if err = json.Unmarshal([]byte(tagsField), &tags); err != nil {
			app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "malformed tags"})
			return
		}
	}

	objectName := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), header.Filename)
	contentType := header.Header.Get("Content-Type")
	url, err := app.objects.Put(r.Context(), objectName, bytes.NewReader(content), int64(len(content)), contentType)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "store object", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusInternalServerError, jsonError{Error: "storing photo failed"})
		return
	}

	if _, err = app.photos.Insert(r.Context(), url, r.FormValue("place"), r.FormValue("time"), tags); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "insert photo row", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusInternalServerError, jsonError{Error: "storing photo metadata failed"})
		return
	}

	app.writeJSON(w, r, http.StatusOK, uploadResponse{URL: url})
}

// apiImages lists every stored photo in upload order, the order the feed
// renders them in.
func (app *application) apiImages(w http.ResponseWriter, r *http.Request) {
	photos, err := app.photos.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, photos)
}
