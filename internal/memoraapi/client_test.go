package memoraapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memora-app/memora/internal/memoraapi"
	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestClient_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		require.Equal(t, "Park", r.FormValue("place"))
		require.Equal(t, "2024", r.FormValue("time"))
		require.JSONEq(t, `[{"type":"person","name":"Sam","x":50,"y":50}]`, r.FormValue("tags"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() {
			require.NoError(t, file.Close())
		}()
		require.Equal(t, "picnic.jpg", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, []byte("jpeg bytes"), content)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{
			"url": "http://localhost:9000/photos/1_picnic.jpg",
		}))
	}))
	defer server.Close()

	client := memoraapi.NewClient(server.URL, testhelpers.NewLogger(io.Discard))
	record := models.PhotoRecord{
		ID:     "1_picnic.jpg",
		Source: models.FileSource{Name: "picnic.jpg", ContentType: "image/jpeg", Content: []byte("jpeg bytes")},
		Place:  "Park",
		Time:   "2024",
		Tags: []models.PointTag{
			{ID: "t1", Type: models.TagTypePerson, Label: "Sam", X: 50, Y: 50},
		},
	}

	url, err := client.Upload(context.Background(), record)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000/photos/1_picnic.jpg", url)
}

func TestClient_Upload_emptyTagsSerializeAsArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		require.Equal(t, "[]", r.FormValue("tags"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"u"}`))
	}))
	defer server.Close()

	client := memoraapi.NewClient(server.URL, testhelpers.NewLogger(io.Discard))
	_, err := client.Upload(context.Background(), models.PhotoRecord{
		Source: models.FileSource{Name: "a.jpg"},
	})
	require.NoError(t, err)
}

func TestClient_Upload_serverError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"storage unavailable"}`))
	}))
	defer server.Close()

	client := memoraapi.NewClient(server.URL, testhelpers.NewLogger(io.Discard))
	_, err := client.Upload(context.Background(), models.PhotoRecord{
		Source: models.FileSource{Name: "a.jpg"},
	})
	require.ErrorIs(t, err, memoraapi.ErrUploadTransport)
}

func TestClient_ListImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/images", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"ImageUrl":"u1","place":"Park","time":"2024","tags":[{"type":"person","name":"Sam","x":50,"y":50}]},
			{"id":2,"ImageUrl":"u2","place":"","time":"","tags":[]}
		]`))
	}))
	defer server.Close()

	client := memoraapi.NewClient(server.URL, testhelpers.NewLogger(io.Discard))
	photos, err := client.ListImages(context.Background())
	require.NoError(t, err)
	require.Len(t, photos, 2)
	require.Equal(t, "u1", photos[0].ImageURL)
	require.Equal(t, "Sam", photos[0].Tags[0].Name)

	record := photos[0].Record()
	require.Equal(t, []string{"Sam"}, record.PersonLabels())
}
