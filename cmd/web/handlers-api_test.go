package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/memora-app/memora/internal/memoraapi"
	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

// The API tests drive the server through the same client the CLI and the
// remote workflow use.
func Test_application_apiUploadAndList(t *testing.T) {
	t.Parallel()
	server := startTestServer(t)
	api := memoraapi.NewClient(server.URL(), testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	require.NoError(t, api.Healthy(ctx))

	uploadedURL, err := api.Upload(ctx, models.PhotoRecord{
		ID: "1_picnic.jpg",
		Source: models.FileSource{
			Name:        "picnic.jpg",
			ContentType: "image/jpeg",
			Content:     []byte("jpeg bytes"),
		},
		Place: "Park",
		Time:  "2024",
		Tags: []models.PointTag{
			{ID: "t1", Type: models.TagTypePerson, Label: "Sam", X: 50, Y: 50},
		},
	})
	require.NoError(t, err)
	require.Contains(t, uploadedURL, "picnic.jpg")

	photos, err := api.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	require.Equal(t, uploadedURL, photos[0].ImageURL)
	require.Equal(t, "Park", photos[0].Place)
	require.Equal(t, "2024", photos[0].Time)
	require.Equal(t, []models.WireTag{
		{Type: models.TagTypePerson, Name: "Sam", X: 50, Y: 50},
	}, photos[0].Tags)
}

func Test_application_apiUpload_missingFile(t *testing.T) {
	t.Parallel()
	server := startTestServer(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("place", "Park"))
	require.NoError(t, form.Close())

	resp, err := http.Post(server.URL()+"/api/upload", form.FormDataContentType(), &body)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "no file selected", payload.Error)
}

func Test_application_apiUpload_malformedTags(t *testing.T) {
	t.Parallel()
	server := startTestServer(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fileWriter, err := form.CreateFormFile("file", "picnic.jpg")
	require.NoError(t, err)
	_, err = fileWriter.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, form.WriteField("tags", "not json"))
	require.NoError(t, form.Close())

	resp, err := http.Post(server.URL()+"/api/upload", form.FormDataContentType(), &body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_application_apiImages_empty(t *testing.T) {
	t.Parallel()
	server := startTestServer(t)
	api := memoraapi.NewClient(server.URL(), testhelpers.NewLogger(io.Discard))

	photos, err := api.ListImages(context.Background())
	require.NoError(t, err)
	require.Empty(t, photos)
}
