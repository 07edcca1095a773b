package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/memora-app/memora/internal/e2etest"
	"github.com/memora-app/memora/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postDoc(t *testing.T, client *e2etest.Client, urlPath string, form url.Values) *goquery.Document {
	t.Helper()
	resp, err := client.PostForm(context.Background(), urlPath, "/family", form)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode, "POST %s", urlPath)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

// Test_application_familyWorkflow walks the whole tagging flow through the
// browser-facing endpoints: collect two photos, set place and time, tag one
// person on the first photo, finish, and verify what the list API returns.
func Test_application_familyWorkflow(t *testing.T) {
	t.Parallel()
	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	files := []models.FileSource{
		{Name: "picnic.jpg", ContentType: "image/jpeg", Content: []byte("first photo")},
		{Name: "garden.jpg", ContentType: "image/jpeg", Content: []byte("second photo")},
	}
	resp, err := client.PostMultipart(ctx, "/family/photos", "/family", "photos", files, url.Values{})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, 2, doc.Find(".record").Length())

	postDoc(t, client, "/family/photos/0/place", url.Values{"place": {"Park"}})
	postDoc(t, client, "/family/photos/0/time", url.Values{"time": {"2024"}})
	doc = postDoc(t, client, "/family/finalize", url.Values{})
	require.Contains(t, doc.Text(), "Park")

	// Place and time are locked after finalization.
	resp, err = client.PostForm(ctx, "/family/photos/0/place", "/family", url.Values{"place": {"Beach"}})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	doc = postDoc(t, client, "/family/photos/0/tag-session", url.Values{})
	require.Contains(t, doc.Text(), "picnic.jpg")

	tagForm := url.Values{"x": {"50"}, "y": {"50"}, "type": {"person"}, "label": {"Sam"}}
	doc = postDoc(t, client, "/family/tags", tagForm)
	require.Equal(t, 1, doc.Find(".tag-list li").Length())

	// An exact duplicate is dropped.
	doc = postDoc(t, client, "/family/tags", tagForm)
	require.Equal(t, 1, doc.Find(".tag-list li").Length())

	// A malformed tag is ignored without failing the request.
	doc = postDoc(t, client, "/family/tags", url.Values{"x": {"10"}, "y": {"10"}, "type": {"person"}, "label": {""}})
	require.Equal(t, 1, doc.Find(".tag-list li").Length())

	doc = postDoc(t, client, "/family/finish", url.Values{})
	require.Contains(t, doc.Text(), "Photos shared")

	// Both photos went through the upload path in collection order.
	resp, err = client.Get(ctx, "/api/images")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var photos []models.StoredPhoto
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&photos))
	require.Len(t, photos, 2)

	require.True(t, strings.HasSuffix(photos[0].ImageURL, "picnic.jpg"))
	require.Equal(t, "Park", photos[0].Place)
	require.Equal(t, "2024", photos[0].Time)
	require.Equal(t, []models.WireTag{
		{Type: models.TagTypePerson, Name: "Sam", X: 50, Y: 50},
	}, photos[0].Tags)

	require.True(t, strings.HasSuffix(photos[1].ImageURL, "garden.jpg"))
	require.Empty(t, photos[1].Tags)
}

func Test_application_familyCollect_missingFile(t *testing.T) {
	t.Parallel()
	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	resp, err := client.PostMultipart(ctx, "/family/photos", "/family", "photos", nil, url.Values{})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_application_familyTags_requireTaggingState(t *testing.T) {
	t.Parallel()
	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	resp, err := client.PostForm(ctx, "/family/tags", "/family",
		url.Values{"x": {"50"}, "y": {"50"}, "type": {"person"}, "label": {"Sam"}})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}
