package main

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_application_home(t *testing.T) {
	t.Parallel()
	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)

	require.Equal(t, 1, doc.Find(`button[value="family"]`).Length())
	require.Equal(t, 1, doc.Find(`button[value="patient"]`).Length())
}

func Test_application_chooseRole(t *testing.T) {
	t.Parallel()
	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	resp, err := client.PostForm(ctx, "/role", "/", url.Values{"role": {"family"}})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, resp.Body.Close())
	}()

	// The redirect lands on the family screen in its collecting state.
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find(`input[name="photos"]`).Length())
}

func Test_application_chooseRole_unknownRole(t *testing.T) {
	t.Parallel()
	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	resp, err := client.PostForm(ctx, "/role", "/", url.Values{"role": {"admin"}})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
