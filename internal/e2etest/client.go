// Package e2etest drives a running Memora server the way a browser would:
// cookies, CSRF tokens, form posts, and multipart uploads.
package e2etest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/justinas/nosurf"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/models"
)

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates a cookie-aware HTTP client for the server at url.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar},
		url:    url,
	}, nil
}

// WaitForReady calls the endpoint until it gets a HTTP 200 Success response
// or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	var (
		err  error
		resp *http.Response
		doc  *goquery.Document
	)
	if resp, err = c.Get(ctx, urlPath); err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// PostForm posts form values to urlPath with a fresh CSRF token scraped from
// csrfPagePath and returns the response. Redirects are followed, so the
// returned document reflects the post-redirect page.
func (c *Client) PostForm(ctx context.Context, urlPath, csrfPagePath string, form url.Values) (*http.Response, error) {
	csrfToken, err := c.csrfToken(ctx, csrfPagePath)
	if err != nil {
		return nil, errors.Wrap(err, "fetch CSRF token")
	}

	req, err := c.newRequestWithContext(ctx, http.MethodPost, urlPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(nosurf.HeaderName, csrfToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// PostMultipart posts files and fields as a multipart form, carrying a CSRF
// token like PostForm. Every file goes into the fileField.
func (c *Client) PostMultipart(
	ctx context.Context,
	urlPath, csrfPagePath, fileField string,
	files []models.FileSource,
	fields url.Values,
) (*http.Response, error) {
	csrfToken, err := c.csrfToken(ctx, csrfPagePath)
	if err != nil {
		return nil, errors.Wrap(err, "fetch CSRF token")
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for _, file := range files {
		fileWriter, err := form.CreateFormFile(fileField, file.Name)
		if err != nil {
			return nil, errors.Wrap(err, "create file field")
		}
		if _, err = fileWriter.Write(file.Content); err != nil {
			return nil, errors.Wrap(err, "write file content")
		}
	}
	for field, values := range fields {
		for _, value := range values {
			if err = form.WriteField(field, value); err != nil {
				return nil, errors.Wrap(err, "write form field", slog.String("field", field))
			}
		}
	}
	if err = form.Close(); err != nil {
		return nil, errors.Wrap(err, "close form")
	}

	req, err := c.newRequestWithContext(ctx, http.MethodPost, urlPath, &body)
	if err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set(nosurf.HeaderName, csrfToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// csrfToken scrapes the CSRF token hidden input from the page at pagePath.
func (c *Client) csrfToken(ctx context.Context, pagePath string) (string, error) {
	doc, err := c.GetDoc(ctx, pagePath)
	if err != nil {
		return "", errors.Wrap(err, "get document")
	}
	token, ok := doc.Find(`input[name="csrf_token"]`).First().Attr("value")
	if !ok {
		return "", errors.New("csrf token not found", slog.String("pagePath", pagePath))
	}
	return token, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)
	if req, err = http.NewRequest(method, c.url+urlPath, body); err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return req.WithContext(ctx), nil
}
