// Package memoraapi is the HTTP client for the upload and list endpoints.
// It implements workflow.Uploader, so a tagging session can submit straight
// to a remote Memora server.
package memoraapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/models"
)

// ErrUploadTransport wraps network and server failures during an upload.
var ErrUploadTransport = errors.NewSentinel("upload transport failure")

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With("source", "memoraapi.Client"),
	}
}

type uploadResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// Upload submits one record as a multipart form with fields file, place,
// time, and tags (JSON-encoded array). It returns the public URL of the
// stored photo.
func (c *Client) Upload(ctx context.Context, record models.PhotoRecord) (string, error) {
	tagsJSON, err := json.Marshal(models.WireTags(record.Tags))
	if err != nil {
		return "", errors.Wrap(err, "marshal tags")
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fileWriter, err := form.CreateFormFile("file", record.Source.Name)
	if err != nil {
		return "", errors.Wrap(err, "create file field")
	}
	if _, err = fileWriter.Write(record.Source.Content); err != nil {
		return "", errors.Wrap(err, "write file content")
	}
	for field, value := range map[string]string{
		"place": record.Place,
		"time":  record.Time,
		"tags":  string(tagsJSON),
	} {
		if err = form.WriteField(field, value); err != nil {
			return "", errors.Wrap(err, "write form field", slog.String("field", field))
		}
	}
	if err = form.Close(); err != nil {
		return "", errors.Wrap(err, "close form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return "", errors.Wrap(err, "create upload request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(ErrUploadTransport, err.Error())
	}
	defer c.closeBody(ctx, resp.Body)

	var decoded uploadResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.Wrap(ErrUploadTransport, "decode upload response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrap(ErrUploadTransport, "upload rejected",
			slog.Int("status", resp.StatusCode), slog.String("error", decoded.Error))
	}
	return decoded.URL, nil
}

// ListImages fetches all stored photo records in feed order.
func (c *Client) ListImages(ctx context.Context) ([]models.StoredPhoto, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/images", nil)
	if err != nil {
		return nil, errors.Wrap(err, "create list request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch images")
	}
	defer c.closeBody(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("list images rejected", slog.Int("status", resp.StatusCode))
	}
	var photos []models.StoredPhoto
	if err = json.NewDecoder(resp.Body).Decode(&photos); err != nil {
		return nil, errors.Wrap(err, "decode images response")
	}
	return photos, nil
}

// Healthy checks the liveness endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/healthy", nil)
	if err != nil {
		return errors.Wrap(err, "create healthy request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetch healthy")
	}
	defer c.closeBody(ctx, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return errors.New("server not healthy", slog.Int("status", resp.StatusCode))
	}
	return nil
}

func (c *Client) closeBody(ctx context.Context, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelError, "close response body", errors.SlogError(err))
	}
}
