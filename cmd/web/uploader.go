package main

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/objectstore"
	"github.com/memora-app/memora/internal/repositories"
)

// storeUploader is the in-process implementation of workflow.Uploader: it
// writes the photo bytes to the object store and the metadata row to the
// repository, the same work the upload endpoint does for remote clients.
type storeUploader struct {
	objects objectstore.Store
	photos  *repositories.PhotoRepository
	logger  *slog.Logger
}

func (u *storeUploader) Upload(ctx context.Context, record models.PhotoRecord) (string, error) {
	content := record.Source.Content
	url, err := u.objects.Put(ctx, record.ID, bytes.NewReader(content), int64(len(content)), record.Source.ContentType)
	if err != nil {
		return "", errors.Wrap(err, "store photo object", slog.String("recordID", record.ID))
	}

	if _, err = u.photos.Insert(ctx, url, record.Place, record.Time, models.WireTags(record.Tags)); err != nil {
		return "", errors.Wrap(err, "insert photo row", slog.String("recordID", record.ID))
	}

	return url, nil
}
