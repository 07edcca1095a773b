package repositories

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/sqlite"
)

// PhotoRepository persists stored photo metadata. The photo bytes live in
// the object store; only the public URL is kept here.
type PhotoRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewPhotoRepository(dbs *sqlite.Database, logger *slog.Logger) *PhotoRepository {
	return &PhotoRepository{
		dbs:    dbs,
		logger: logger.With("source", "PhotoRepository"),
	}
}

type photoRow struct {
	ID        int64     `db:"id"`
	ImageURL  string    `db:"image_url"`
	Place     string    `db:"place"`
	Time      string    `db:"time"`
	Tags      string    `db:"tags"`
	CreatedAt time.Time `db:"created_at"`
}

func (row photoRow) storedPhoto() (models.StoredPhoto, error) {
	photo := models.StoredPhoto{
		ID:        row.ID,
		ImageURL:  row.ImageURL,
		Place:     row.Place,
		Time:      row.Time,
		Tags:      []models.WireTag{},
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal([]byte(row.Tags), &photo.Tags); err != nil {
		return models.StoredPhoto{}, errors.Wrap(err, "unmarshal tags", slog.Int64("id", row.ID))
	}
	return photo, nil
}

// Insert stores one photo record and returns its ID.
func (r *PhotoRepository) Insert(
	ctx context.Context,
	imageURL, place, timeValue string,
	tags []models.WireTag,
) (int64, error) {
	if tags == nil {
		tags = []models.WireTag{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return 0, errors.Wrap(err, "marshal tags")
	}

	stmt := `INSERT INTO photos (image_url, place, time, tags) VALUES (?, ?, ?, ?)`
	result, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, imageURL, place, timeValue, string(tagsJSON))
	if err != nil {
		return 0, errors.Wrap(err, "insert photo", slog.String("imageURL", imageURL))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "read inserted photo ID")
	}
	return id, nil
}

// List returns all stored photos in insertion order. The feed renders them
// in exactly this order with no client-side re-sorting.
func (r *PhotoRepository) List(ctx context.Context) ([]models.StoredPhoto, error) {
	var rows []photoRow
	stmt := `SELECT id, image_url, place, time, tags, created_at FROM photos ORDER BY id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &rows, stmt); err != nil {
		return nil, errors.Wrap(err, "select photos")
	}

	photos := make([]models.StoredPhoto, 0, len(rows))
	for _, row := range rows {
		photo, err := row.storedPhoto()
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

// Latest returns up to n stored photos, newest first, for the profile
// gallery.
func (r *PhotoRepository) Latest(ctx context.Context, n int) ([]models.StoredPhoto, error) {
	var rows []photoRow
	stmt := `SELECT id, image_url, place, time, tags, created_at FROM photos ORDER BY id DESC LIMIT ?`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &rows, stmt, n); err != nil {
		return nil, errors.Wrap(err, "select latest photos")
	}

	photos := make([]models.StoredPhoto, 0, len(rows))
	for _, row := range rows {
		photo, err := row.storedPhoto()
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}
