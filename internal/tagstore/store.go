// Package tagstore holds the ordered list of photo records collected during
// one tagging session. Mutations are copy-on-write so that record slices
// handed out to callers never alias the store's internal state.
package tagstore

import (
	"log/slog"
	"slices"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/models"
)

var (
	ErrIndexOutOfRange = errors.NewSentinel("photo index out of range")
	ErrTagOutOfBounds  = errors.NewSentinel("tag coordinates outside image bounds")
)

// Store owns the photo records for the duration of the tagging workflow.
// It is not safe for concurrent use; the workflow serializes access.
type Store struct {
	records []models.PhotoRecord
}

func New() *Store {
	return &Store{}
}

// Append adds records to the end of the store, preserving order.
func (s *Store) Append(records ...models.PhotoRecord) {
	s.records = append(slices.Clone(s.records), records...)
}

func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a deep copy of the stored records in collection order.
func (s *Store) Records() []models.PhotoRecord {
	records := slices.Clone(s.records)
	for i := range records {
		records[i].Tags = slices.Clone(records[i].Tags)
	}
	return records
}

// Record returns a copy of the record at index.
func (s *Store) Record(index int) (models.PhotoRecord, error) {
	if index < 0 || index >= len(s.records) {
		return models.PhotoRecord{}, errors.Wrap(ErrIndexOutOfRange, "get record", slog.Int("index", index))
	}
	record := s.records[index]
	record.Tags = slices.Clone(record.Tags)
	return record, nil
}

// SetPlace replaces the place of the record at index.
func (s *Store) SetPlace(index int, place string) error {
	return s.update(index, func(record *models.PhotoRecord) {
		record.Place = place
	})
}

// SetTime replaces the time of the record at index.
func (s *Store) SetTime(index int, time string) error {
	return s.update(index, func(record *models.PhotoRecord) {
		record.Time = time
	})
}

// AddTag appends tag to the record at index.
//
// Coordinates must lie within [0, 100]x[0, 100]. A tag whose type, label,
// and coordinates match an existing tag on the same record is dropped;
// the returned bool reports whether the tag was actually added.
func (s *Store) AddTag(index int, tag models.PointTag) (bool, error) {
	if tag.X < 0 || tag.X > 100 || tag.Y < 0 || tag.Y > 100 {
		return false, errors.Wrap(ErrTagOutOfBounds, "add tag",
			slog.Float64("x", tag.X), slog.Float64("y", tag.Y))
	}
	if index < 0 || index >= len(s.records) {
		return false, errors.Wrap(ErrIndexOutOfRange, "add tag", slog.Int("index", index))
	}

	duplicate := slices.ContainsFunc(s.records[index].Tags, func(existing models.PointTag) bool {
		return existing.Type == tag.Type &&
			existing.Label == tag.Label &&
			existing.X == tag.X &&
			existing.Y == tag.Y
	})
	if duplicate {
		return false, nil
	}

	err := s.update(index, func(record *models.PhotoRecord) {
		record.Tags = append(slices.Clone(record.Tags), tag)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) update(index int, mutate func(*models.PhotoRecord)) error {
	if index < 0 || index >= len(s.records) {
		return errors.Wrap(ErrIndexOutOfRange, "update record", slog.Int("index", index))
	}
	records := slices.Clone(s.records)
	mutate(&records[index])
	s.records = records
	return nil
}
