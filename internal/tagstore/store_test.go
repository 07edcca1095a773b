package tagstore_test

import (
	"testing"

	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/tagstore"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *tagstore.Store {
	t.Helper()
	store := tagstore.New()
	store.Append(
		models.PhotoRecord{ID: "1_picnic.jpg"},
		models.PhotoRecord{ID: "2_birthday.jpg"},
	)
	return store
}

func TestStore_SetPlaceAndTime(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetPlace(0, "Park"))
	require.NoError(t, store.SetTime(0, "2024"))

	record, err := store.Record(0)
	require.NoError(t, err)
	require.Equal(t, "Park", record.Place)
	require.Equal(t, "2024", record.Time)

	require.ErrorIs(t, store.SetPlace(2, "Beach"), tagstore.ErrIndexOutOfRange)
	require.ErrorIs(t, store.SetTime(-1, "2023"), tagstore.ErrIndexOutOfRange)
}

func TestStore_AddTag(t *testing.T) {
	store := newTestStore(t)
	tag := models.PointTag{ID: "a", Type: models.TagTypePerson, Label: "Sam", X: 50, Y: 50}

	added, err := store.AddTag(0, tag)
	require.NoError(t, err)
	require.True(t, added)

	record, err := store.Record(0)
	require.NoError(t, err)
	require.Len(t, record.Tags, 1)
}

func TestStore_AddTag_duplicateSuppressed(t *testing.T) {
	store := newTestStore(t)
	tag := models.PointTag{ID: "a", Type: models.TagTypePerson, Label: "Sam", X: 50, Y: 50}

	added, err := store.AddTag(0, tag)
	require.NoError(t, err)
	require.True(t, added)

	// Same serialized content with a different ID still counts as a duplicate.
	duplicate := tag
	duplicate.ID = "b"
	added, err = store.AddTag(0, duplicate)
	require.NoError(t, err)
	require.False(t, added)

	record, err := store.Record(0)
	require.NoError(t, err)
	require.Len(t, record.Tags, 1)
}

func TestStore_AddTag_boundsChecked(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name string
		x, y float64
		ok   bool
	}{
		{name: "origin", x: 0, y: 0, ok: true},
		{name: "far corner", x: 100, y: 100, ok: true},
		{name: "negative x", x: -0.1, y: 50, ok: false},
		{name: "x too large", x: 100.1, y: 50, ok: false},
		{name: "negative y", x: 50, y: -1, ok: false},
		{name: "y too large", x: 50, y: 101, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := models.PointTag{Type: models.TagTypePerson, Label: tt.name, X: tt.x, Y: tt.y}
			_, err := store.AddTag(0, tag)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tagstore.ErrTagOutOfBounds)
			}
		})
	}
}

func TestStore_Records_copyOnWrite(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddTag(0, models.PointTag{Type: models.TagTypePerson, Label: "Sam", X: 1, Y: 1})
	require.NoError(t, err)

	records := store.Records()
	records[0].Place = "tampered"
	records[0].Tags[0].Label = "tampered"

	record, err := store.Record(0)
	require.NoError(t, err)
	require.Empty(t, record.Place)
	require.Equal(t, "Sam", record.Tags[0].Label)
}
