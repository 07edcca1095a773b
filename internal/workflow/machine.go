// Package workflow drives the family-facing tagging flow through its states:
// collect a photo batch, finalize place and time, tag people, and submit
// everything to the upload API.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/models"
	"github.com/memora-app/memora/internal/tagstore"
)

// State is the single workflow state value. Transitions are monotonic:
// Collecting → Finalizing → Tagging → Submitting → Complete, with
// Tagging → Finalizing as the only backward edge.
type State string

const (
	StateCollecting State = "collecting"
	StateFinalizing State = "finalizing"
	StateTagging    State = "tagging"
	StateSubmitting State = "submitting"
	StateComplete   State = "complete"
)

var (
	// ErrMissingFile signals a collect event without any files.
	ErrMissingFile = errors.NewSentinel("no file selected")
	// ErrMalformedTag signals a tag submit with an empty label or type.
	ErrMalformedTag = errors.NewSentinel("tag needs a type and a non-empty label")
	// ErrInvalidState signals an event that the current state does not accept.
	ErrInvalidState = errors.NewSentinel("event not accepted in current state")
	// ErrEditLocked signals a place/time edit after finalization.
	ErrEditLocked = errors.NewSentinel("place and time are locked after finalization")
	// ErrNoPendingPoint signals a tag submit without a preceding point-add.
	ErrNoPendingPoint = errors.NewSentinel("no pending tag point")
)

// Uploader submits one finished record to the upload API.
type Uploader interface {
	Upload(ctx context.Context, record models.PhotoRecord) (url string, err error)
}

// PendingPoint is a clicked coordinate waiting for its type and label.
type PendingPoint struct {
	X float64
	Y float64
}

// Machine is the tagging workflow state machine. It owns a tag store for
// the session and submits through the configured uploader.
//
// Upload failures during submit are logged and skipped: there is no retry
// and no rollback, and the machine always finishes in StateComplete. It is
// not safe for concurrent use; callers serialize events.
type Machine struct {
	state     State
	store     *tagstore.Store
	finalized bool
	selected  int
	pending   *PendingPoint
	uploader  Uploader
	logger    *slog.Logger
	now       func() time.Time
}

func NewMachine(uploader Uploader, logger *slog.Logger) *Machine {
	return &Machine{
		state:    StateCollecting,
		store:    tagstore.New(),
		selected: -1,
		uploader: uploader,
		logger:   logger.With("source", "workflow.Machine"),
		now:      time.Now,
	}
}

func (m *Machine) State() State {
	return m.state
}

// Records returns a copy of the collected records in collection order.
func (m *Machine) Records() []models.PhotoRecord {
	return m.store.Records()
}

// Finalized reports whether place and time edits are locked.
func (m *Machine) Finalized() bool {
	return m.finalized
}

// Collect builds one record per file, in order, and moves to Finalizing.
//
// Collecting again once the batch is populated is a no-op, guarding against
// duplicate submissions. An empty batch fails with ErrMissingFile.
func (m *Machine) Collect(files []models.FileSource) error {
	if m.state != StateCollecting {
		return nil
	}
	if len(files) == 0 {
		return errors.Wrap(ErrMissingFile, "collect batch")
	}
	collectedAt := m.now().UnixMilli()
	records := make([]models.PhotoRecord, 0, len(files))
	for _, file := range files {
		records = append(records, models.PhotoRecord{
			ID:     fmt.Sprintf("%d_%s", collectedAt, file.Name),
			Source: file,
		})
	}
	m.store.Append(records...)
	m.state = StateFinalizing
	m.logger.Debug("collected batch", "count", len(records))
	return nil
}

// SetPlace replaces the place of the record at index. Only valid in
// Finalizing before the finalize event.
func (m *Machine) SetPlace(index int, place string) error {
	if err := m.ensureEditable(); err != nil {
		return err
	}
	return m.store.SetPlace(index, place)
}

// SetTime replaces the time of the record at index. Only valid in
// Finalizing before the finalize event.
func (m *Machine) SetTime(index int, value string) error {
	if err := m.ensureEditable(); err != nil {
		return err
	}
	return m.store.SetTime(index, value)
}

func (m *Machine) ensureEditable() error {
	if m.state != StateFinalizing {
		return errors.Wrap(ErrInvalidState, "edit metadata", slog.String("state", string(m.state)))
	}
	if m.finalized {
		return errors.Wrap(ErrEditLocked, "edit metadata")
	}
	return nil
}

// Finalize freezes place and time edits for all records at once. The
// machine stays in Finalizing until a record is selected for tagging.
func (m *Machine) Finalize() error {
	if m.state != StateFinalizing {
		return errors.Wrap(ErrInvalidState, "finalize", slog.String("state", string(m.state)))
	}
	m.finalized = true
	return nil
}

// StartTagging selects the record at index and moves to Tagging. It
// requires a finalized batch.
func (m *Machine) StartTagging(index int) error {
	if m.state != StateFinalizing || !m.finalized {
		return errors.Wrap(ErrInvalidState, "start tagging", slog.String("state", string(m.state)))
	}
	if _, err := m.store.Record(index); err != nil {
		return err
	}
	m.selected = index
	m.state = StateTagging
	return nil
}

// Selected returns the record currently selected for tagging and its index.
func (m *Machine) Selected() (models.PhotoRecord, int, error) {
	if m.state != StateTagging {
		return models.PhotoRecord{}, -1, errors.Wrap(ErrInvalidState, "selected record",
			slog.String("state", string(m.state)))
	}
	record, err := m.store.Record(m.selected)
	return record, m.selected, err
}

// AddPoint records a clicked coordinate, opening the pending-tag prompt.
func (m *Machine) AddPoint(x, y float64) error {
	if m.state != StateTagging {
		return errors.Wrap(ErrInvalidState, "add point", slog.String("state", string(m.state)))
	}
	m.pending = &PendingPoint{X: x, Y: y}
	return nil
}

// Pending returns the point waiting for its type and label.
func (m *Machine) Pending() (PendingPoint, bool) {
	if m.pending == nil {
		return PendingPoint{}, false
	}
	return *m.pending, true
}

// SubmitTag attaches a type and label to the pending point and appends the
// resulting tag to the selected record. A missing type or empty label fails
// with ErrMalformedTag and mutates nothing; callers log and carry on, which
// preserves the silently-ignored behavior at the UI surface. A tag whose
// serialized content duplicates an existing one is dropped.
func (m *Machine) SubmitTag(tagType models.TagType, label string) error {
	if m.state != StateTagging {
		return errors.Wrap(ErrInvalidState, "submit tag", slog.String("state", string(m.state)))
	}
	if m.pending == nil {
		return errors.Wrap(ErrNoPendingPoint, "submit tag")
	}
	if label == "" || (tagType != models.TagTypePerson && tagType != models.TagTypeOther) {
		return errors.Wrap(ErrMalformedTag, "submit tag", slog.String("type", string(tagType)))
	}

	tag := models.PointTag{
		ID:    uuid.NewString(),
		Type:  tagType,
		Label: label,
		X:     m.pending.X,
		Y:     m.pending.Y,
	}
	added, err := m.store.AddTag(m.selected, tag)
	m.pending = nil
	if err != nil {
		return err
	}
	if !added {
		m.logger.Debug("dropped duplicate tag", "label", label)
	}
	return nil
}

// Back returns from Tagging to Finalizing without discarding any tags.
func (m *Machine) Back() error {
	if m.state != StateTagging {
		return errors.Wrap(ErrInvalidState, "back", slog.String("state", string(m.state)))
	}
	m.selected = -1
	m.pending = nil
	m.state = StateFinalizing
	return nil
}

// Finish submits every record to the uploader sequentially, one in-flight
// request at a time, in collection order. Individual failures are logged
// and skipped; the machine transitions to Complete regardless of per-record
// outcome.
func (m *Machine) Finish(ctx context.Context) error {
	if m.state != StateTagging {
		return errors.Wrap(ErrInvalidState, "finish", slog.String("state", string(m.state)))
	}
	m.selected = -1
	m.pending = nil
	m.state = StateSubmitting

	for _, record := range m.store.Records() {
		url, err := m.uploader.Upload(ctx, record)
		if err != nil {
			m.logger.LogAttrs(ctx, slog.LevelError, "upload failed",
				slog.String("recordID", record.ID), errors.SlogError(err))
			continue
		}
		m.logger.LogAttrs(ctx, slog.LevelDebug, "uploaded record",
			slog.String("recordID", record.ID), slog.String("url", url))
	}

	m.state = StateComplete
	return nil
}
