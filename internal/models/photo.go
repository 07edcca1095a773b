package models

import "time"

// TagType classifies a point tag on a photo.
type TagType string

const (
	TagTypePerson TagType = "person"
	TagTypeOther  TagType = "other"
)

// FileSource is the raw file content collected from the family member.
// The record owns it exclusively until the upload completes, after which
// the object store holds the durable copy.
type FileSource struct {
	Name        string
	ContentType string
	Content     []byte
}

// PointTag is a single labeled coordinate on a photo.
//
// X and Y are percentages in [0, 100] relative to the image bounding box
// at click time.
type PointTag struct {
	ID    string
	Type  TagType
	Label string
	X     float64
	Y     float64
}

// Wire converts the tag to the upload wire format.
func (t PointTag) Wire() WireTag {
	return WireTag{
		Type: t.Type,
		Name: t.Label,
		X:    t.X,
		Y:    t.Y,
	}
}

// WireTag is the JSON shape of a tag in the `tags` field of the upload form
// and in the list endpoint response.
type WireTag struct {
	Type TagType `json:"type"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// WireTags converts tags to the wire format. It always returns a non-nil
// slice so that the serialized form is `[]` rather than `null`.
func WireTags(tags []PointTag) []WireTag {
	wire := make([]WireTag, 0, len(tags))
	for _, t := range tags {
		wire = append(wire, t.Wire())
	}
	return wire
}

// PhotoRecord is the in-memory representation of one collected photo with
// its metadata and tags during the tagging workflow.
type PhotoRecord struct {
	// ID derives from the collection timestamp and the original filename.
	ID         string
	Source     FileSource
	PreviewURL string
	Place      string
	Time       string
	// Tags are kept in insertion order.
	Tags []PointTag
}

// PersonLabels returns the labels of the record's person tags in insertion
// order with duplicates removed.
func (r PhotoRecord) PersonLabels() []string {
	var labels []string
	seen := make(map[string]struct{}, len(r.Tags))
	for _, tag := range r.Tags {
		if tag.Type != TagTypePerson {
			continue
		}
		if _, ok := seen[tag.Label]; ok {
			continue
		}
		seen[tag.Label] = struct{}{}
		labels = append(labels, tag.Label)
	}
	return labels
}

// StoredPhoto is a photo record as returned by the list endpoint.
//
// The ImageUrl JSON casing is part of the frontend contract.
type StoredPhoto struct {
	ID        int64     `json:"id"`
	ImageURL  string    `json:"ImageUrl"`
	Place     string    `json:"place"`
	Time      string    `json:"time"`
	Tags      []WireTag `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// Record converts a stored photo into a PhotoRecord so that the quiz
// generator and the feed paginator can consume listed photos.
func (p StoredPhoto) Record() PhotoRecord {
	record := PhotoRecord{
		ID:         p.ImageURL,
		PreviewURL: p.ImageURL,
		Place:      p.Place,
		Time:       p.Time,
	}
	for _, t := range p.Tags {
		record.Tags = append(record.Tags, PointTag{
			Type:  t.Type,
			Label: t.Name,
			X:     t.X,
			Y:     t.Y,
		})
	}
	return record
}
