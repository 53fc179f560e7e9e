package domain

import "time"

// Video is a catalog record. Records are created once from seed data and
// never mutated afterwards.
type Video struct {
	// ID is the stable identifier of the video
	ID string

	// Title is the display title
	Title string

	// Description is the free-text description
	Description string

	// Duration is the display duration, e.g. "10:30"
	Duration string

	// ThumbnailURL is the poster image reference
	ThumbnailURL string

	// Tags are free-form labels used by search
	Tags []string

	// ViewCount is the number of views
	ViewCount int

	// Rating is the average rating in [0, 5]
	Rating float64

	// PublishedAt is the publication date
	PublishedAt time.Time
}

// Clone returns a copy that shares no slices with v.
func (v Video) Clone() Video {
	out := v
	if v.Tags != nil {
		out.Tags = append([]string(nil), v.Tags...)
	}
	return out
}

// CatalogRepository defines read access to the fixed video catalog
type CatalogRepository interface {
	// List returns every video in catalog order
	List() ([]Video, error)

	// GetByID returns a video by its ID, or nil when the catalog has no such video
	GetByID(id string) (*Video, error)
}
