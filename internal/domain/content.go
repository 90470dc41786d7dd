package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMediaType is returned when a media type string is not one of the supported values.
var ErrUnknownMediaType = errors.New("unknown media type")

// MediaType segments the recommendation and saved-content views.
type MediaType string

const (
	MediaBook     MediaType = "book"
	MediaPodcast  MediaType = "podcast"
	MediaVideo    MediaType = "video"
	MediaActivity MediaType = "activity"
)

// AllMediaTypes lists media types in segment order.
var AllMediaTypes = []MediaType{MediaBook, MediaPodcast, MediaVideo, MediaActivity}

// ParseMediaType converts a raw string (case-insensitive) into a MediaType.
func ParseMediaType(s string) (MediaType, error) {
	mt := MediaType(strings.ToLower(strings.TrimSpace(s)))
	if !mt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMediaType, s)
	}
	return mt, nil
}

// Valid reports whether mt is one of the supported media types.
func (mt MediaType) Valid() bool {
	switch mt {
	case MediaBook, MediaPodcast, MediaVideo, MediaActivity:
		return true
	default:
		return false
	}
}

// DisplayName returns the label used by the segmented control.
func (mt MediaType) DisplayName() string {
	switch mt {
	case MediaBook:
		return "Books"
	case MediaPodcast:
		return "Podcasts"
	case MediaVideo:
		return "Videos"
	case MediaActivity:
		return "Activities"
	default:
		return string(mt)
	}
}

// ContentItem is one recommendable piece of content.
type ContentItem struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical string form of a UUID derived from stable
	// content fields. It is the bookmark key.
	ID string `json:"id"`

	// ─────────────────────────────
	// Display
	// ─────────────────────────────

	Title       string    `json:"title"`
	MediaType   MediaType `json:"type"`
	Image       string    `json:"image"`
	Description string    `json:"description"`

	// Link is the external URI. Nil means "no external link".
	Link *string `json:"link,omitempty"`
}

// HasLink reports whether the item carries an external link.
func (c *ContentItem) HasLink() bool {
	return c.Link != nil && *c.Link != ""
}
