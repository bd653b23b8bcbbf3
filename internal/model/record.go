package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Location is a coordinate pair captured at classification time.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ClassificationRecord is one classification attempt. While it is the
// current result it carries the full-resolution image; once committed to
// history the image is replaced by a thumbnail encoding.
type ClassificationRecord struct {
	ID          string        `json:"id"`
	ImageData   []byte        `json:"imageData"`
	ImageMIME   string        `json:"imageMime"`
	Category    WasteCategory `json:"category"`
	Confidence  *float64      `json:"confidence,omitempty"`
	Reasoning   string        `json:"reasoning,omitempty"`
	Suggestions []string      `json:"suggestions"`
	Timestamp   int64         `json:"timestamp"`
	Location    *Location     `json:"location,omitempty"`
}

// NewRecordID generates a collision-resistant identifier without central
// coordination: base36 epoch millis plus a random suffix.
func NewRecordID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return ts + suffix
}
