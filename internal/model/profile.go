package model

import "time"

// Profile is an ideal-customer profile: opaque model-written text plus
// provenance. Profiles are immutable once created; the active profile for a
// category is the most recently created one.
type Profile struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Text        string    `json:"text"`
	SourceFiles []string  `json:"source_files,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DefaultCategory partitions profiles and scoring runs when the caller does
// not name a product line.
const DefaultCategory = "default"
