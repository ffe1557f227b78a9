// Package model defines the records flowing through the lead-scoring pipeline.
package model

import "time"

// Lead is one row of a lost-leads table. The semantic fields the pipeline
// computes with are typed and named; everything else from the source file is
// kept in Fields so arbitrary input schemas survive a round trip.
type Lead struct {
	Name    string `json:"name"`
	Owner   string `json:"owner"`
	Product string `json:"product"`
	Reason  string `json:"reason"`
	Value   float64 `json:"value"`

	Date    time.Time `json:"date,omitzero"`
	HasDate bool      `json:"has_date"`

	// Residual source columns not mapped to a semantic field.
	Fields map[string]string `json:"fields,omitempty"`

	// Derived by the scoring and rotation stages.
	Score          int         `json:"score"`
	Rating         float64     `json:"rating"`
	Rationale      string      `json:"rationale"`
	Status         ScoreStatus `json:"status"`
	SuggestedOwner string      `json:"suggested_owner,omitempty"`
}
