package model

import "math"

// ScoreStatus distinguishes a model-assigned zero from a failed request.
// The source data this pipeline replaced conflated the two; exports carry
// the status so a reader can tell them apart.
type ScoreStatus string

const (
	ScoreStatusPending ScoreStatus = "pending"
	ScoreStatusScored  ScoreStatus = "scored"
	ScoreStatusError   ScoreStatus = "error"
)

// ScoreResult is the per-lead outcome of a scoring run.
type ScoreResult struct {
	Score     int         `json:"score"`
	Rating    float64     `json:"rating"`
	Rationale string      `json:"rationale"`
	Status    ScoreStatus `json:"status"`
}

// ErrorScoreResult is the default a failed item resolves to; the batch
// continues and the failure stays visible through Status.
func ErrorScoreResult() ScoreResult {
	return ScoreResult{Score: 0, Rating: 0, Rationale: "error", Status: ScoreStatusError}
}

// Rating maps a 0-100 fit score onto the 0-5 display scale, one decimal.
func Rating(score int) float64 {
	return math.Round(float64(score)/20*10) / 10
}
