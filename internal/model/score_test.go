package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRating(t *testing.T) {
	assert.Equal(t, 4.5, Rating(90))
	assert.Equal(t, 0.8, Rating(15))
	assert.Equal(t, 5.0, Rating(100))
	assert.Equal(t, 0.0, Rating(0))
	assert.Equal(t, 4.3, Rating(85))
}

func TestErrorScoreResult(t *testing.T) {
	r := ErrorScoreResult()
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, "error", r.Rationale)
	assert.Equal(t, ScoreStatusError, r.Status)
}
