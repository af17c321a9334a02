// file: utils/scoring_test.go
package utils

import (
	"testing"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeFlag(t *testing.T) {
	assert.Equal(t, "ctf{flag}", NormalizeFlag("  CTF{Flag}  "))
	assert.Equal(t, "ctf{flag}", NormalizeFlag("ctf{flag}"))
	assert.Equal(t, "", NormalizeFlag("   "))
}

func TestPointsForDifficulty(t *testing.T) {
	assert.Equal(t, 100, PointsForDifficulty(models.ChallengeDifficultyEasy))
	assert.Equal(t, 200, PointsForDifficulty(models.ChallengeDifficultyMedium))
	assert.Equal(t, 300, PointsForDifficulty(models.ChallengeDifficultyHard))
	assert.Equal(t, 100, PointsForDifficulty("unknown"))
}

func TestClearanceLevel(t *testing.T) {
	assert.Equal(t, 1, ClearanceLevel(0))
	assert.Equal(t, 1, ClearanceLevel(-50))
	assert.Equal(t, 1, ClearanceLevel(99))
	assert.Equal(t, 2, ClearanceLevel(100))
	assert.Equal(t, 5, ClearanceLevel(400))
	assert.Equal(t, 10, ClearanceLevel(900))
	assert.Equal(t, 10, ClearanceLevel(100000))
}
