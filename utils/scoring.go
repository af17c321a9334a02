// file: utils/scoring.go
package utils

import (
	"strings"

	"github.com/KANlKA/CTF-Platform/models"
)

// NormalizeFlag 提交值和库存值都经过同样的归一化再比较：去首尾空白、转小写
func NormalizeFlag(flag string) string {
	return strings.ToLower(strings.TrimSpace(flag))
}

// PointsForDifficulty 难度在创建时一次性折算成固定分值
func PointsForDifficulty(difficulty models.ChallengeDifficulty) int {
	switch difficulty {
	case models.ChallengeDifficultyEasy:
		return 100
	case models.ChallengeDifficultyMedium:
		return 200
	case models.ChallengeDifficultyHard:
		return 300
	default:
		return 100
	}
}

// ClearanceLevel 展示用的等级，纯派生值不落库
func ClearanceLevel(points int) int {
	if points <= 0 {
		return 1
	}
	level := points/100 + 1
	if level > 10 {
		return 10
	}
	return level
}
