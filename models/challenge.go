// file: models/challenge.go
package models

import (
	"time"
)

type ChallengeDifficulty string

const (
	ChallengeDifficultyEasy   ChallengeDifficulty = "easy"
	ChallengeDifficultyMedium ChallengeDifficulty = "medium"
	ChallengeDifficultyHard   ChallengeDifficulty = "hard"
)

// DefaultHintCost 没有作者提示时走 AI 生成，按此固定扣分
const DefaultHintCost = 50

type Challenge struct {
	ID          uint32              `gorm:"primarykey"`
	Title       string              `gorm:"size:100;not null"`
	Description string              `gorm:"type:text;not null"`
	Category    string              `gorm:"size:50;not null;index"`
	Difficulty  ChallengeDifficulty `gorm:"size:20;not null;index"`
	// Points 在创建时由 Difficulty 决定（100/200/300），之后不独立修改
	Points int    `gorm:"not null"`
	Flag   string `gorm:"size:255;not null"`
	// AuthorID 不允许为空；历史无主数据由启动修复任务归到 system 账号
	AuthorID uint32 `gorm:"not null;index"`
	Author   User   `gorm:"foreignKey:AuthorID"`
	Solves   uint   `gorm:"not null;default:0"`

	Hints       []Hint       `gorm:"foreignKey:ChallengeID"`
	Attachments []Attachment `gorm:"foreignKey:ChallengeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Challenge) TableName() string {
	return "ctf_challenge"
}

// Hint 作者预设提示，按 Position 排序展示
type Hint struct {
	ID          uint32 `gorm:"primarykey"`
	ChallengeID uint32 `gorm:"not null;index"`
	Position    int    `gorm:"not null"`
	Text        string `gorm:"type:text;not null"`
	Cost        int    `gorm:"not null;default:50"`
}

func (Hint) TableName() string {
	return "ctf_challenge_hint"
}
