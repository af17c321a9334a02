// file: models/solve.go
package models

import (
	"time"
)

// Solve 用户解题记录。(UserID, ChallengeID) 唯一索引即"已解集合"，
// 重复提交正确 Flag 时靠它保证不重复计分
type Solve struct {
	ID            uint64 `gorm:"primarykey"`
	UserID        uint32 `gorm:"not null;uniqueIndex:idx_solve_user_challenge"`
	ChallengeID   uint32 `gorm:"not null;uniqueIndex:idx_solve_user_challenge;index"`
	PointsAwarded int    `gorm:"not null"`
	CreatedAt     time.Time
}

func (Solve) TableName() string {
	return "ctf_solve"
}

// HintUnlock 提示解锁台账。(UserID, HintID) 唯一，
// 同一提示只扣一次分，之后免费返回缓存文本
type HintUnlock struct {
	ID          uint64 `gorm:"primarykey"`
	UserID      uint32 `gorm:"not null;uniqueIndex:idx_unlock_user_hint"`
	HintID      uint32 `gorm:"not null;uniqueIndex:idx_unlock_user_hint"`
	ChallengeID uint32 `gorm:"not null;index"`
	CostPaid    int    `gorm:"not null"`
	CreatedAt   time.Time
}

func (HintUnlock) TableName() string {
	return "ctf_hint_unlock"
}

// TodoItem 用户自选的待做题目，按插入顺序展示
type TodoItem struct {
	ID          uint64 `gorm:"primarykey"`
	UserID      uint32 `gorm:"not null;uniqueIndex:idx_todo_user_challenge"`
	ChallengeID uint32 `gorm:"not null;uniqueIndex:idx_todo_user_challenge"`
	CreatedAt   time.Time
}

func (TodoItem) TableName() string {
	return "ctf_todo_item"
}
