// file: models/vote.go
package models

import (
	"time"
)

type VoteTarget string

type VoteValue string

const (
	VoteTargetDiscussion VoteTarget = "discussion"
	VoteTargetComment    VoteTarget = "comment"

	VoteValueUp   VoteValue = "up"
	VoteValueDown VoteValue = "down"
)

// Vote 每个用户对每个对象至多一行，由唯一索引保证
// 赞/踩互斥——同一行的 Value 字段切换即可，不存在两个集合都出现的状态
type Vote struct {
	ID         uint64     `gorm:"primarykey"`
	VoterID    uint32     `gorm:"not null;uniqueIndex:idx_vote_voter_target"`
	TargetKind VoteTarget `gorm:"size:20;not null;uniqueIndex:idx_vote_voter_target"`
	TargetID   uint32     `gorm:"not null;uniqueIndex:idx_vote_voter_target;index:idx_vote_target"`
	Value      VoteValue  `gorm:"size:10;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Vote) TableName() string {
	return "ctf_vote"
}
