// file: models/comment.go
package models

import (
	"time"
)

type Comment struct {
	ID           uint32 `gorm:"primarykey"`
	Content      string `gorm:"size:2000;not null"`
	AuthorID     uint32 `gorm:"not null;index"`
	Author       User   `gorm:"foreignKey:AuthorID"`
	DiscussionID uint32 `gorm:"not null;index"`

	// ParentCommentID 一层回复；父评论必须属于同一讨论串
	ParentCommentID *uint32  `gorm:"index"`
	ParentComment   *Comment `gorm:"foreignKey:ParentCommentID"`

	// IsSolution 同一讨论串下至多一条评论为 true，
	// 由单条 UPDATE 语句（清旧标新）维护
	IsSolution bool `gorm:"not null;default:false"`
	Edited     bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Comment) TableName() string {
	return "ctf_comment"
}
