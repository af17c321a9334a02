// file: models/discussion.go
package models

import (
	"time"
)

type Discussion struct {
	ID       uint32 `gorm:"primarykey"`
	Title    string `gorm:"size:200;not null"`
	Content  string `gorm:"size:5000;not null"`
	AuthorID uint32 `gorm:"not null;index"`
	Author   User   `gorm:"foreignKey:AuthorID"`

	Tags     []DiscussionTag `gorm:"foreignKey:DiscussionID"`
	Comments []Comment       `gorm:"foreignKey:DiscussionID"`

	IsPinned bool `gorm:"not null;default:false"`
	IsClosed bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Discussion) TableName() string {
	return "ctf_discussion"
}

// DiscussionTag 标签按 (DiscussionID, Tag) 去重，入库前统一小写
type DiscussionTag struct {
	ID           uint64 `gorm:"primarykey"`
	DiscussionID uint32 `gorm:"not null;uniqueIndex:idx_discussion_tag;index"`
	Tag          string `gorm:"size:20;not null;uniqueIndex:idx_discussion_tag;index"`
}

func (DiscussionTag) TableName() string {
	return "ctf_discussion_tag"
}
