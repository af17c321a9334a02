// file: models/attachment.go
package models

import (
	"time"
)

// Attachment 题目附件，文件落盘到上传目录，这里只存元数据
type Attachment struct {
	ID          uint64 `gorm:"primarykey"`
	ChallengeID uint32 `gorm:"not null;index"`
	FileName    string `gorm:"size:255;not null"`
	// StoredName 磁盘上的 uuid 文件名，避免用户可控路径
	StoredName string `gorm:"size:64;not null;uniqueIndex"`
	FileSize   int64  `gorm:"not null"`
	MimeType   string `gorm:"size:100"`
	CreatedAt  time.Time
}

func (Attachment) TableName() string {
	return "ctf_attachment"
}
