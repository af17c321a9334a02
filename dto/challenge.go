// file: dto/challenge.go
package dto

import "strings"

// ========== 请求 DTO ==========

type HintReq struct {
	Text string `json:"text"`
	Cost int    `json:"cost"`
}

type CreateChallengeReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"` // easy / medium / hard
	Flag        string    `json:"flag"`
	Hints       []HintReq `json:"hints"`
}

func (r *CreateChallengeReq) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
}

type SubmitFlagReq struct {
	Flag string `json:"flag"`
}

type UseHintReq struct {
	// HintID 兼容历史数据：优先按 id 解析，失败再按提示原文匹配
	HintID string `json:"hintId"`
}

// ========== 响应 DTO ==========

type AttachmentResp struct {
	ID       uint64 `json:"id"`
	FileName string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype"`
}

type ChallengeResp struct {
	ID          uint32           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Difficulty  string           `json:"difficulty"`
	Points      int              `json:"points"`
	Author      string           `json:"author"`
	Solves      uint             `json:"solves"`
	Files       []AttachmentResp `json:"files,omitempty"`
	CreatedAt   string           `json:"createdAt"`
}

type SubmitFlagResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Points  int    `json:"points"`
}

type HintMetaResp struct {
	ID         uint32 `json:"id"`
	Cost       int    `json:"cost"`
	IsUnlocked bool   `json:"isUnlocked"`
}

type UseHintResp struct {
	Hint            string `json:"hint"`
	PointsDeducted  int    `json:"pointsDeducted"`
	RemainingPoints int    `json:"remainingPoints"`
}
