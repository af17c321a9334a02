// file: dto/discussion.go
package dto

import "strings"

// ========== 请求 DTO ==========

type CreateDiscussionReq struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (r *CreateDiscussionReq) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
}

type CreateCommentReq struct {
	Content       string  `json:"content"`
	ParentComment *uint32 `json:"parentComment"`
}

type VoteReq struct {
	Type string `json:"type"` // upvote / downvote / remove
}

type MarkSolutionReq struct {
	CommentID uint32 `json:"commentId"`
}

type ListDiscussionsQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Sort   string `form:"sort"`
	Search string `form:"search"`
	Tag    string `form:"tag"`
	Author string `form:"author"`
}

// ========== 响应 DTO ==========

type AuthorResp struct {
	ID          uint32 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

type CommentResp struct {
	ID            uint32      `json:"id"`
	Content       string      `json:"content"`
	Author        AuthorResp  `json:"author"`
	DiscussionID  uint32      `json:"discussion"`
	ParentComment *uint32     `json:"parentComment,omitempty"`
	Upvotes       int64       `json:"upvotes"`
	Downvotes     int64       `json:"downvotes"`
	Score         int64       `json:"score"`
	IsSolution    bool        `json:"isSolution"`
	Edited        bool        `json:"edited"`
	CreatedAt     string      `json:"createdAt"`
}

type DiscussionResp struct {
	ID        uint32        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Author    AuthorResp    `json:"author"`
	Tags      []string      `json:"tags"`
	Upvotes   int64         `json:"upvotes"`
	Downvotes int64         `json:"downvotes"`
	Score     int64         `json:"score"`
	Comments  []CommentResp `json:"comments,omitempty"`
	IsPinned  bool          `json:"isPinned"`
	IsClosed  bool          `json:"isClosed"`
	CreatedAt string        `json:"createdAt"`
}

type Pagination struct {
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int64 `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

type DiscussionListResp struct {
	Discussions []DiscussionResp `json:"discussions"`
	Pagination  Pagination       `json:"pagination"`
}

type VoteResp struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	Score     int64 `json:"score"`
}

type PopularTagResp struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
