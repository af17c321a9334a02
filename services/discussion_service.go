// file: services/discussion_service.go
package services

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	MaxTags         = 5
	MaxTagLength    = 20
	MinTagLength    = 2
)

type DiscussionService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDiscussionService(db *gorm.DB, logger *zap.Logger) *DiscussionService {
	return &DiscussionService{db: db, logger: logger}
}

// NormalizeTags 统一小写、去重、校验长度；标签集合最多 5 个
func NormalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		if len(t) < MinTagLength || len(t) > MaxTagLength {
			return nil, utils.Validation("Each tag must be 2-20 characters")
		}
		seen[t] = true
		tags = append(tags, t)
	}
	if len(tags) > MaxTags {
		return nil, utils.Validation("Maximum 5 tags allowed")
	}
	return tags, nil
}

func (s *DiscussionService) Create(ctx context.Context, authorID uint32, title, content string, rawTags []string) (models.Discussion, error) {
	if len(title) < 5 || len(title) > 200 {
		return models.Discussion{}, utils.Validation("Title must be 5-200 characters")
	}
	if len(content) < 10 || len(content) > 5000 {
		return models.Discussion{}, utils.Validation("Content must be 10-5000 characters")
	}
	tags, err := NormalizeTags(rawTags)
	if err != nil {
		return models.Discussion{}, err
	}

	discussion := models.Discussion{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}
	for _, t := range tags {
		discussion.Tags = append(discussion.Tags, models.DiscussionTag{Tag: t})
	}

	if err := s.db.WithContext(ctx).Create(&discussion).Error; err != nil {
		s.logger.Error("discussion creation failed", zap.Uint32("author_id", authorID), zap.Error(err))
		return models.Discussion{}, err
	}
	return s.Get(ctx, discussion.ID)
}

type ListQuery struct {
	Page   int
	Limit  int
	Sort   string
	Search string
	Tag    string
	Author string
}

func (s *DiscussionService) List(ctx context.Context, q ListQuery) ([]models.Discussion, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}

	db := s.db.WithContext(ctx).Model(&models.Discussion{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("title LIKE ? OR content LIKE ?", like, like)
	}
	if q.Tag != "" {
		db = db.Where("id IN (?)", s.db.Model(&models.DiscussionTag{}).
			Select("discussion_id").Where("tag = ?", strings.ToLower(q.Tag)))
	}
	if q.Author != "" {
		if id, err := strconv.ParseUint(q.Author, 10, 32); err == nil {
			db = db.Where("author_id = ?", uint32(id))
		} else {
			var user models.User
			if err := s.db.WithContext(ctx).Where("username = ?", q.Author).First(&user).Error; err != nil {
				// 作者不存在时返回空页，不算错误
				return []models.Discussion{}, 0, nil
			}
			db = db.Where("author_id = ?", user.ID)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	switch q.Sort {
	case "createdAt":
		order = "created_at ASC"
	case "-createdAt", "":
	}

	var discussions []models.Discussion
	err := db.Preload("Author").Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(3)
		}).
		Preload("Comments.Author").
		Order(order).
		Offset((q.Page - 1) * q.Limit).Limit(q.Limit).
		Find(&discussions).Error
	if err != nil {
		return nil, 0, err
	}
	return discussions, total, nil
}

func (s *DiscussionService) Get(ctx context.Context, id uint32) (models.Discussion, error) {
	var discussion models.Discussion
	err := s.db.WithContext(ctx).
		Preload("Author").Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments.Author").Preload("Comments.ParentComment").
		First(&discussion, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Discussion{}, utils.NotFound("Discussion not found")
		}
		return models.Discussion{}, err
	}
	return discussion, nil
}

type TagCount struct {
	Tag string
	Cnt int64
}

// PopularTags 全站使用频率最高的 10 个标签
func (s *DiscussionService) PopularTags(ctx context.Context) ([]TagCount, error) {
	var tags []TagCount
	err := s.db.WithContext(ctx).Model(&models.DiscussionTag{}).
		Select("tag, count(*) as cnt").
		Group("tag").Order("cnt DESC").Limit(10).
		Scan(&tags).Error
	return tags, err
}

func (s *DiscussionService) AddComment(ctx context.Context, discussionID, authorID uint32, content string, parentID *uint32) (models.Comment, error) {
	if len(content) < 1 || len(content) > 2000 {
		return models.Comment{}, utils.Validation("Comment must be 1-2000 characters")
	}

	var discussion models.Discussion
	if err := s.db.WithContext(ctx).Select("id").First(&discussion, discussionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Comment{}, utils.NotFound("Discussion not found")
		}
		return models.Comment{}, err
	}

	if parentID != nil {
		var parent models.Comment
		if err := s.db.WithContext(ctx).First(&parent, *parentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return models.Comment{}, utils.NotFound("Parent comment not found")
			}
			return models.Comment{}, err
		}
		// 父评论必须挂在同一个讨论串下
		if parent.DiscussionID != discussionID {
			return models.Comment{}, utils.NewError(http.StatusBadRequest, utils.CodeInvalid,
				"Parent comment does not belong to this discussion")
		}
	}

	comment := models.Comment{
		Content:         content,
		AuthorID:        authorID,
		DiscussionID:    discussionID,
		ParentCommentID: parentID,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		s.logger.Error("comment creation failed",
			zap.Uint32("discussion_id", discussionID), zap.Uint32("author_id", authorID), zap.Error(err))
		return models.Comment{}, err
	}

	err := s.db.WithContext(ctx).Preload("Author").Preload("ParentComment").
		Preload("ParentComment.Author").First(&comment, comment.ID).Error
	return comment, err
}

// MarkSolution 只有讨论作者可标记；清旧标新是同一条 UPDATE，
// 并发调用也不会出现两条评论同时为解答
func (s *DiscussionService) MarkSolution(ctx context.Context, discussionID, commentID, callerID uint32) (models.Comment, error) {
	var discussion models.Discussion
	if err := s.db.WithContext(ctx).First(&discussion, discussionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Comment{}, utils.NotFound("Discussion not found")
		}
		return models.Comment{}, err
	}

	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Comment{}, utils.NotFound("Comment not found")
		}
		return models.Comment{}, err
	}

	if discussion.AuthorID != callerID {
		return models.Comment{}, utils.Forbidden("Only discussion author can mark solutions")
	}
	if comment.DiscussionID != discussion.ID {
		return models.Comment{}, utils.NewError(http.StatusBadRequest, utils.CodeInvalid,
			"Comment does not belong to this discussion")
	}

	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("discussion_id = ?", discussion.ID).
		Update("is_solution", gorm.Expr("id = ?", comment.ID)).Error
	if err != nil {
		s.logger.Error("mark solution failed",
			zap.Uint32("discussion_id", discussionID), zap.Uint32("comment_id", commentID), zap.Error(err))
		return models.Comment{}, err
	}

	err = s.db.WithContext(ctx).Preload("Author").First(&comment, comment.ID).Error
	return comment, err
}
