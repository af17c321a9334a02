// file: controllers/discussion_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/KANlKA/CTF-Platform/dto"
	"github.com/KANlKA/CTF-Platform/mappers"
	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/services"
	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DiscussionController struct {
	discussions *services.DiscussionService
	votes       *services.VoteService
	logger      *zap.Logger
}

func NewDiscussionController(discussions *services.DiscussionService, votes *services.VoteService, logger *zap.Logger) *DiscussionController {
	return &DiscussionController{discussions: discussions, votes: votes, logger: logger}
}

func (ctrl *DiscussionController) Create(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req dto.CreateDiscussionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	req.Normalize()

	discussion, err := ctrl.discussions.Create(c.Request.Context(), uint32(userID), req.Title, req.Content, req.Tags)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, mappers.MapDiscussionToResp(discussion, services.VoteCounts{}, nil))
}

func (ctrl *DiscussionController) List(c *gin.Context) {
	var q dto.ListDiscussionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid query parameters")
		return
	}

	discussions, total, err := ctrl.discussions.List(c.Request.Context(), services.ListQuery{
		Page: q.Page, Limit: q.Limit, Sort: q.Sort,
		Search: q.Search, Tag: q.Tag, Author: q.Author,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	resp, err := ctrl.mapWithVotes(c, discussions)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	limit := q.Limit
	if limit <= 0 {
		limit = services.DefaultPageSize
	}
	if limit > services.MaxPageSize {
		limit = services.MaxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)

	utils.Success(c, "success", dto.DiscussionListResp{
		Discussions: resp,
		Pagination: dto.Pagination{
			TotalItems:   total,
			TotalPages:   totalPages,
			CurrentPage:  page,
			ItemsPerPage: limit,
		},
	})
}

func (ctrl *DiscussionController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid discussion id")
		return
	}

	discussion, err := ctrl.discussions.Get(c.Request.Context(), uint32(id))
	if err != nil {
		utils.Fail(c, err)
		return
	}

	resp, err := ctrl.mapWithVotes(c, []models.Discussion{discussion})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "success", resp[0])
}

func (ctrl *DiscussionController) PopularTags(c *gin.Context) {
	tags, err := ctrl.discussions.PopularTags(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	resp := make([]dto.PopularTagResp, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, dto.PopularTagResp{Name: t.Tag, Count: t.Cnt})
	}
	utils.Success(c, "success", resp)
}

func (ctrl *DiscussionController) AddComment(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid discussion id")
		return
	}

	var req dto.CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	comment, err := ctrl.discussions.AddComment(c.Request.Context(), uint32(id), uint32(userID), req.Content, req.ParentComment)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, mappers.MapCommentToResp(comment, services.VoteCounts{}))
}

func (ctrl *DiscussionController) VoteDiscussion(c *gin.Context) {
	ctrl.vote(c, models.VoteTargetDiscussion, c.Param("id"))
}

func (ctrl *DiscussionController) VoteComment(c *gin.Context) {
	ctrl.vote(c, models.VoteTargetComment, c.Param("id"))
}

func (ctrl *DiscussionController) vote(c *gin.Context, kind models.VoteTarget, rawID string) {
	userID := c.GetUint("user_id")
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid target id")
		return
	}

	var req dto.VoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	counts, err := ctrl.votes.Vote(c.Request.Context(), kind, uint32(id), uint32(userID), req.Type)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Vote recorded", dto.VoteResp{
		Upvotes:   counts.Upvotes,
		Downvotes: counts.Downvotes,
		Score:     counts.Score,
	})
}

func (ctrl *DiscussionController) MarkSolution(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid discussion id")
		return
	}

	var req dto.MarkSolutionReq
	if err := c.ShouldBindJSON(&req); err != nil || req.CommentID == 0 {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "commentId is required")
		return
	}

	comment, err := ctrl.discussions.MarkSolution(c.Request.Context(), uint32(id), req.CommentID, uint32(userID))
	if err != nil {
		utils.Fail(c, err)
		return
	}

	counts, err := ctrl.votes.Counts(c.Request.Context(), models.VoteTargetComment, comment.ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Solution marked", mappers.MapCommentToResp(comment, counts))
}

// mapWithVotes 两次批量查询拿齐讨论和评论的票数，避免 N+1
func (ctrl *DiscussionController) mapWithVotes(c *gin.Context, discussions []models.Discussion) ([]dto.DiscussionResp, error) {
	ctx := c.Request.Context()

	discussionIDs := make([]uint32, 0, len(discussions))
	var commentIDs []uint32
	for _, d := range discussions {
		discussionIDs = append(discussionIDs, d.ID)
		for _, cm := range d.Comments {
			commentIDs = append(commentIDs, cm.ID)
		}
	}

	discussionCounts, err := ctrl.votes.CountsForTargets(ctx, models.VoteTargetDiscussion, discussionIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := ctrl.votes.CountsForTargets(ctx, models.VoteTargetComment, commentIDs)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.DiscussionResp, 0, len(discussions))
	for _, d := range discussions {
		resp = append(resp, mappers.MapDiscussionToResp(d, discussionCounts[d.ID], commentCounts))
	}
	return resp, nil
}
