// file: controllers/challenge_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/KANlKA/CTF-Platform/dto"
	"github.com/KANlKA/CTF-Platform/mappers"
	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/services"
	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChallengeController struct {
	db          *gorm.DB
	submissions *services.SubmissionService
	hints       *services.HintService
	logger      *zap.Logger
}

func NewChallengeController(db *gorm.DB, submissions *services.SubmissionService, hints *services.HintService, logger *zap.Logger) *ChallengeController {
	return &ChallengeController{db: db, submissions: submissions, hints: hints, logger: logger}
}

func (ctrl *ChallengeController) Create(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req dto.CreateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	req.Normalize()

	var fieldErrors []dto.FieldError
	if len(req.Title) < 5 || len(req.Title) > 100 {
		fieldErrors = append(fieldErrors, dto.FieldError{Param: "title", Message: "Title must be 5-100 characters"})
	}
	if len(req.Description) < 20 {
		fieldErrors = append(fieldErrors, dto.FieldError{Param: "description", Message: "Description must be at least 20 characters"})
	}
	if req.Category == "" {
		fieldErrors = append(fieldErrors, dto.FieldError{Param: "category", Message: "Category is required"})
	}
	switch models.ChallengeDifficulty(req.Difficulty) {
	case models.ChallengeDifficultyEasy, models.ChallengeDifficultyMedium, models.ChallengeDifficultyHard:
	default:
		fieldErrors = append(fieldErrors, dto.FieldError{Param: "difficulty", Message: "Difficulty must be easy, medium or hard"})
	}
	if len(strings.TrimSpace(req.Flag)) < 3 {
		fieldErrors = append(fieldErrors, dto.FieldError{Param: "flag", Message: "Flag must be at least 3 characters"})
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fieldErrors})
		return
	}

	difficulty := models.ChallengeDifficulty(req.Difficulty)
	challenge := models.Challenge{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  difficulty,
		Points:      utils.PointsForDifficulty(difficulty),
		Flag:        strings.TrimSpace(req.Flag),
		AuthorID:    uint32(userID),
	}
	for i, h := range req.Hints {
		text := strings.TrimSpace(h.Text)
		if text == "" {
			continue
		}
		cost := h.Cost
		if cost <= 0 {
			cost = models.DefaultHintCost
		}
		challenge.Hints = append(challenge.Hints, models.Hint{Position: i, Text: text, Cost: cost})
	}

	if err := ctrl.db.Create(&challenge).Error; err != nil {
		ctrl.logger.Error("challenge creation failed", zap.String("title", req.Title), zap.Error(err))
		utils.Fail(c, err)
		return
	}

	if err := ctrl.db.Preload("Author").First(&challenge, challenge.ID).Error; err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, mappers.MapChallengeToResp(challenge))
}

func (ctrl *ChallengeController) List(c *gin.Context) {
	ctrl.list(c, strings.ToLower(c.Query("difficulty")))
}

// ListByDifficulty 按路径参数过滤，/challenges/difficulty/:level
func (ctrl *ChallengeController) ListByDifficulty(c *gin.Context) {
	level := strings.ToLower(c.Param("level"))
	switch models.ChallengeDifficulty(level) {
	case models.ChallengeDifficultyEasy, models.ChallengeDifficultyMedium, models.ChallengeDifficultyHard:
	default:
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Difficulty must be easy, medium or hard")
		return
	}
	ctrl.list(c, level)
}

func (ctrl *ChallengeController) list(c *gin.Context, difficulty string) {
	query := ctrl.db.Preload("Author").Preload("Attachments").Order("id ASC")

	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if category := strings.ToLower(c.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}

	var challenges []models.Challenge
	if err := query.Find(&challenges).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	resp := make([]dto.ChallengeResp, 0, len(challenges))
	for _, ch := range challenges {
		resp = append(resp, mappers.MapChallengeToResp(ch))
	}
	utils.Success(c, "success", resp)
}

func (ctrl *ChallengeController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid challenge id")
		return
	}

	var challenge models.Challenge
	err = ctrl.db.Preload("Author").Preload("Attachments").First(&challenge, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(c, http.StatusNotFound, utils.CodeNotFound, "Challenge not found")
			return
		}
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "success", mappers.MapChallengeToResp(challenge))
}

func (ctrl *ChallengeController) Submit(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid challenge id")
		return
	}

	var req dto.SubmitFlagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Flag is required")
		return
	}

	result, err := ctrl.submissions.Submit(c.Request.Context(), uint32(id), uint32(userID), req.Flag)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, result.Message, dto.SubmitFlagResp{
		Success: true,
		Message: result.Message,
		Points:  result.PointsAwarded,
	})
}

func (ctrl *ChallengeController) ListHints(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid challenge id")
		return
	}

	metas, err := ctrl.hints.ListHints(c.Request.Context(), uint32(id), uint32(userID))
	if err != nil {
		utils.Fail(c, err)
		return
	}

	resp := make([]dto.HintMetaResp, 0, len(metas))
	for _, m := range metas {
		resp = append(resp, dto.HintMetaResp{ID: m.ID, Cost: m.Cost, IsUnlocked: m.IsUnlocked})
	}
	utils.Success(c, "success", resp)
}

func (ctrl *ChallengeController) UseHint(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid challenge id")
		return
	}

	var req dto.UseHintReq
	if err := c.ShouldBindJSON(&req); err != nil || req.HintID == "" {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "hintId is required")
		return
	}

	result, err := ctrl.hints.Unlock(c.Request.Context(), uint32(id), uint32(userID), req.HintID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Hint unlocked", dto.UseHintResp{
		Hint:            result.Text,
		PointsDeducted:  result.PointsDeducted,
		RemainingPoints: result.RemainingPoints,
	})
}
