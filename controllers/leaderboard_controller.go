// file: controllers/leaderboard_controller.go
package controllers

import (
	"net/http"

	"github.com/KANlKA/CTF-Platform/dto"
	"github.com/KANlKA/CTF-Platform/mappers"
	"github.com/KANlKA/CTF-Platform/services"
	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LeaderboardController struct {
	leaderboard *services.LeaderboardService
	logger      *zap.Logger
}

func NewLeaderboardController(leaderboard *services.LeaderboardService, logger *zap.Logger) *LeaderboardController {
	return &LeaderboardController{leaderboard: leaderboard, logger: logger}
}

// List 排行榜对游客开放；登录用户不在前 50 时附带本人名次
func (ctrl *LeaderboardController) List(c *gin.Context) {
	var requesterID *uint32
	if raw, exists := c.Get("user_id"); exists {
		if id, ok := raw.(uint); ok {
			u := uint32(id)
			requesterID = &u
		}
	}

	entries, err := ctrl.leaderboard.Top(c.Request.Context(), requesterID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	resp := make([]dto.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, mappers.MapLeaderboardEntry(e.User, e.Rank, e.SolvedCount))
	}
	utils.Success(c, "success", resp)
}

func (ctrl *LeaderboardController) Rank(c *gin.Context) {
	userID := c.GetUint("user_id")

	user, rank, err := ctrl.leaderboard.Rank(c.Request.Context(), uint32(userID))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "success", dto.RankResp{
		ID:             user.ID,
		Username:       user.Username,
		Points:         user.Points,
		Rank:           rank,
		ClearanceLevel: utils.ClearanceLevel(user.Points),
	})
}

func (ctrl *LeaderboardController) SolvedChallenges(c *gin.Context) {
	userID := c.GetUint("user_id")

	solved, solves, err := ctrl.leaderboard.SolvedChallenges(c.Request.Context(), uint32(userID))
	if err != nil {
		utils.Fail(c, err)
		return
	}

	resp := make([]dto.SolvedChallengeResp, 0, len(solved))
	for i, ch := range solved {
		resp = append(resp, dto.SolvedChallengeResp{
			ID: ch.ID, Title: ch.Title, Category: ch.Category,
			Difficulty: string(ch.Difficulty), Points: ch.Points,
			SolvedAt: solves[i].CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp, "count": len(resp)})
}
