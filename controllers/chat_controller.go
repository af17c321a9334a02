// file: controllers/chat_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/KANlKA/CTF-Platform/dto"
	"github.com/KANlKA/CTF-Platform/services"
	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatController struct {
	chat   *services.ChatService
	logger *zap.Logger
}

func NewChatController(chat *services.ChatService, logger *zap.Logger) *ChatController {
	return &ChatController{chat: chat, logger: logger}
}

func (ctrl *ChatController) Message(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req dto.ChatReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Message is required")
		return
	}

	reply, err := ctrl.chat.Handle(c.Request.Context(), uint32(userID), req.Message, req.ChallengeID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "success", dto.ChatResp{
		Response:          reply.Response,
		Type:              reply.Type,
		RequiresChallenge: reply.RequiresChallenge,
		PointsDeducted:    reply.PointsDeducted,
	})
}
