// file: services/chat_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChatService 关键词路由的助手：固定问答、提示桥接、通用技巧。
// 提示桥接复用 HintService，扣分走同一套台账和条件更新
type ChatService struct {
	db     *gorm.DB
	hints  *HintService
	logger *zap.Logger
}

func NewChatService(db *gorm.DB, hints *HintService, logger *zap.Logger) *ChatService {
	return &ChatService{db: db, hints: hints, logger: logger}
}

type ChatReply struct {
	Response          string
	Type              string
	RequiresChallenge bool
	PointsDeducted    int
}

var predefinedResponses = map[string]string{
	"hello":  "Hello! How can I help you with your CTF challenges today?",
	"hi":     "Hi there! Need any hints or tips?",
	"bye":    "Goodbye! Happy hacking!",
	"thanks": "You're welcome! Let me know if you need more help.",
}

var generalTips = []string{
	"Always check page source (Ctrl+U) and network requests",
	"Look for patterns in encoded/encrypted data",
	"Check for hidden files/directories (.git, /backup)",
	"Try common credentials (admin:admin, guest:guest)",
	"Read challenge descriptions carefully - clues are often there",
	"Use appropriate tools (Burp, Wireshark, binwalk, etc.)",
}

var strategyAdvice = []string{
	"Time management: Don't get stuck on one challenge too long",
	"Prioritize: Solve easier challenges first to build points",
	"Collaborate: Discuss with teammates (without sharing flags)",
	"Research: Google error messages and techniques",
	"Think outside the box: Solutions are often unconventional",
	"Take breaks: Fresh eyes spot things you might have missed",
}

func (s *ChatService) Handle(ctx context.Context, userID uint32, message string, challengeID *uint32) (ChatReply, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ChatReply{}, utils.NotFound("User not found")
		}
		return ChatReply{}, err
	}

	lowerMsg := strings.ToLower(strings.TrimSpace(message))

	if reply, ok := predefinedResponses[lowerMsg]; ok {
		return ChatReply{Response: reply, Type: "predefined"}, nil
	}

	command := ""
	if parts := strings.Fields(lowerMsg); len(parts) > 0 {
		command = parts[0]
	}

	switch {
	case command == "/hint" || strings.Contains(lowerMsg, "hint"):
		return s.handleHint(ctx, user, challengeID)
	case command == "/tips" || command == "/tip" || strings.Contains(lowerMsg, "tips"):
		return ChatReply{Response: formatTips("GENERAL CTF TIPS", generalTips), Type: "tip"}, nil
	case command == "/advice" || strings.Contains(lowerMsg, "advice"):
		return ChatReply{Response: formatTips("CTF STRATEGY ADVICE", strategyAdvice), Type: "advice"}, nil
	case command == "/help" || strings.Contains(lowerMsg, "help"):
		return ChatReply{Response: buildHelpMessage(user), Type: "help"}, nil
	}

	return ChatReply{
		Response: "I didn't understand that. Try asking for '/help' to see what I can do.",
		Type:     "unknown",
	}, nil
}

func (s *ChatService) handleHint(ctx context.Context, user models.User, challengeID *uint32) (ChatReply, error) {
	if challengeID == nil {
		return ChatReply{
			Response:          "Please open a challenge first before asking for hints.",
			Type:              "error",
			RequiresChallenge: true,
		}, nil
	}

	var challenge models.Challenge
	err := s.db.WithContext(ctx).Preload("Hints", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&challenge, *challengeID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ChatReply{}, utils.NotFound("Challenge not found")
		}
		return ChatReply{}, err
	}

	var solved int64
	if err := s.db.WithContext(ctx).Model(&models.Solve{}).
		Where("user_id = ? AND challenge_id = ?", user.ID, challenge.ID).
		Count(&solved).Error; err != nil {
		return ChatReply{}, err
	}
	if solved > 0 {
		return ChatReply{
			Response: "You've already solved this challenge! Try another one.",
			Type:     "already_solved",
		}, nil
	}

	if len(challenge.Hints) > 0 {
		cheapest, minCost := s.hints.CheapestAffordable(challenge.Hints, user.Points)
		if cheapest == nil {
			return ChatReply{
				Response: fmt.Sprintf("You need at least %d points for a hint", minCost),
				Type:     "point_requirement",
			}, nil
		}
		result, err := s.hints.charge(ctx, challenge.ID, user.ID, cheapest)
		if err != nil {
			return ChatReply{}, err
		}
		return ChatReply{
			Response:       fmt.Sprintf("HINT (%d points): %s", cheapest.Cost, result.Text),
			Type:           "hint",
			PointsDeducted: result.PointsDeducted,
		}, nil
	}

	result, err := s.hints.GenerateHint(ctx, challenge, user.ID)
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return ChatReply{Response: appErr.Message, Type: "point_requirement"}, nil
		}
		return ChatReply{}, err
	}
	return ChatReply{
		Response:       fmt.Sprintf("AI HINT (%d points): %s", result.PointsDeducted, result.Text),
		Type:           "hint",
		PointsDeducted: result.PointsDeducted,
	}, nil
}

func buildHelpMessage(user models.User) string {
	var b strings.Builder
	b.WriteString("I can help with:\n")
	b.WriteString("1) /hint - Get challenge-specific hints (costs points)\n")
	b.WriteString("2) /tips - Get general CTF tips\n")
	b.WriteString("3) /advice - Get strategic advice\n\n")
	fmt.Fprintf(&b, "You currently have %d points available.\n", user.Points)
	b.WriteString("Type any of these commands followed by your question.")
	return b.String()
}

func formatTips(title string, tips []string) string {
	// 每次随机挑三条，避免回复千篇一律
	picked := make([]string, 0, 3)
	for _, i := range rand.Perm(len(tips))[:3] {
		picked = append(picked, "• "+tips[i])
	}
	return title + ":\n" + strings.Join(picked, "\n")
}
