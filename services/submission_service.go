// file: services/submission_service.go
package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionService 提交判分引擎。判重不走"读-改-写"，
// 靠 ctf_solve 的唯一索引做幂等边界，加分和计数都在同一事务里完成
type SubmissionService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSubmissionService(db *gorm.DB, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{db: db, logger: logger}
}

type SubmitResult struct {
	Message       string
	PointsAwarded int
}

// Submit 校验 Flag 并计分。
// 检查顺序是合约的一部分：自解拦截必须在 Flag 比较之前，
// 防止作者通过响应差异探测自己题目的判定逻辑
func (s *SubmissionService) Submit(ctx context.Context, challengeID, userID uint32, flag string) (SubmitResult, error) {
	if strings.TrimSpace(flag) == "" {
		return SubmitResult{}, utils.Validation("Flag is required")
	}

	var challenge models.Challenge
	if err := s.db.WithContext(ctx).First(&challenge, challengeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return SubmitResult{}, utils.NotFound("Challenge not found")
		}
		return SubmitResult{}, err
	}

	// 自解拦截，先于 Flag 比较
	if challenge.AuthorID == userID {
		return SubmitResult{}, utils.NewError(http.StatusForbidden, utils.CodeSelfSolve,
			"You can't solve your own challenge!")
	}

	if utils.NormalizeFlag(flag) != utils.NormalizeFlag(challenge.Flag) {
		return SubmitResult{}, utils.NewError(http.StatusBadRequest, utils.CodeIncorrect,
			"Incorrect flag submitted")
	}

	awarded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 唯一索引冲突时静默跳过：即"已解过"，不再有任何变更
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Solve{
			UserID:        userID,
			ChallengeID:   challengeID,
			PointsAwarded: challenge.Points,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		// 加分与计数都是条件自增，不回读整行；
		// 任何一步没改到行都说明数据异常，整个事务回滚并上报
		res = tx.Model(&models.User{}).Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", challenge.Points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			s.logger.Error("solve recorded but user points not updated, rolling back",
				zap.Uint32("user_id", userID), zap.Uint32("challenge_id", challengeID))
			return gorm.ErrRecordNotFound
		}

		res = tx.Model(&models.Challenge{}).Where("id = ?", challengeID).
			Update("solves", gorm.Expr("solves + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			s.logger.Error("solve recorded but challenge counter not updated, rolling back",
				zap.Uint32("user_id", userID), zap.Uint32("challenge_id", challengeID))
			return gorm.ErrRecordNotFound
		}

		awarded = true
		return nil
	})
	if err != nil {
		s.logger.Error("flag submission failed",
			zap.Uint32("user_id", userID), zap.Uint32("challenge_id", challengeID), zap.Error(err))
		return SubmitResult{}, err
	}

	if !awarded {
		return SubmitResult{Message: "Already solved!", PointsAwarded: 0}, nil
	}
	return SubmitResult{Message: "Flag correct! Challenge solved!", PointsAwarded: challenge.Points}, nil
}
