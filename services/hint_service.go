// file: services/hint_service.go
package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HintService 提示解锁引擎。
// 解锁落台账（ctf_hint_unlock 唯一索引），同一提示只收一次费，
// 重复请求免费返回缓存文本；扣分是条件更新，积分永不为负
type HintService struct {
	db     *gorm.DB
	gen    HintGenerator
	logger *zap.Logger
}

func NewHintService(db *gorm.DB, gen HintGenerator, logger *zap.Logger) *HintService {
	return &HintService{db: db, gen: gen, logger: logger}
}

type HintMeta struct {
	ID         uint32
	Cost       int
	IsUnlocked bool
}

type UnlockResult struct {
	Text            string
	PointsDeducted  int
	RemainingPoints int
}

// ListHints 只返回元数据，解锁前不泄露提示内容
func (s *HintService) ListHints(ctx context.Context, challengeID, userID uint32) ([]HintMeta, error) {
	var challenge models.Challenge
	err := s.db.WithContext(ctx).Preload("Hints", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&challenge, challengeID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFound("Challenge not found")
		}
		return nil, err
	}

	var unlockedIDs []uint32
	if err := s.db.WithContext(ctx).Model(&models.HintUnlock{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Pluck("hint_id", &unlockedIDs).Error; err != nil {
		return nil, err
	}
	unlocked := make(map[uint32]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	metas := make([]HintMeta, 0, len(challenge.Hints))
	for _, h := range challenge.Hints {
		metas = append(metas, HintMeta{ID: h.ID, Cost: h.Cost, IsUnlocked: unlocked[h.ID]})
	}
	return metas, nil
}

// Unlock 按 id 定位提示，找不到再按原文匹配（早期数据没有 id）
func (s *HintService) Unlock(ctx context.Context, challengeID, userID uint32, hintRef string) (UnlockResult, error) {
	var challenge models.Challenge
	err := s.db.WithContext(ctx).Preload("Hints", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&challenge, challengeID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return UnlockResult{}, utils.NotFound("Challenge or user not found")
		}
		return UnlockResult{}, err
	}

	var hint *models.Hint
	if id, perr := strconv.ParseUint(hintRef, 10, 32); perr == nil {
		for i := range challenge.Hints {
			if challenge.Hints[i].ID == uint32(id) {
				hint = &challenge.Hints[i]
				break
			}
		}
	}
	if hint == nil {
		for i := range challenge.Hints {
			if challenge.Hints[i].Text == hintRef {
				hint = &challenge.Hints[i]
				break
			}
		}
	}
	if hint == nil {
		return UnlockResult{}, utils.NotFound("Hint not found")
	}

	return s.charge(ctx, challenge.ID, userID, hint)
}

// charge 台账插入和扣分放在同一事务：
// 台账行没插进去说明早已解锁，直接免费返回；
// 扣分条件更新没改到行说明余额不足，整体回滚
func (s *HintService) charge(ctx context.Context, challengeID, userID uint32, hint *models.Hint) (UnlockResult, error) {
	deducted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.HintUnlock{
			UserID:      userID,
			HintID:      hint.ID,
			ChallengeID: challengeID,
			CostPaid:    hint.Cost,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 已解锁过，不再收费
			return nil
		}

		res = tx.Model(&models.User{}).
			Where("id = ? AND points >= ?", userID, hint.Cost).
			Update("points", gorm.Expr("points - ?", hint.Cost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var user models.User
			if err := tx.First(&user, userID).Error; err != nil {
				return err
			}
			return utils.NewError(http.StatusBadRequest, utils.CodeValidation,
				fmt.Sprintf("You need %d more points", hint.Cost-user.Points))
		}

		deducted = hint.Cost
		return nil
	})
	if err != nil {
		return UnlockResult{}, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return UnlockResult{}, err
	}
	return UnlockResult{Text: hint.Text, PointsDeducted: deducted, RemainingPoints: user.Points}, nil
}

// CheapestAffordable 聊天助手用：在作者提示里找当前积分付得起的最便宜一条。
// 第二个返回值是全部提示中的最低价，用于"还差多少分"的提示语
func (s *HintService) CheapestAffordable(hints []models.Hint, points int) (*models.Hint, int) {
	minCost := 0
	var cheapest *models.Hint
	for i := range hints {
		h := &hints[i]
		if minCost == 0 || h.Cost < minCost {
			minCost = h.Cost
		}
		if h.Cost <= points && (cheapest == nil || h.Cost < cheapest.Cost) {
			cheapest = h
		}
	}
	return cheapest, minCost
}

// GenerateHint 无作者提示时的兜底：按固定费用扣分，
// 文本先走外部生成服务，失败退回按分类预置的提示
func (s *HintService) GenerateHint(ctx context.Context, challenge models.Challenge, userID uint32) (UnlockResult, error) {
	cost := models.DefaultHintCost

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND points >= ?", userID, cost).
		Update("points", gorm.Expr("points - ?", cost))
	if res.Error != nil {
		return UnlockResult{}, res.Error
	}
	if res.RowsAffected == 0 {
		var user models.User
		if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
			return UnlockResult{}, err
		}
		return UnlockResult{}, utils.NewError(http.StatusBadRequest, utils.CodeValidation,
			fmt.Sprintf("You need %d more points for a hint", cost-user.Points))
	}

	text, err := s.gen.GenerateHint(ctx, challenge)
	if err != nil {
		// 生成服务失败不能反过来拖垮提示流程，降级到预置文案
		s.logger.Warn("hint generation failed, using canned hint",
			zap.Uint32("challenge_id", challenge.ID), zap.Error(err))
		text = CannedHint(challenge.Category)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return UnlockResult{}, err
	}
	return UnlockResult{Text: text, PointsDeducted: cost, RemainingPoints: user.Points}, nil
}
