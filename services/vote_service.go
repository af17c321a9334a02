// file: services/vote_service.go
package services

import (
	"context"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteService 赞/踩引擎。每个 (用户, 对象) 至多一行投票记录，
// 唯一索引天然保证"赞和踩互斥"，并发重复请求在索引上串行化
type VoteService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewVoteService(db *gorm.DB, logger *zap.Logger) *VoteService {
	return &VoteService{db: db, logger: logger}
}

type VoteCounts struct {
	Upvotes   int64
	Downvotes int64
	Score     int64
}

// Vote 状态机：none/up/down 三态。
// 对已是同方向的再投一次是取消；反方向直接改写同一行；remove 无条件清除
func (s *VoteService) Vote(ctx context.Context, kind models.VoteTarget, targetID, voterID uint32, voteType string) (VoteCounts, error) {
	var value models.VoteValue
	switch voteType {
	case "upvote":
		value = models.VoteValueUp
	case "downvote":
		value = models.VoteValueDown
	case "remove":
	default:
		return VoteCounts{}, utils.Validation("Invalid vote type")
	}

	if err := s.targetExists(ctx, kind, targetID); err != nil {
		return VoteCounts{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if voteType == "remove" {
			return tx.Where("voter_id = ? AND target_kind = ? AND target_id = ?",
				voterID, kind, targetID).Delete(&models.Vote{}).Error
		}

		// 同方向已有记录 → 删除即“取消投票”
		res := tx.Where("voter_id = ? AND target_kind = ? AND target_id = ? AND value = ?",
			voterID, kind, targetID, value).Delete(&models.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		// 无记录则插入，反方向记录则原地改写，一条语句完成切换
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "voter_id"}, {Name: "target_kind"}, {Name: "target_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
		}).Create(&models.Vote{
			VoterID:    voterID,
			TargetKind: kind,
			TargetID:   targetID,
			Value:      value,
		}).Error
	})
	if err != nil {
		s.logger.Error("vote failed", zap.String("kind", string(kind)),
			zap.Uint32("target_id", targetID), zap.Uint32("voter_id", voterID), zap.Error(err))
		return VoteCounts{}, err
	}

	return s.Counts(ctx, kind, targetID)
}

// Counts 统计结果，score = 赞数 - 踩数
func (s *VoteService) Counts(ctx context.Context, kind models.VoteTarget, targetID uint32) (VoteCounts, error) {
	var rows []struct {
		Value models.VoteValue
		Cnt   int64
	}
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Select("value, count(*) as cnt").
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Group("value").Scan(&rows).Error
	if err != nil {
		return VoteCounts{}, err
	}

	var counts VoteCounts
	for _, r := range rows {
		switch r.Value {
		case models.VoteValueUp:
			counts.Upvotes = r.Cnt
		case models.VoteValueDown:
			counts.Downvotes = r.Cnt
		}
	}
	counts.Score = counts.Upvotes - counts.Downvotes
	return counts, nil
}

// CountsForTargets 批量统计，列表页一次查询拿全所有对象的票数
func (s *VoteService) CountsForTargets(ctx context.Context, kind models.VoteTarget, targetIDs []uint32) (map[uint32]VoteCounts, error) {
	result := make(map[uint32]VoteCounts, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		TargetID uint32
		Value    models.VoteValue
		Cnt      int64
	}
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Select("target_id, value, count(*) as cnt").
		Where("target_kind = ? AND target_id IN ?", kind, targetIDs).
		Group("target_id, value").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		c := result[r.TargetID]
		switch r.Value {
		case models.VoteValueUp:
			c.Upvotes = r.Cnt
		case models.VoteValueDown:
			c.Downvotes = r.Cnt
		}
		c.Score = c.Upvotes - c.Downvotes
		result[r.TargetID] = c
	}
	return result, nil
}

func (s *VoteService) targetExists(ctx context.Context, kind models.VoteTarget, targetID uint32) error {
	var err error
	switch kind {
	case models.VoteTargetDiscussion:
		err = s.db.WithContext(ctx).Select("id").First(&models.Discussion{}, targetID).Error
		if err == gorm.ErrRecordNotFound {
			return utils.NotFound("Discussion not found")
		}
	case models.VoteTargetComment:
		err = s.db.WithContext(ctx).Select("id").First(&models.Comment{}, targetID).Error
		if err == gorm.ErrRecordNotFound {
			return utils.NotFound("Comment not found")
		}
	default:
		return utils.Validation("Invalid vote target")
	}
	return err
}
