// file: services/leaderboard_service.go
package services

import (
	"context"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const LeaderboardSize = 50

// LeaderboardService 排名按需计算，不落缓存。
// 名次定义是"积分严格更高的人数 + 1"，同分者名次相同
type LeaderboardService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewLeaderboardService(db *gorm.DB, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{db: db, logger: logger}
}

type LeaderboardEntry struct {
	User        models.User
	SolvedCount int64
	Rank        int64
}

// Rank 计算某用户当前名次
func (s *LeaderboardService) Rank(ctx context.Context, userID uint32) (models.User, int64, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.User{}, 0, utils.NotFound("User not found")
		}
		return models.User{}, 0, err
	}

	var higher int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("points > ?", user.Points).Count(&higher).Error; err != nil {
		return models.User{}, 0, err
	}
	return user, higher + 1, nil
}

// Top 返回积分前 N 名；请求者不在窗口内时单独计算其名次并附在末尾
func (s *LeaderboardService) Top(ctx context.Context, requesterID *uint32) ([]LeaderboardEntry, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Order("points DESC, id ASC").Limit(LeaderboardSize).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users)+1)
	inWindow := false
	for i, u := range users {
		if requesterID != nil && u.ID == *requesterID {
			inWindow = true
		}
		entries = append(entries, LeaderboardEntry{User: u, Rank: int64(i) + 1})
	}

	if requesterID != nil && !inWindow {
		user, rank, err := s.Rank(ctx, *requesterID)
		if err == nil {
			entries = append(entries, LeaderboardEntry{User: user, Rank: rank})
		}
	}

	ids := make([]uint32, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.User.ID)
	}
	counts, err := s.solveCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].SolvedCount = counts[entries[i].User.ID]
	}
	return entries, nil
}

// SolvedChallenges 用户解过的题目列表，按解题时间排序
func (s *LeaderboardService) SolvedChallenges(ctx context.Context, userID uint32) ([]models.Challenge, []models.Solve, error) {
	var solves []models.Solve
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).Order("created_at ASC").
		Find(&solves).Error
	if err != nil {
		return nil, nil, err
	}
	if len(solves) == 0 {
		return nil, nil, nil
	}

	ids := make([]uint32, 0, len(solves))
	for _, sv := range solves {
		ids = append(ids, sv.ChallengeID)
	}
	var challenges []models.Challenge
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&challenges).Error; err != nil {
		return nil, nil, err
	}

	// 保持解题顺序返回
	byID := make(map[uint32]models.Challenge, len(challenges))
	for _, ch := range challenges {
		byID[ch.ID] = ch
	}
	ordered := make([]models.Challenge, 0, len(solves))
	for _, sv := range solves {
		if ch, ok := byID[sv.ChallengeID]; ok {
			ordered = append(ordered, ch)
		}
	}
	return ordered, solves, nil
}

func (s *LeaderboardService) solveCounts(ctx context.Context, userIDs []uint32) (map[uint32]int64, error) {
	counts := make(map[uint32]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		UserID uint32
		Cnt    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Solve{}).
		Select("user_id, count(*) as cnt").
		Where("user_id IN ?", userIDs).
		Group("user_id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.UserID] = r.Cnt
	}
	return counts, nil
}
