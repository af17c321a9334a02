// file: services/repair_service.go
package services

import (
	"context"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RepairService 数据一致性修复：补齐保留的 system 账号，
// 把作者缺失的历史题目归到它名下。
// 必须在提交接口开放之前同步跑完一轮，之后由定时任务兜底
type RepairService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRepairService(db *gorm.DB, logger *zap.Logger) *RepairService {
	return &RepairService{db: db, logger: logger}
}

// Run 先保证 system 账号存在，再修复无主题目
func (s *RepairService) Run(ctx context.Context) error {
	systemUser, err := s.EnsureSystemUser(ctx)
	if err != nil {
		return err
	}
	return s.RepairOrphanedChallenges(ctx, systemUser.ID)
}

// EnsureSystemUser 查找或创建保留账号，密码随机生成且不对外公开
func (s *RepairService) EnsureSystemUser(ctx context.Context) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", models.SystemUsername).First(&user).Error
	if err == nil {
		return user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return models.User{}, err
	}

	user = models.User{
		Username: models.SystemUsername,
		Email:    "system@ctf-platform.com",
		Role:     models.RoleSystem,
	}
	if err := user.SetPassword(uuid.NewString()); err != nil {
		return models.User{}, err
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, err
	}
	s.logger.Info("created reserved system user", zap.Uint32("user_id", user.ID))
	return user, nil
}

// RepairOrphanedChallenges 把 author_id 为空或指向不存在用户的题目改挂到 system 账号
func (s *RepairService) RepairOrphanedChallenges(ctx context.Context, systemUserID uint32) error {
	res := s.db.WithContext(ctx).Model(&models.Challenge{}).
		Where("author_id = 0 OR author_id IS NULL OR author_id NOT IN (?)",
			s.db.Model(&models.User{}).Select("id")).
		Update("author_id", systemUserID)
	if res.Error != nil {
		s.logger.Error("challenge author repair failed", zap.Error(res.Error))
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.logger.Info("migrated orphaned challenges to system user",
			zap.Int64("count", res.RowsAffected))
	}
	return nil
}
