// file: main.go
package main

import (
	"context"
	"os"
	"time"

	"github.com/KANlKA/CTF-Platform/config"
	"github.com/KANlKA/CTF-Platform/controllers"
	"github.com/KANlKA/CTF-Platform/database"
	"github.com/KANlKA/CTF-Platform/middlewares"
	"github.com/KANlKA/CTF-Platform/routes"
	"github.com/KANlKA/CTF-Platform/services"
	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.DevMode)
	defer logger.Sync()

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if cfg.RunMigrations {
		if err := database.MigrateTables(db); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
	}

	rdb, err := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("upload directory creation failed", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	// 无主题目修复必须在开始接流量之前跑完，
	// 否则自解拦截会放过 author_id 为空的题目
	repair := services.NewRepairService(db, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repair.Run(ctx); err != nil {
		cancel()
		logger.Fatal("startup repair failed", zap.Error(err))
	}
	cancel()

	// 每小时兜底补一次，防止运行期产生的脏数据积压
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repair.Run(ctx); err != nil {
			logger.Error("scheduled repair failed", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("cron setup failed", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	tokens := utils.NewTokenManager(cfg.JWTSecret)
	limiter := middlewares.NewRateLimiter(rdb, logger)

	var generator services.HintGenerator = services.NewOpenAIHintGenerator(cfg.OpenAIAPIKey)

	hints := services.NewHintService(db, generator, logger)
	submissions := services.NewSubmissionService(db, logger)
	votes := services.NewVoteService(db, logger)
	discussions := services.NewDiscussionService(db, logger)
	leaderboard := services.NewLeaderboardService(db, logger)
	chat := services.NewChatService(db, hints, logger)

	r := routes.SetupRouter(routes.Deps{
		Tokens:         tokens,
		Limiter:        limiter,
		Users:          controllers.NewUserController(db, tokens, leaderboard, logger),
		Challenges:     controllers.NewChallengeController(db, submissions, hints, logger),
		Attachments:    controllers.NewAttachmentController(db, cfg.UploadDir, logger),
		Discussions:    controllers.NewDiscussionController(discussions, votes, logger),
		Leaderboard:    controllers.NewLeaderboardController(leaderboard, logger),
		Chat:           controllers.NewChatController(chat, logger),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(dev bool) *zap.Logger {
	if dev {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}
