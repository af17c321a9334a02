// file: middlewares/ratelimit.go
package middlewares

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter 基于 Redis 的固定窗口限流。
// 第一次 INCR 时给键设置过期时间，窗口到期后自动重置
type RateLimiter struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRateLimiter(rdb *redis.Client, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{rdb: rdb, logger: logger}
}

// PerIP 按客户端 IP 限流，全局防护用
func (rl *RateLimiter) PerIP(name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.check(c, fmt.Sprintf("ratelimit:%s:ip:%s", name, c.ClientIP()), limit, window)
	}
}

// PerUser 按登录用户限流，必须排在 JWTAuth 之后
func (rl *RateLimiter) PerUser(name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		rl.check(c, fmt.Sprintf("ratelimit:%s:user:%d", name, userID), limit, window)
	}
}

func (rl *RateLimiter) check(c *gin.Context, key string, limit int, window time.Duration) {
	ctx := c.Request.Context()

	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		// Redis 不可用时放行，限流挂掉不能连累业务
		rl.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		c.Next()
		return
	}
	if count == 1 {
		rl.rdb.Expire(ctx, key, window)
	}

	if count > int64(limit) {
		retryAfter := window
		if ttl, err := rl.rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			retryAfter = ttl
		}
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success":    false,
			"error":      utils.CodeRateLimited,
			"message":    "Too many requests, please try again later",
			"retryAfter": int(retryAfter.Seconds()),
		})
		c.Abort()
		return
	}
	c.Next()
}
