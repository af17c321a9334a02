// file: database/redis.go
package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis 创建 Redis 客户端并在 5 秒内完成一次 Ping 探活
func NewRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 100, // 连接池大小
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return rdb, nil
}
