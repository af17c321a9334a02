// file: config/config.go
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 汇总所有运行时配置，启动时一次性加载，随后通过构造函数注入各层
type Config struct {
	Port           string
	MySQLDSN       string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JWTSecret      string
	OpenAIAPIKey   string
	UploadDir      string
	AllowedOrigins []string
	RunMigrations  bool
	DevMode        bool
}

// Load 读取 .env（可选）和环境变量，缺省值保证本地开发开箱即用
func Load() Config {
	// .env 不存在不算错误，容器环境一般直接注入环境变量
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return Config{
		Port:          getEnv("PORT", "8080"),
		MySQLDSN:      getEnv("MYSQL_DSN", "root:123456@tcp(localhost:3306)/ctf_platform?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		JWTSecret:     getEnv("JWT_SECRET", "dev-only-secret-change-me"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads/attachments"),
		AllowedOrigins: strings.Split(
			getEnv("FRONTEND_URL", "http://localhost:3000,http://localhost:5173"), ","),
		RunMigrations: getEnv("RUN_MIGRATIONS", "true") == "true",
		DevMode:       getEnv("DEV_MODE", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
