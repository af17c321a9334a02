// file: database/connect.go
package database

import (
	"time"

	"github.com/KANlKA/CTF-Platform/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect 建立 MySQL 连接并配置连接池，DSN 来自配置而不是写死在代码里
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SetMaxIdleConns 用于设置连接池中空闲连接的最大数量。
	sqlDB.SetMaxIdleConns(10)

	// SetMaxOpenConns 设置打开数据库连接的最大数量。
	sqlDB.SetMaxOpenConns(100)

	// SetConnMaxLifetime 设置了连接可复用的最大时间。
	// 这对于解决 MySQL 的 'wait_timeout' 问题至关重要。
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// MigrateTables 自动迁移表结构
func MigrateTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.Hint{},
		&models.Attachment{},
		&models.Solve{},
		&models.HintUnlock{},
		&models.TodoItem{},
		&models.Discussion{},
		&models.DiscussionTag{},
		&models.Comment{},
		&models.Vote{},
	)
}
