// file: services/testutil_test.go
package services

import (
	"path/filepath"
	"testing"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的 sqlite 文件库，
// 唯一索引等约束和生产库保持同构
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, username string, points int) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Points:   points,
	}
	require.NoError(t, user.SetPassword("Secret1!pass"))
	require.NoError(t, db.Create(&user).Error)
	return user
}

func newTestChallenge(t *testing.T, db *gorm.DB, authorID uint32, flag string, hints ...models.Hint) models.Challenge {
	t.Helper()

	challenge := models.Challenge{
		Title:       "Test Challenge",
		Description: "A challenge description long enough to be realistic",
		Category:    "web",
		Difficulty:  models.ChallengeDifficultyMedium,
		Points:      200,
		Flag:        flag,
		AuthorID:    authorID,
		Hints:       hints,
	}
	require.NoError(t, db.Create(&challenge).Error)
	return challenge
}

func newTestDiscussion(t *testing.T, db *gorm.DB, authorID uint32) models.Discussion {
	t.Helper()

	discussion := models.Discussion{
		Title:    "How to approach this?",
		Content:  "Looking for general direction on this challenge type",
		AuthorID: authorID,
	}
	require.NoError(t, db.Create(&discussion).Error)
	return discussion
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
