// file: services/hint_service_test.go
package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator 控制生成结果，测试降级路径
type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) GenerateHint(ctx context.Context, challenge models.Challenge) (string, error) {
	return g.text, g.err
}

func TestListHintsMetadataOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewHintService(db, &stubGenerator{}, testLogger())

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 100)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}",
		models.Hint{Position: 0, Text: "first hint", Cost: 30},
		models.Hint{Position: 1, Text: "second hint", Cost: 60},
	)

	metas, err := svc.ListHints(context.Background(), challenge.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, 30, metas[0].Cost)
	assert.False(t, metas[0].IsUnlocked)
	assert.False(t, metas[1].IsUnlocked)
}

func TestUnlockDeductsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewHintService(db, &stubGenerator{}, testLogger())

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 100)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}",
		models.Hint{Position: 0, Text: "look at the headers", Cost: 30},
	)

	var hint models.Hint
	require.NoError(t, db.Where("challenge_id = ?", challenge.ID).First(&hint).Error)

	first, err := svc.Unlock(context.Background(), challenge.ID, user.ID, strconv.Itoa(int(hint.ID)))
	require.NoError(t, err)
	assert.Equal(t, "look at the headers", first.Text)
	assert.Equal(t, 30, first.PointsDeducted)
	assert.Equal(t, 70, first.RemainingPoints)

	// 再次解锁免费返回缓存文本
	second, err := svc.Unlock(context.Background(), challenge.ID, user.ID, strconv.Itoa(int(hint.ID)))
	require.NoError(t, err)
	assert.Equal(t, "look at the headers", second.Text)
	assert.Equal(t, 0, second.PointsDeducted)
	assert.Equal(t, 70, second.RemainingPoints)

	metas, err := svc.ListHints(context.Background(), challenge.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, metas[0].IsUnlocked)
}

func TestUnlockByTextFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewHintService(db, &stubGenerator{}, testLogger())

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 100)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}",
		models.Hint{Position: 0, Text: "check robots.txt", Cost: 40},
	)

	result, err := svc.Unlock(context.Background(), challenge.ID, user.ID, "check robots.txt")
	require.NoError(t, err)
	assert.Equal(t, 40, result.PointsDeducted)
}

// 积分不足时解锁被整体回滚：不扣分也不写台账
func TestUnlockInsufficientPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewHintService(db, &stubGenerator{}, testLogger())

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 10)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}",
		models.Hint{Position: 0, Text: "expensive hint", Cost: 50},
	)

	var hint models.Hint
	require.NoError(t, db.Where("challenge_id = ?", challenge.ID).First(&hint).Error)

	_, err := svc.Unlock(context.Background(), challenge.ID, user.ID, strconv.Itoa(int(hint.ID)))
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "You need 40 more points")

	var userAfter models.User
	require.NoError(t, db.First(&userAfter, user.ID).Error)
	assert.Equal(t, 10, userAfter.Points)

	var unlockCount int64
	require.NoError(t, db.Model(&models.HintUnlock{}).
		Where("user_id = ?", user.ID).Count(&unlockCount).Error)
	assert.Equal(t, int64(0), unlockCount)
}

func TestUnlockUnknownHint(t *testing.T) {
	db := newTestDB(t)
	svc := NewHintService(db, &stubGenerator{}, testLogger())

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 100)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}")

	_, err := svc.Unlock(context.Background(), challenge.ID, user.ID, "12345")
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.CodeNotFound, appErr.Code)
}

func TestGenerateHintUsesGenerator(t *testing.T) {
	db := newTestDB(t)
	svc := NewHintService(db, &stubGenerator{text: "generated hint"}, testLogger())

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 100)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}")

	result, err := svc.GenerateHint(context.Background(), challenge, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "generated hint", result.Text)
	assert.Equal(t, models.DefaultHintCost, result.PointsDeducted)
	assert.Equal(t, 50, result.RemainingPoints)
}

// 生成服务失败不影响收费流程，退回按分类预置的文案
func TestGenerateHintFallsBackToCanned(t *testing.T) {
	db := newTestDB(t)
	svc := NewHintService(db, &stubGenerator{err: errors.New("upstream down")}, testLogger())

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 100)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}")

	result, err := svc.GenerateHint(context.Background(), challenge, user.ID)
	require.NoError(t, err)
	assert.Equal(t, CannedHint("web"), result.Text)
	assert.Equal(t, models.DefaultHintCost, result.PointsDeducted)
}

func TestGenerateHintInsufficientPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewHintService(db, &stubGenerator{text: "generated"}, testLogger())

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 20)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}")

	_, err := svc.GenerateHint(context.Background(), challenge, user.ID)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "You need 30 more points")

	var userAfter models.User
	require.NoError(t, db.First(&userAfter, user.ID).Error)
	assert.Equal(t, 20, userAfter.Points)
}

func TestCheapestAffordable(t *testing.T) {
	svc := NewHintService(nil, &stubGenerator{}, testLogger())

	hints := []models.Hint{
		{ID: 1, Cost: 80},
		{ID: 2, Cost: 30},
		{ID: 3, Cost: 50},
	}

	cheapest, minCost := svc.CheapestAffordable(hints, 60)
	require.NotNil(t, cheapest)
	assert.Equal(t, uint32(2), cheapest.ID)
	assert.Equal(t, 30, minCost)

	cheapest, minCost = svc.CheapestAffordable(hints, 10)
	assert.Nil(t, cheapest)
	assert.Equal(t, 30, minCost)
}
