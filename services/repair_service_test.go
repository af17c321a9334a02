// file: services/repair_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSystemUserIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewRepairService(db, testLogger())
	ctx := context.Background()

	first, err := svc.EnsureSystemUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SystemUsername, first.Username)
	assert.Equal(t, models.RoleSystem, first.Role)

	second, err := svc.EnsureSystemUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).
		Where("username = ?", models.SystemUsername).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepairOrphanedChallenges(t *testing.T) {
	db := newTestDB(t)
	svc := NewRepairService(db, testLogger())
	ctx := context.Background()

	owner := newTestUser(t, db, "alice", 0)
	owned := newTestChallenge(t, db, owner.ID, "CTF{owned}")

	// 作者指向已不存在的用户
	orphan := newTestChallenge(t, db, owner.ID, "CTF{orphan}")
	require.NoError(t, db.Model(&models.Challenge{}).
		Where("id = ?", orphan.ID).Update("author_id", 9999).Error)

	require.NoError(t, svc.Run(ctx))

	var systemUser models.User
	require.NoError(t, db.Where("username = ?", models.SystemUsername).First(&systemUser).Error)

	var orphanAfter models.Challenge
	require.NoError(t, db.First(&orphanAfter, orphan.ID).Error)
	assert.Equal(t, systemUser.ID, orphanAfter.AuthorID)

	// 正常归属不受影响
	var ownedAfter models.Challenge
	require.NoError(t, db.First(&ownedAfter, owned.ID).Error)
	assert.Equal(t, owner.ID, ownedAfter.AuthorID)
}
