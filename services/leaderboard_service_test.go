// file: services/leaderboard_service_test.go
package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankTiesShareRank(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, testLogger())
	ctx := context.Background()

	newTestUser(t, db, "alice", 300)
	bob := newTestUser(t, db, "bob", 200)
	carol := newTestUser(t, db, "carol", 200)
	dave := newTestUser(t, db, "dave", 100)

	_, bobRank, err := svc.Rank(ctx, bob.ID)
	require.NoError(t, err)
	_, carolRank, err := svc.Rank(ctx, carol.ID)
	require.NoError(t, err)
	_, daveRank, err := svc.Rank(ctx, dave.ID)
	require.NoError(t, err)

	// 同分同名次，后继名次跳过占位
	assert.Equal(t, int64(2), bobRank)
	assert.Equal(t, int64(2), carolRank)
	assert.Equal(t, int64(4), daveRank)
}

func TestTopOrdersByPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, testLogger())
	ctx := context.Background()

	newTestUser(t, db, "alice", 100)
	newTestUser(t, db, "bob", 300)
	newTestUser(t, db, "carol", 200)

	entries, err := svc.Top(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "bob", entries[0].User.Username)
	assert.Equal(t, "carol", entries[1].User.Username)
	assert.Equal(t, "alice", entries[2].User.Username)
	assert.Equal(t, int64(1), entries[0].Rank)
}

// 请求者在前 50 之外时，名次单独计算并附在末尾
func TestTopAppendsRequesterOutsideWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, testLogger())
	ctx := context.Background()

	for i := 0; i < LeaderboardSize; i++ {
		newTestUser(t, db, fmt.Sprintf("player%02d", i), 1000-i)
	}
	straggler := newTestUser(t, db, "straggler", 5)

	entries, err := svc.Top(ctx, &straggler.ID)
	require.NoError(t, err)
	require.Len(t, entries, LeaderboardSize+1)

	last := entries[len(entries)-1]
	assert.Equal(t, "straggler", last.User.Username)
	assert.Equal(t, int64(LeaderboardSize+1), last.Rank)
}

func TestTopRequesterInsideWindowNotDuplicated(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, testLogger())
	ctx := context.Background()

	alice := newTestUser(t, db, "alice", 300)
	newTestUser(t, db, "bob", 200)

	entries, err := svc.Top(ctx, &alice.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTopIncludesSolveCounts(t *testing.T) {
	db := newTestDB(t)
	leaderboard := NewLeaderboardService(db, testLogger())
	submissions := NewSubmissionService(db, testLogger())
	ctx := context.Background()

	author := newTestUser(t, db, "alice", 0)
	solver := newTestUser(t, db, "bob", 0)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}")

	_, err := submissions.Submit(ctx, challenge.ID, solver.ID, "CTF{x}")
	require.NoError(t, err)

	entries, err := leaderboard.Top(ctx, nil)
	require.NoError(t, err)

	byName := make(map[string]LeaderboardEntry)
	for _, e := range entries {
		byName[e.User.Username] = e
	}
	assert.Equal(t, int64(1), byName["bob"].SolvedCount)
	assert.Equal(t, int64(0), byName["alice"].SolvedCount)
}

func TestSolvedChallengesOrdered(t *testing.T) {
	db := newTestDB(t)
	leaderboard := NewLeaderboardService(db, testLogger())
	ctx := context.Background()

	author := newTestUser(t, db, "alice", 0)
	solver := newTestUser(t, db, "bob", 0)
	c1 := newTestChallenge(t, db, author.ID, "CTF{one}")
	c2 := newTestChallenge(t, db, author.ID, "CTF{two}")

	// 直接插 solve 记录以控制时间先后
	require.NoError(t, db.Create(&models.Solve{UserID: solver.ID, ChallengeID: c2.ID, PointsAwarded: 200}).Error)
	require.NoError(t, db.Create(&models.Solve{UserID: solver.ID, ChallengeID: c1.ID, PointsAwarded: 200}).Error)

	solved, solves, err := leaderboard.SolvedChallenges(ctx, solver.ID)
	require.NoError(t, err)
	require.Len(t, solved, 2)
	require.Len(t, solves, 2)
	assert.Equal(t, c2.ID, solved[0].ID)
	assert.Equal(t, c1.ID, solved[1].ID)
}
