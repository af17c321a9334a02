// file: services/submission_service_test.go
package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCorrectFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, testLogger())

	author := newTestUser(t, db, "alice", 0)
	solver := newTestUser(t, db, "bob", 0)
	challenge := newTestChallenge(t, db, author.ID, "CTF{secret}")

	result, err := svc.Submit(context.Background(), challenge.ID, solver.ID, "CTF{secret}")
	require.NoError(t, err)
	assert.Equal(t, "Flag correct! Challenge solved!", result.Message)
	assert.Equal(t, 200, result.PointsAwarded)

	var solverAfter models.User
	require.NoError(t, db.First(&solverAfter, solver.ID).Error)
	assert.Equal(t, 200, solverAfter.Points)

	var challengeAfter models.Challenge
	require.NoError(t, db.First(&challengeAfter, challenge.ID).Error)
	assert.Equal(t, uint(1), challengeAfter.Solves)
}

func TestSubmitNormalizesFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, testLogger())

	author := newTestUser(t, db, "alice", 0)
	solver := newTestUser(t, db, "bob", 0)
	challenge := newTestChallenge(t, db, author.ID, "CTF{Secret}")

	result, err := svc.Submit(context.Background(), challenge.ID, solver.ID, "  ctf{sECRET}  ")
	require.NoError(t, err)
	assert.Equal(t, 200, result.PointsAwarded)
}

func TestSubmitIncorrectFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, testLogger())

	author := newTestUser(t, db, "alice", 0)
	solver := newTestUser(t, db, "bob", 0)
	challenge := newTestChallenge(t, db, author.ID, "CTF{secret}")

	_, err := svc.Submit(context.Background(), challenge.ID, solver.ID, "CTF{wrong}")
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, utils.CodeIncorrect, appErr.Code)

	var solverAfter models.User
	require.NoError(t, db.First(&solverAfter, solver.ID).Error)
	assert.Equal(t, 0, solverAfter.Points)
}

func TestSubmitEmptyFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, testLogger())

	author := newTestUser(t, db, "alice", 0)
	solver := newTestUser(t, db, "bob", 0)
	challenge := newTestChallenge(t, db, author.ID, "CTF{secret}")

	_, err := svc.Submit(context.Background(), challenge.ID, solver.ID, "   ")
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.CodeValidation, appErr.Code)
}

// 重复提交正确 Flag 只计一次分
func TestSubmitTwiceAwardsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, testLogger())

	author := newTestUser(t, db, "alice", 0)
	solver := newTestUser(t, db, "bob", 0)
	challenge := newTestChallenge(t, db, author.ID, "CTF{secret}")

	first, err := svc.Submit(context.Background(), challenge.ID, solver.ID, "CTF{secret}")
	require.NoError(t, err)
	assert.Equal(t, 200, first.PointsAwarded)

	second, err := svc.Submit(context.Background(), challenge.ID, solver.ID, "CTF{secret}")
	require.NoError(t, err)
	assert.Equal(t, "Already solved!", second.Message)
	assert.Equal(t, 0, second.PointsAwarded)

	var solverAfter models.User
	require.NoError(t, db.First(&solverAfter, solver.ID).Error)
	assert.Equal(t, 200, solverAfter.Points)

	var challengeAfter models.Challenge
	require.NoError(t, db.First(&challengeAfter, challenge.ID).Error)
	assert.Equal(t, uint(1), challengeAfter.Solves)

	var solveCount int64
	require.NoError(t, db.Model(&models.Solve{}).
		Where("user_id = ?", solver.ID).Count(&solveCount).Error)
	assert.Equal(t, int64(1), solveCount)
}

// 自解拦截先于 Flag 比较：作者连提交错误 Flag 都拿不到 400
func TestSubmitOwnChallengeBlocked(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, testLogger())

	author := newTestUser(t, db, "alice", 0)
	challenge := newTestChallenge(t, db, author.ID, "CTF{secret}")

	for _, flag := range []string{"CTF{secret}", "CTF{wrong}"} {
		_, err := svc.Submit(context.Background(), challenge.ID, author.ID, flag)
		var appErr *utils.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Status)
		assert.Equal(t, utils.CodeSelfSolve, appErr.Code)
	}

	var authorAfter models.User
	require.NoError(t, db.First(&authorAfter, author.ID).Error)
	assert.Equal(t, 0, authorAfter.Points)
}

func TestSubmitUnknownChallenge(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, testLogger())

	solver := newTestUser(t, db, "bob", 0)

	_, err := svc.Submit(context.Background(), 9999, solver.ID, "CTF{secret}")
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

// 多人解同一题互不影响，每人各计一次
func TestSubmitMultipleSolvers(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, testLogger())

	author := newTestUser(t, db, "alice", 0)
	challenge := newTestChallenge(t, db, author.ID, "CTF{secret}")

	for _, name := range []string{"bob", "carol", "dave"} {
		solver := newTestUser(t, db, name, 0)
		result, err := svc.Submit(context.Background(), challenge.ID, solver.ID, "CTF{secret}")
		require.NoError(t, err)
		assert.Equal(t, 200, result.PointsAwarded)
	}

	var challengeAfter models.Challenge
	require.NoError(t, db.First(&challengeAfter, challenge.ID).Error)
	assert.Equal(t, uint(3), challengeAfter.Solves)
}
