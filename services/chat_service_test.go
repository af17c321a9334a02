// file: services/chat_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatPredefinedResponses(t *testing.T) {
	db := newTestDB(t)
	hints := NewHintService(db, &stubGenerator{}, testLogger())
	svc := NewChatService(db, hints, testLogger())
	ctx := context.Background()

	user := newTestUser(t, db, "bob", 0)

	reply, err := svc.Handle(ctx, user.ID, "  Hello  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "predefined", reply.Type)
	assert.Contains(t, reply.Response, "Hello!")

	reply, err = svc.Handle(ctx, user.ID, "thanks", nil)
	require.NoError(t, err)
	assert.Equal(t, "predefined", reply.Type)
}

func TestChatUnknownMessage(t *testing.T) {
	db := newTestDB(t)
	hints := NewHintService(db, &stubGenerator{}, testLogger())
	svc := NewChatService(db, hints, testLogger())

	user := newTestUser(t, db, "bob", 0)

	reply, err := svc.Handle(context.Background(), user.ID, "what is the weather", nil)
	require.NoError(t, err)
	assert.Equal(t, "unknown", reply.Type)
}

func TestChatTipsAdviceHelp(t *testing.T) {
	db := newTestDB(t)
	hints := NewHintService(db, &stubGenerator{}, testLogger())
	svc := NewChatService(db, hints, testLogger())
	ctx := context.Background()

	user := newTestUser(t, db, "bob", 150)

	reply, err := svc.Handle(ctx, user.ID, "/tips", nil)
	require.NoError(t, err)
	assert.Equal(t, "tip", reply.Type)
	assert.Contains(t, reply.Response, "GENERAL CTF TIPS")

	reply, err = svc.Handle(ctx, user.ID, "/advice", nil)
	require.NoError(t, err)
	assert.Equal(t, "advice", reply.Type)

	reply, err = svc.Handle(ctx, user.ID, "/help", nil)
	require.NoError(t, err)
	assert.Equal(t, "help", reply.Type)
	assert.Contains(t, reply.Response, "150 points")
}

func TestChatHintRequiresChallenge(t *testing.T) {
	db := newTestDB(t)
	hints := NewHintService(db, &stubGenerator{}, testLogger())
	svc := NewChatService(db, hints, testLogger())

	user := newTestUser(t, db, "bob", 100)

	reply, err := svc.Handle(context.Background(), user.ID, "/hint", nil)
	require.NoError(t, err)
	assert.Equal(t, "error", reply.Type)
	assert.True(t, reply.RequiresChallenge)
}

func TestChatHintDeliversAuthoredHint(t *testing.T) {
	db := newTestDB(t)
	hints := NewHintService(db, &stubGenerator{}, testLogger())
	svc := NewChatService(db, hints, testLogger())
	ctx := context.Background()

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 100)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}",
		models.Hint{Position: 0, Text: "cheap hint", Cost: 30},
		models.Hint{Position: 1, Text: "pricey hint", Cost: 90},
	)

	reply, err := svc.Handle(ctx, user.ID, "/hint", &challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, "hint", reply.Type)
	assert.Contains(t, reply.Response, "cheap hint")
	assert.Equal(t, 30, reply.PointsDeducted)

	var userAfter models.User
	require.NoError(t, db.First(&userAfter, user.ID).Error)
	assert.Equal(t, 70, userAfter.Points)
}

func TestChatHintInsufficientPoints(t *testing.T) {
	db := newTestDB(t)
	hints := NewHintService(db, &stubGenerator{}, testLogger())
	svc := NewChatService(db, hints, testLogger())
	ctx := context.Background()

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 10)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}",
		models.Hint{Position: 0, Text: "some hint", Cost: 50},
	)

	reply, err := svc.Handle(ctx, user.ID, "/hint", &challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, "point_requirement", reply.Type)
	assert.Contains(t, reply.Response, "50 points")
}

func TestChatHintAlreadySolved(t *testing.T) {
	db := newTestDB(t)
	hints := NewHintService(db, &stubGenerator{}, testLogger())
	svc := NewChatService(db, hints, testLogger())
	ctx := context.Background()

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 100)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}")
	require.NoError(t, db.Create(&models.Solve{
		UserID: user.ID, ChallengeID: challenge.ID, PointsAwarded: 200,
	}).Error)

	reply, err := svc.Handle(ctx, user.ID, "/hint", &challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, "already_solved", reply.Type)
}

func TestChatHintGeneratedWhenNoAuthoredHints(t *testing.T) {
	db := newTestDB(t)
	hints := NewHintService(db, &stubGenerator{text: "think about XSS"}, testLogger())
	svc := NewChatService(db, hints, testLogger())
	ctx := context.Background()

	author := newTestUser(t, db, "alice", 0)
	user := newTestUser(t, db, "bob", 100)
	challenge := newTestChallenge(t, db, author.ID, "CTF{x}")

	reply, err := svc.Handle(ctx, user.ID, "/hint", &challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, "hint", reply.Type)
	assert.Contains(t, reply.Response, "AI HINT (50 points)")
	assert.Contains(t, reply.Response, "think about XSS")
	assert.Equal(t, models.DefaultHintCost, reply.PointsDeducted)
}
