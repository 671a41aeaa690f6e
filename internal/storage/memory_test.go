package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiscribe/aiscribe-backend/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateUser_Defaults(t *testing.T) {
	s := NewMemoryStorage()

	u1, err := s.CreateUser("alice", "hash1")
	require.NoError(t, err)
	u2, err := s.CreateUser("bob", "hash2")
	require.NoError(t, err)

	assert.Equal(t, 1, u1.ID)
	assert.Equal(t, 2, u2.ID)
	assert.False(t, u1.Premium)
	assert.Equal(t, 0, u1.DailyGenerations)
	assert.NotNil(t, u1.LastGeneratedAt)
}

func TestGetUserByUsername(t *testing.T) {
	s := NewMemoryStorage()
	_, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	u, err := s.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	// case-sensitive match
	_, err = s.GetUserByUsername("Alice")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUserPremium(t *testing.T) {
	s := NewMemoryStorage()
	u, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	updated, err := s.UpdateUserPremium(u.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Premium)

	_, err = s.UpdateUserPremium(999, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncrementUserGenerations_SameDay(t *testing.T) {
	s := NewMemoryStorage()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s.now = fixedClock(day)

	u, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	u, err = s.IncrementUserGenerations(u.ID)
	require.NoError(t, err)
	u, err = s.IncrementUserGenerations(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, u.DailyGenerations)

	// Later the same day: 2 -> 3.
	s.now = fixedClock(day.Add(8 * time.Hour))
	u, err = s.IncrementUserGenerations(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, u.DailyGenerations)
}

func TestIncrementUserGenerations_DayRollover(t *testing.T) {
	s := NewMemoryStorage()
	day := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	s.now = fixedClock(day)

	u, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		u, err = s.IncrementUserGenerations(u.ID)
		require.NoError(t, err)
	}
	require.Equal(t, 2, u.DailyGenerations)

	// Next calendar day: counter resets to 1.
	nextDay := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	s.now = fixedClock(nextDay)
	u, err = s.IncrementUserGenerations(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.DailyGenerations)
	assert.Equal(t, nextDay, *u.LastGeneratedAt)
}

// The rollover compares day-of-month only: a month later on the same day
// number the counter keeps accumulating. Pinned deliberately.
func TestIncrementUserGenerations_DayOfMonthSemantics(t *testing.T) {
	s := NewMemoryStorage()
	s.now = fixedClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	u, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)
	u, err = s.IncrementUserGenerations(u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, u.DailyGenerations)

	s.now = fixedClock(time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC))
	u, err = s.IncrementUserGenerations(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, u.DailyGenerations)
}

func TestConsumeGeneration_LimitReached(t *testing.T) {
	s := NewMemoryStorage()
	s.now = fixedClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	u, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		u, err = s.ConsumeGeneration(u.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, i, u.DailyGenerations)
	}

	_, err = s.ConsumeGeneration(u.ID, 3)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Rejection must not mutate the counter.
	got, err := s.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.DailyGenerations)
}

func TestConsumeGeneration_UnlimitedAndRollover(t *testing.T) {
	s := NewMemoryStorage()
	s.now = fixedClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	u, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	// limit <= 0 is unlimited (premium path).
	for i := 0; i < 100; i++ {
		u, err = s.ConsumeGeneration(u.ID, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, u.DailyGenerations)

	// A free user over the limit is admitted again after the day rolls over.
	_, err = s.ConsumeGeneration(u.ID, 3)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	s.now = fixedClock(time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC))
	u, err = s.ConsumeGeneration(u.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, u.DailyGenerations)
}

func TestResetUserGenerations(t *testing.T) {
	s := NewMemoryStorage()
	u, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = s.IncrementUserGenerations(u.ID)
		require.NoError(t, err)
	}

	u, err = s.ResetUserGenerations(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, u.DailyGenerations)

	_, err = s.ResetUserGenerations(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTools_Seeded(t *testing.T) {
	s := NewMemoryStorage()

	tools, err := s.GetTools()
	require.NoError(t, err)
	require.Len(t, tools, 6)
	assert.Equal(t, "Blog Generator", tools[0].Name)
	assert.Equal(t, "Social Media Copy", tools[5].Name)
	for i, tool := range tools {
		assert.Equal(t, i+1, tool.ID)
	}

	tool, err := s.GetTool(2)
	require.NoError(t, err)
	assert.Equal(t, "Title Creator", tool.Name)

	_, err = s.GetTool(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerations_SortedNewestFirst(t *testing.T) {
	s := NewMemoryStorage()
	u, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)
	other, err := s.CreateUser("bob", "hash")
	require.NoError(t, err)

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s.now = fixedClock(base.Add(time.Duration(i) * time.Minute))
		_, err = s.CreateGeneration(gen(u.ID, 1, "prompt"))
		require.NoError(t, err)
	}
	s.now = fixedClock(base.Add(time.Hour))
	_, err = s.CreateGeneration(gen(other.ID, 1, "not alice's"))
	require.NoError(t, err)

	gens, err := s.GetGenerations(u.ID)
	require.NoError(t, err)
	require.Len(t, gens, 3)
	for i := 0; i < len(gens)-1; i++ {
		assert.True(t, !gens[i].CreatedAt.Before(gens[i+1].CreatedAt),
			"generations must be sorted newest-first")
	}
	assert.Equal(t, 3, gens[0].ID)
}

func TestDeleteGeneration_Idempotent(t *testing.T) {
	s := NewMemoryStorage()
	u, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)
	g, err := s.CreateGeneration(gen(u.ID, 1, "prompt"))
	require.NoError(t, err)

	existed, err := s.DeleteGeneration(g.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = s.GetGeneration(g.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	existed, err = s.DeleteGeneration(g.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestResetTokens_Lifecycle(t *testing.T) {
	s := NewMemoryStorage()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = fixedClock(now)

	_, err := s.CreateUser("alice", "oldhash")
	require.NoError(t, err)

	_, err = s.VerifyResetToken("unknown")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	require.NoError(t, s.StoreResetToken("alice", "tok-valid", now.Add(time.Hour)))
	username, err := s.VerifyResetToken("tok-valid")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	// Expired token: invalid and removed, so a retry is also invalid.
	require.NoError(t, s.StoreResetToken("alice", "tok-stale", now.Add(-time.Minute)))
	_, err = s.VerifyResetToken("tok-stale")
	assert.ErrorIs(t, err, ErrTokenExpired)
	_, err = s.VerifyResetToken("tok-stale")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResetPassword_SingleUse(t *testing.T) {
	s := NewMemoryStorage()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = fixedClock(now)

	u, err := s.CreateUser("alice", "oldhash")
	require.NoError(t, err)
	require.NoError(t, s.StoreResetToken("alice", "tok", now.Add(time.Hour)))

	require.NoError(t, s.ResetPassword("tok", "newhash"))

	got, err := s.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.Password)

	// The token is consumed: reuse fails.
	err = s.ResetPassword("tok", "anotherhash")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResetPassword_UserMissing(t *testing.T) {
	s := NewMemoryStorage()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = fixedClock(now)

	require.NoError(t, s.StoreResetToken("ghost", "tok", now.Add(time.Hour)))
	err := s.ResetPassword("tok", "newhash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func gen(userID, toolID int, prompt string) models.Generation {
	return models.Generation{
		UserID: userID,
		ToolID: toolID,
		Prompt: prompt,
		Output: "output for " + prompt,
		Title:  "title",
	}
}
