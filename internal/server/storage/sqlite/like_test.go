package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/server/storage"
)

func TestLikeStorage_ToggleLike(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "author")
	createTestUser(t, ctx, s, "fan")
	postID := createTestPost(t, ctx, s, "author")

	for n := 1; n <= 5; n++ {
		state, err := s.ToggleLike(ctx, postID, "fan")
		require.NoError(t, err)

		liked := n%2 == 1
		assert.Equal(t, liked, state.Liked, "toggle #%d", n)
		if liked {
			assert.Equal(t, 1, state.Count)
		} else {
			assert.Equal(t, 0, state.Count)
		}
	}
}

func TestLikeStorage_ToggleLike_UnknownPost(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "fan")

	_, err := s.ToggleLike(ctx, 42, "fan")
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestLikeStorage_ToggleLike_AfterDelete(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "author")
	createTestUser(t, ctx, s, "fan")
	postID := createTestPost(t, ctx, s, "author")

	_, err := s.ToggleLike(ctx, postID, "fan")
	require.NoError(t, err)
	require.NoError(t, s.DeletePost(ctx, postID, "author"))

	_, err = s.ToggleLike(ctx, postID, "fan")
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestLikeStorage_ToggleLike_Concurrent(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "author")
	createTestUser(t, ctx, s, "fan")
	postID := createTestPost(t, ctx, s, "author")

	// Четное число переключений возвращает исходное состояние
	const toggles = 20

	var wg sync.WaitGroup
	for range toggles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ToggleLike(ctx, postID, "fan")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := s.GetLikeState(ctx, postID, "fan")
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Count: 0, Liked: false}, state)
}

func TestLikeStorage_ToggleLike_CountsDistinctUsers(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "author")
	postID := createTestPost(t, ctx, s, "author")

	for i := range 3 {
		name := fmt.Sprintf("fan%d", i)
		createTestUser(t, ctx, s, name)
		state, err := s.ToggleLike(ctx, postID, name)
		require.NoError(t, err)
		assert.True(t, state.Liked)
		assert.Equal(t, i+1, state.Count)
	}

	state, err := s.ToggleLike(ctx, postID, "fan1")
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, 2, state.Count)
}

func TestLikeStorage_SetLike_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "author")
	createTestUser(t, ctx, s, "fan")
	postID := createTestPost(t, ctx, s, "author")

	// Снятие отсутствующего лайка - no-op
	state, err := s.SetLike(ctx, postID, "fan", false)
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Count: 0, Liked: false}, state)

	for range 2 {
		state, err = s.SetLike(ctx, postID, "fan", true)
		require.NoError(t, err)
		assert.Equal(t, models.LikeState{Count: 1, Liked: true}, state)
	}

	var rows int
	require.NoError(t, s.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE post_id = ? AND username = ?`, postID, "fan").Scan(&rows))
	assert.Equal(t, 1, rows)

	for range 2 {
		state, err = s.SetLike(ctx, postID, "fan", false)
		require.NoError(t, err)
		assert.Equal(t, models.LikeState{Count: 0, Liked: false}, state)
	}
}

func TestLikeStorage_SetLike_UnknownPost(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "fan")

	_, err := s.SetLike(ctx, 7, "fan", true)
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestLikeStorage_GetLikeState(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "author")
	createTestUser(t, ctx, s, "fan")
	createTestUser(t, ctx, s, "lurker")
	postID := createTestPost(t, ctx, s, "author")

	_, err := s.SetLike(ctx, postID, "fan", true)
	require.NoError(t, err)

	state, err := s.GetLikeState(ctx, postID, "fan")
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Count: 1, Liked: true}, state)

	state, err = s.GetLikeState(ctx, postID, "lurker")
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Count: 1, Liked: false}, state)

	state, err = s.GetLikeState(ctx, postID+1, "fan")
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{}, state)
}

func TestLikeStorage_CountReceivedLikes(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	for _, name := range []string{"alice", "bob", "carol"} {
		createTestUser(t, ctx, s, name)
	}

	p1 := createTestPost(t, ctx, s, "alice")
	p2 := createTestPost(t, ctx, s, "alice")
	p3 := createTestPost(t, ctx, s, "bob")

	likes := []struct {
		user string
		post int64
	}{
		{"bob", p1},
		{"carol", p1},
		{"carol", p2},
		{"alice", p3},
	}
	for _, l := range likes {
		_, err := s.SetLike(ctx, l.post, l.user, true)
		require.NoError(t, err)
	}

	tests := []struct {
		user string
		want int
	}{
		{"alice", 3},
		{"bob", 1},
		{"carol", 0},
		{"nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			coins, err := s.CountReceivedLikes(ctx, tt.user)
			require.NoError(t, err)
			assert.Equal(t, tt.want, coins)
		})
	}

	// После удаления поста его лайки не учитываются
	require.NoError(t, s.DeletePost(ctx, p1, "alice"))
	coins, err := s.CountReceivedLikes(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, coins)
}
