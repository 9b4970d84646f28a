package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragbot/internal/models"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, ttl), mr
}

func TestStoreAppendAndGet(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", models.RoleUser, "what is milvus?"))
	require.NoError(t, store.Append(ctx, "s1", models.RoleModel, "a vector database"))
	require.NoError(t, store.Append(ctx, "s2", models.RoleUser, "unrelated"))

	history, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ChatMessage{Role: models.RoleUser, Content: "what is milvus?"}, history[0])
	assert.Equal(t, models.ChatMessage{Role: models.RoleModel, Content: "a vector database"}, history[1])

	other, err := store.Get(ctx, "s2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "unrelated", other[0].Content)
}

func TestStoreUnknownSessionIsEmpty(t *testing.T) {
	store, _ := newTestStore(t, 0)

	history, err := store.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestStoreTTLRefreshedOnAppend(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", models.RoleUser, "hello"))
	assert.Equal(t, time.Minute, mr.TTL(historyKey("s1")))

	mr.FastForward(30 * time.Second)
	require.NoError(t, store.Append(ctx, "s1", models.RoleModel, "hi"))
	assert.Equal(t, time.Minute, mr.TTL(historyKey("s1")))
}
