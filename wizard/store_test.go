package wizard

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store DraftStore) {
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	w := New("draft-store-test")
	w.FormData = completeForm()
	require.NoError(t, w.GoToStep(StepPackage))
	require.NoError(t, store.Save(ctx, w))

	loaded, err := store.Load(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, StepPackage, loaded.CurrentStep)
	assert.Equal(t, w.FormData, loaded.FormData)

	// mutating the loaded copy does not change the stored draft
	loaded.ToggleAddOn("bg-music")
	again, err := store.Load(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"rsvp"}, again.FormData.SelectedAddOns)

	require.NoError(t, store.Delete(ctx, w.ID))
	_, err = store.Load(ctx, w.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)
	assert.Equal(t, 0, store.Len())
}

func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	defer rdb.Close()
	require.NoError(t, rdb.Ping(context.Background()).Err())

	store := NewRedisStore(rdb)
	exerciseStore(t, store)

	w := New("draft-ttl-test")
	require.NoError(t, store.Save(context.Background(), w))
	defer store.Delete(context.Background(), w.ID)

	ttl, err := rdb.TTL(context.Background(), draftKey(w.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, DraftTTL-time.Minute)
}
