package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestReferenceRepository_ClaimOnce(t *testing.T) {
	// Подготовка
	client, mr := newTestRedis(t)
	registry := NewReferenceRepository(client, time.Hour)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	// Действие
	got, claimed, err := registry.Claim(ctx, "CALL-100", first)
	require.NoError(t, err)
	again, claimedAgain, err := registry.Claim(ctx, "CALL-100", second)
	require.NoError(t, err)

	// Проверки
	assert.True(t, claimed)
	assert.Equal(t, first, got)
	assert.False(t, claimedAgain)
	assert.Equal(t, first, again)
	assert.Equal(t, time.Hour, mr.TTL("incident_ref:CALL-100"))
}

func TestReferenceRepository_ZeroTTLNeverExpires(t *testing.T) {
	// Подготовка
	client, mr := newTestRedis(t)
	registry := NewReferenceRepository(client, 0)
	ctx := context.Background()
	first := uuid.New()

	_, claimed, err := registry.Claim(ctx, "CALL-KEEP", first)
	require.NoError(t, err)
	require.True(t, claimed)

	// Действие
	mr.FastForward(30 * 24 * time.Hour)
	got, claimedAgain, err := registry.Claim(ctx, "CALL-KEEP", uuid.New())

	// Проверки
	require.NoError(t, err)
	assert.False(t, claimedAgain)
	assert.Equal(t, first, got)
	assert.Zero(t, mr.TTL("incident_ref:CALL-KEEP"))
}

func TestReferenceRepository_ConcurrentClaims(t *testing.T) {
	client, _ := newTestRedis(t)
	registry := NewReferenceRepository(client, 0)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, claimed, err := registry.Claim(ctx, "CALL-RACE", uuid.New())
			assert.NoError(t, err)
			if claimed {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestReferenceRepository_LookupAndForget(t *testing.T) {
	client, mr := newTestRedis(t)
	registry := NewReferenceRepository(client, time.Minute)
	ctx := context.Background()
	id := uuid.New()

	_, found, err := registry.Lookup(ctx, "CALL-200")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = registry.Claim(ctx, "CALL-200", id)
	require.NoError(t, err)
	got, found, err := registry.Lookup(ctx, "CALL-200")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, got)

	require.NoError(t, registry.Forget(ctx, "CALL-200"))
	assert.False(t, mr.Exists("incident_ref:CALL-200"))

	// после истечения срока ссылку можно занять заново
	_, _, err = registry.Claim(ctx, "CALL-300", id)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	other := uuid.New()
	got, claimed, err := registry.Claim(ctx, "CALL-300", other)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, other, got)
}

func TestReferenceRepository_CorruptedValue(t *testing.T) {
	client, mr := newTestRedis(t)
	registry := NewReferenceRepository(client, 0)
	require.NoError(t, mr.Set("incident_ref:CALL-BAD", "not-a-uuid"))

	_, _, err := registry.Lookup(context.Background(), "CALL-BAD")

	assert.ErrorContains(t, err, "corrupted external reference")
}

func TestDispatchRepository_RecordCache(t *testing.T) {
	// Подготовка
	client, mr := newTestRedis(t)
	repo := &DispatchRepository{redisClient: client}
	ctx := context.Background()
	record := &models.DispatchRecord{
		IncidentID:  uuid.New(),
		ExternalRef: "CALL-400",
		Status:      models.StatusDispatched,
		Reason:      "dispatched to AIIMS_DELHI, priority ETA 9 min (saves 8 min)",
		ReceivedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		FinalizedAt: time.Date(2026, 3, 1, 9, 40, 0, 0, time.UTC),
		Reservation: &models.Reservation{FacilityID: "AIIMS_DELHI", BedClass: models.BedGeneral},
	}

	// Действие
	missing, err := repo.GetRecordFromCache(ctx, record.IncidentID)
	require.NoError(t, err)
	require.NoError(t, repo.SetRecordCache(ctx, record))

	// Проверки
	assert.Nil(t, missing)
	got, err := repo.GetByID(ctx, record.IncidentID)
	require.NoError(t, err)
	assert.Equal(t, record.Reason, got.Reason)
	assert.Equal(t, "AIIMS_DELHI", got.Reservation.FacilityID)
	assert.Equal(t, recordCacheTTL, mr.TTL(recordCacheKey(record.IncidentID)))
}

func TestDispatchRepository_CacheDisabled(t *testing.T) {
	repo := &DispatchRepository{}
	ctx := context.Background()

	require.NoError(t, repo.SetRecordCache(ctx, &models.DispatchRecord{IncidentID: uuid.New()}))
	got, err := repo.GetRecordFromCache(ctx, uuid.New())

	require.NoError(t, err)
	assert.Nil(t, got)
}
