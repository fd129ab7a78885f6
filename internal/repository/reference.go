package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/green_corridor_dispatch/internal/intake"
)

// ReferenceRepository - реестр внешних ссылок в Redis, общий для нескольких экземпляров
type ReferenceRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewReferenceRepository создает реестр. ttl <= 0 означает бессрочное хранение.
func NewReferenceRepository(client *redis.Client, ttl time.Duration) intake.ReferenceRegistry {
	if ttl < 0 {
		ttl = 0
	}
	return &ReferenceRepository{
		redisClient: client,
		ttl:         ttl,
	}
}

func referenceKey(ref string) string {
	return fmt.Sprintf("incident_ref:%s", ref)
}

// Claim атомарно закрепляет ссылку через SET NX
func (r *ReferenceRepository) Claim(ctx context.Context, ref string, id uuid.UUID) (uuid.UUID, bool, error) {
	ok, err := r.redisClient.SetNX(ctx, referenceKey(ref), id.String(), r.ttl).Result()
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to claim external reference: %w", err)
	}
	if ok {
		return id, true, nil
	}

	existing, found, err := r.Lookup(ctx, ref)
	if err != nil {
		return uuid.Nil, false, err
	}
	if !found {
		// ключ истек между SETNX и GET
		return r.Claim(ctx, ref, id)
	}
	return existing, false, nil
}

func (r *ReferenceRepository) Lookup(ctx context.Context, ref string) (uuid.UUID, bool, error) {
	val, err := r.redisClient.Get(ctx, referenceKey(ref)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("failed to look up external reference: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupted external reference %s: %w", ref, err)
	}
	return id, true, nil
}

func (r *ReferenceRepository) Forget(ctx context.Context, ref string) error {
	if err := r.redisClient.Del(ctx, referenceKey(ref)).Err(); err != nil {
		return fmt.Errorf("failed to forget external reference: %w", err)
	}
	return nil
}
