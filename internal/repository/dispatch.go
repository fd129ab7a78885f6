package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/shenikar/green_corridor_dispatch/internal/service"
)

// срок жизни записи в кэше
const recordCacheTTL = 5 * time.Minute

type DispatchRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

// NewDispatchRepository создает архив записей. redisClient может быть nil.
func NewDispatchRepository(db *pgxpool.Pool, redisClient *redis.Client) service.DispatchArchive {
	return &DispatchRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Save сохраняет сводную запись. Повторное сохранение того же происшествия ничего не меняет.
func (r *DispatchRepository) Save(ctx context.Context, record *models.DispatchRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch record: %w", err)
	}

	var facilityID *string
	if record.Reservation != nil {
		facilityID = &record.Reservation.FacilityID
	}

	query := `
		INSERT INTO dispatch_records (incident_id, external_ref, status, degraded, facility_id, received_at, finalized_at, record)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (incident_id) DO NOTHING;
	`
	_, err = r.db.Exec(ctx, query,
		record.IncidentID,
		record.ExternalRef,
		record.Status,
		record.Degraded,
		facilityID,
		record.ReceivedAt,
		record.FinalizedAt,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save dispatch record: %w", err)
	}

	if err := r.SetRecordCache(ctx, record); err != nil {
		return err
	}
	return nil
}

// GetByID возвращает запись по идентификатору происшествия, сначала из кэша
func (r *DispatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DispatchRecord, error) {
	cached, err := r.GetRecordFromCache(ctx, id)
	if err == nil && cached != nil {
		return cached, nil
	}

	var payload []byte
	query := `SELECT record FROM dispatch_records WHERE incident_id = $1;`
	if err := r.db.QueryRow(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("failed to get dispatch record by id: %w", err)
	}

	record := &models.DispatchRecord{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dispatch record: %w", err)
	}
	_ = r.SetRecordCache(ctx, record)
	return record, nil
}

// ListRecent возвращает финализированные записи с пагинацией, новые первыми
func (r *DispatchRepository) ListRecent(ctx context.Context, page, pageSize int) ([]*models.DispatchRecord, error) {
	offset := (page - 1) * pageSize

	query := `
		SELECT record
		FROM dispatch_records
		ORDER BY finalized_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list dispatch records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.DispatchRecord, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan dispatch record row: %w", err)
		}
		record := &models.DispatchRecord{}
		if err := json.Unmarshal(payload, record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dispatch record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return records, nil
}

// GetRecordFromCache пытается получить запись из Redis
func (r *DispatchRepository) GetRecordFromCache(ctx context.Context, id uuid.UUID) (*models.DispatchRecord, error) {
	return getCachedRecord(ctx, r.redisClient, id)
}

// SetRecordCache сохраняет запись в Redis
func (r *DispatchRepository) SetRecordCache(ctx context.Context, record *models.DispatchRecord) error {
	return setCachedRecord(ctx, r.redisClient, record)
}

func recordCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("dispatch_record:%s", id.String())
}

func getCachedRecord(ctx context.Context, client *redis.Client, id uuid.UUID) (*models.DispatchRecord, error) {
	if client == nil {
		return nil, nil
	}
	val, err := client.Get(ctx, recordCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dispatch record from cache: %w", err)
	}

	record := &models.DispatchRecord{}
	if err := json.Unmarshal(val, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dispatch record from cache: %w", err)
	}
	return record, nil
}

func setCachedRecord(ctx context.Context, client *redis.Client, record *models.DispatchRecord) error {
	if client == nil {
		return nil
	}
	val, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch record for cache: %w", err)
	}
	if err := client.Set(ctx, recordCacheKey(record.IncidentID), val, recordCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set dispatch record in cache: %w", err)
	}
	return nil
}
