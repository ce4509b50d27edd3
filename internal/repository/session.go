package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, record *entity.SessionRecord) error
	GetByID(ctx context.Context, id string) (*entity.SessionRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository stores session records in Redis. A zero ttl keeps them forever.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, record *entity.SessionRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	err = that.client.Set(ctx, sessionKeyPrefix+record.ID, recordJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.SessionRecord, error) {
	response, err := that.client.Get(ctx, sessionKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.SessionRecord{}, ErrSessionNotFound
	}

	if err != nil {
		return &entity.SessionRecord{}, fmt.Errorf("failed to get session by id: %w", err)
	}

	var record entity.SessionRecord
	if err = json.Unmarshal([]byte(response), &record); err != nil {
		return &entity.SessionRecord{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &record, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	err := that.client.Del(ctx, sessionKeyPrefix+id).Err()
	if err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	return nil
}
