package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"threadledger/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no snapshot is cached for the key.
var ErrCacheMiss = errors.New("cache miss")

// CacheService materializes derived stock views. Snapshots are whole
// recomputed results stored with a TTL; they are invalidated (deleted) on
// every ledger append and never patched in place, so they cannot drift from
// the ledger.
type CacheService interface {
	GetStockSummaries(ctx context.Context, agencyID uuid.UUID) ([]*models.StockSummary, error)
	SetStockSummaries(ctx context.Context, agencyID uuid.UUID, summaries []*models.StockSummary, ttl time.Duration) error
	InvalidateStock(ctx context.Context, agencyID uuid.UUID) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func stockKey(agencyID uuid.UUID) string {
	return fmt.Sprintf("stock:%s:summaries", agencyID.String())
}

func (s *redisCacheService) GetStockSummaries(ctx context.Context, agencyID uuid.UUID) ([]*models.StockSummary, error) {
	data, err := s.client.Get(ctx, stockKey(agencyID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var summaries []*models.StockSummary
	if err := json.Unmarshal([]byte(data), &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *redisCacheService) SetStockSummaries(ctx context.Context, agencyID uuid.UUID, summaries []*models.StockSummary, ttl time.Duration) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, stockKey(agencyID), data, ttl).Err()
}

func (s *redisCacheService) InvalidateStock(ctx context.Context, agencyID uuid.UUID) error {
	return s.client.Del(ctx, stockKey(agencyID)).Err()
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
