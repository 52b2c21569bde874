package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tubecert-service/internal/domain"
)

// QuizStore persists quiz records as JSONB rows addressed by the
// derived cache key. This is the authoritative store; the Redis layer
// in infra/redis is only a latency optimization in front of it.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) Get(ctx context.Context, key string) (domain.QuizRecord, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quiz_cache WHERE key=$1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizRecord{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizRecord{}, fmt.Errorf("load quiz: %w", err)
	}
	var record domain.QuizRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return domain.QuizRecord{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return record, nil
}

func (s *QuizStore) Put(ctx context.Context, key string, record domain.QuizRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	// Full replace; last writer wins on concurrent generation.
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_cache (key, data) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data`,
		key, raw)
	if err != nil {
		return fmt.Errorf("store quiz: %w", err)
	}
	return nil
}
