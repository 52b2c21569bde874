package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"tubecert-service/internal/domain"
	"tubecert-service/internal/infra/memory"
)

func TestQuizCacheReadThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := &countingStore{inner: memory.NewQuizStore()}
	_ = inner.inner.Put(context.Background(), "k1", sampleRecord())
	cache := NewQuizCache(newClient(mr), inner, time.Minute)

	got, err := cache.Get(context.Background(), "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Go Basics" || len(got.MCQs) != 1 {
		t.Fatalf("unexpected record %+v", got)
	}
	if inner.gets != 1 {
		t.Fatalf("expected one store read, got %d", inner.gets)
	}

	// Second read comes from Redis.
	if _, err := cache.Get(context.Background(), "k1"); err != nil {
		t.Fatalf("get 2: %v", err)
	}
	if inner.gets != 1 {
		t.Fatalf("expected cache hit, store reads=%d", inner.gets)
	}
}

func TestQuizCacheMissPassesThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewQuizCache(newClient(mr), memory.NewQuizStore(), time.Minute)
	if _, err := cache.Get(context.Background(), "missing"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizCachePutWritesThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := &countingStore{inner: memory.NewQuizStore()}
	cache := NewQuizCache(newClient(mr), inner, time.Minute)

	if err := cache.Put(context.Background(), "k1", sampleRecord()); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Record is durable in the store, not just the cache.
	if _, err := inner.inner.Get(context.Background(), "k1"); err != nil {
		t.Fatalf("store missing record: %v", err)
	}
	// And the read is served without touching the store.
	if _, err := cache.Get(context.Background(), "k1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if inner.gets != 0 {
		t.Fatalf("expected cached read, store reads=%d", inner.gets)
	}
}

func TestQuizCacheExpiryFallsBack(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := &countingStore{inner: memory.NewQuizStore()}
	cache := NewQuizCache(newClient(mr), inner, time.Minute)

	if err := cache.Put(context.Background(), "k1", sampleRecord()); err != nil {
		t.Fatalf("put: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := cache.Get(context.Background(), "k1"); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if inner.gets != 1 {
		t.Fatalf("expected store fallback after expiry, reads=%d", inner.gets)
	}
}

type countingStore struct {
	inner *memory.QuizStore
	gets  int
}

func (s *countingStore) Get(ctx context.Context, key string) (domain.QuizRecord, error) {
	s.gets++
	return s.inner.Get(ctx, key)
}

func (s *countingStore) Put(ctx context.Context, key string, record domain.QuizRecord) error {
	return s.inner.Put(ctx, key, record)
}

func sampleRecord() domain.QuizRecord {
	return domain.QuizRecord{
		Key:   "yt:video:dQw4w9WgXcQ",
		Title: "Go Basics",
		MCQs: []domain.MCQ{
			{Question: "Q", Options: []string{"A", "B", "C", "D"}, Answer: "B"},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
