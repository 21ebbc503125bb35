package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"farmpos/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Snapshot wrappers are objects rather than bare arrays so new fields can
// be added without breaking snapshots already in the store.
type cartSnapshot struct {
	Lines []domain.LineItem `json:"lines"`
}

type viewedSnapshot struct {
	Products []domain.Product `json:"products"`
}

type redisStore struct {
	client    *redis.Client
	namespace string
	logger    *log.Logger
}

func NewRedis(client *redis.Client, namespace string, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &redisStore{client: client, namespace: namespace, logger: logger}
}

func (s *redisStore) LoadCart(ctx context.Context, terminalID string) ([]domain.LineItem, error) {
	var snap cartSnapshot
	if err := s.load(ctx, s.cartKey(terminalID), &snap); err != nil {
		return nil, err
	}
	return snap.Lines, nil
}

func (s *redisStore) SaveCart(ctx context.Context, terminalID string, lines []domain.LineItem) error {
	return s.save(ctx, s.cartKey(terminalID), cartSnapshot{Lines: lines})
}

func (s *redisStore) LoadViewed(ctx context.Context, terminalID string) ([]domain.Product, error) {
	var snap viewedSnapshot
	if err := s.load(ctx, s.viewedKey(terminalID), &snap); err != nil {
		return nil, err
	}
	return snap.Products, nil
}

func (s *redisStore) SaveViewed(ctx context.Context, terminalID string, products []domain.Product) error {
	return s.save(ctx, s.viewedKey(terminalID), viewedSnapshot{Products: products})
}

func (s *redisStore) cartKey(terminalID string) string {
	return fmt.Sprintf("%s:cart:%s", s.namespace, terminalID)
}

func (s *redisStore) viewedKey(terminalID string) string {
	return fmt.Sprintf("%s:viewed:%s", s.namespace, terminalID)
}

func (s *redisStore) load(ctx context.Context, key string, out interface{}) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		s.logger.Printf("cartstore: load key=%s error=%v", key, err)
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// A malformed snapshot must not brick the terminal; start
		// fresh rather than failing every operation.
		s.logger.Printf("cartstore: discard malformed snapshot key=%s error=%v", key, err)
	}
	return nil
}

func (s *redisStore) save(ctx context.Context, key string, snap interface{}) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		s.logger.Printf("cartstore: save key=%s error=%v", key, err)
		return err
	}
	return nil
}
