package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"estate-booking/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DraftStore holds pay-now drafts while the gateway session is open. Entries
// expire on their own, so an abandoned checkout that never fires a cancel
// callback still resolves instead of lingering forever.
type DraftStore interface {
	Put(ctx context.Context, pending *entity.PendingDraft, ttl time.Duration) error
	// Claim atomically fetches and removes the draft, so concurrent callbacks
	// for the same gateway order resolve it at most once.
	Claim(ctx context.Context, gatewayOrderID string) (*entity.PendingDraft, error)
}

type redisDraftStore struct {
	client *redis.Client
	log    *zap.Logger
}

func NewDraftStore(client *redis.Client, log *zap.Logger) DraftStore {
	return &redisDraftStore{
		client: client,
		log:    log.With(zap.String("cache", "draft_store")),
	}
}

func (s *redisDraftStore) Put(ctx context.Context, pending *entity.PendingDraft, ttl time.Duration) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshal pending draft: %w", err)
	}

	if err := s.client.Set(ctx, draftKey(pending.GatewayOrderID), data, ttl).Err(); err != nil {
		s.log.Error("Failed to store pending draft",
			zap.Error(err),
			zap.String("gateway_order_id", pending.GatewayOrderID),
		)
		return fmt.Errorf("store pending draft %s: %w", pending.GatewayOrderID, err)
	}

	return nil
}

func (s *redisDraftStore) Claim(ctx context.Context, gatewayOrderID string) (*entity.PendingDraft, error) {
	data, err := s.client.GetDel(ctx, draftKey(gatewayOrderID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to claim pending draft",
			zap.Error(err),
			zap.String("gateway_order_id", gatewayOrderID),
		)
		return nil, fmt.Errorf("claim pending draft %s: %w", gatewayOrderID, err)
	}

	return unmarshalDraft(data)
}

func unmarshalDraft(data []byte) (*entity.PendingDraft, error) {
	var pending entity.PendingDraft
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("unmarshal pending draft: %w", err)
	}
	return &pending, nil
}

func draftKey(gatewayOrderID string) string {
	return "pending_draft:" + gatewayOrderID
}
