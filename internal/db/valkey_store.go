package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/swotflow/internal/clients"
	"github.com/spacesedan/swotflow/internal/models"
)

const VALKEY_LATEST_PREFIX = "swotflow:latest:"

// KeyValue is the subset of *clients.ValkeyClient the cache needs. Get must
// return clients.ErrValkeyMiss for a missing key.
type KeyValue interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// ValkeyStore caches the latest analysis per product.
type ValkeyStore struct {
	kv  KeyValue
	ttl time.Duration
}

func NewValkeyStore(kv KeyValue, ttl time.Duration) *ValkeyStore {
	return &ValkeyStore{kv: kv, ttl: ttl}
}

func (v *ValkeyStore) Name() string { return "valkey" }

func LatestKey(productName string) string {
	return VALKEY_LATEST_PREFIX + productName
}

func (v *ValkeyStore) Save(ctx context.Context, record *models.AnalysisRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("[ValkeyStore] failed to encode analysis: %w", err)
	}
	if err := v.kv.Set(ctx, LatestKey(record.Product), payload, v.ttl); err != nil {
		return fmt.Errorf("[ValkeyStore] failed to cache analysis for %q: %w", record.Product, err)
	}

	slog.Debug("[ValkeyStore] Latest analysis cached",
		slog.String("product", record.Product),
		slog.Duration("ttl", v.ttl))
	return nil
}

func (v *ValkeyStore) Latest(ctx context.Context, productName string) (*models.AnalysisRecord, error) {
	payload, err := v.kv.Get(ctx, LatestKey(productName))
	if errors.Is(err, clients.ErrValkeyMiss) {
		return nil, notFound(productName)
	}
	if err != nil {
		return nil, fmt.Errorf("[ValkeyStore] lookup for %q failed: %w", productName, err)
	}

	var record models.AnalysisRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("[ValkeyStore] corrupt entry for %q: %w", productName, err)
	}
	return &record, nil
}
