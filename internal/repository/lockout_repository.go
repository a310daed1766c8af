package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

const lockoutKeyPrefix = "lockout:"

// LockoutRepository tracks failed login attempts per client IP in Redis. Keys
// hold the hashed IP so raw addresses never sit in the store; entries expire
// with the counting window so abandoned counters clean themselves up.
type LockoutRepository struct {
	client *redis.Client
	window time.Duration
}

// NewLockoutRepository constructs the lockout store.
func NewLockoutRepository(client *redis.Client, window time.Duration) *LockoutRepository {
	return &LockoutRepository{client: client, window: window}
}

func lockoutKey(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return lockoutKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the record for an IP. A missing key yields the zero record.
func (r *LockoutRepository) Get(ctx context.Context, ip string) (models.LockoutRecord, error) {
	raw, err := r.client.Get(ctx, lockoutKey(ip)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.LockoutRecord{}, nil
		}
		return models.LockoutRecord{}, fmt.Errorf("load lockout record: %w", err)
	}
	var record models.LockoutRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return models.LockoutRecord{}, fmt.Errorf("unmarshal lockout record: %w", err)
	}
	return record, nil
}

// Put stores the record with the remainder of its window as TTL.
func (r *LockoutRepository) Put(ctx context.Context, ip string, record models.LockoutRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal lockout record: %w", err)
	}
	ttl := r.window
	if !record.FirstAttempt.IsZero() {
		if left := record.FirstAttempt.Add(r.window).Sub(time.Now().UTC()); left > 0 {
			ttl = left
		}
	}
	if err := r.client.Set(ctx, lockoutKey(ip), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store lockout record: %w", err)
	}
	return nil
}

// Reset clears the record for an IP.
func (r *LockoutRepository) Reset(ctx context.Context, ip string) error {
	if err := r.client.Del(ctx, lockoutKey(ip)).Err(); err != nil {
		return fmt.Errorf("reset lockout record: %w", err)
	}
	return nil
}
