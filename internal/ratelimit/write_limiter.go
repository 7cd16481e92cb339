package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/flashbill/flashbill/internal/config"
)

const (
	keyWriteOrg       = "billing:write:org:%s"
	keySettlementLock = "billing:settle:lock:%s:%s"
	settlementLockTTL = 10 * time.Second
)

// WriteLimiter throttles mutating billing calls per org and guards an
// invoice against concurrent settlement submissions. Disabled unless
// Redis is configured; a disabled limiter allows everything.
type WriteLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	orgRate  float64
	orgBurst int
}

func NewWriteLimiter(cfg config.Config) (*WriteLimiter, error) {
	if !cfg.RateLimitEnabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if cfg.RateLimitOrgRate <= 0 || cfg.RateLimitOrgBurst <= 0 {
		return nil, errors.New("org rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &WriteLimiter{
		enabled:  true,
		bucket:   NewTokenBucket(client),
		locker:   NewLocker(client),
		orgRate:  cfg.RateLimitOrgRate,
		orgBurst: cfg.RateLimitOrgBurst,
	}, nil
}

func (l *WriteLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *WriteLimiter) AllowOrg(ctx context.Context, orgID string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyWriteOrg, strings.TrimSpace(orgID)), l.orgRate, l.orgBurst)
}

// TryLockSettlement claims the settlement slot for one invoice.
func (l *WriteLimiter) TryLockSettlement(ctx context.Context, orgID, invoiceID string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	key := fmt.Sprintf(keySettlementLock, strings.TrimSpace(orgID), strings.TrimSpace(invoiceID))
	return l.locker.TryLock(ctx, key, settlementLockTTL)
}

func (l *WriteLimiter) ReleaseSettlement(ctx context.Context, orgID, invoiceID, token string) error {
	if !l.Enabled() {
		return nil
	}
	key := fmt.Sprintf(keySettlementLock, strings.TrimSpace(orgID), strings.TrimSpace(invoiceID))
	return l.locker.Release(ctx, key, token)
}
