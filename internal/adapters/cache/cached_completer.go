package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
)

var _ domain.Completer = (*CachedCompleter)(nil)

// CachedCompleter remembers upstream completions in redis so that repeated
// goals do not cost another model call. Redis failures fall through to the
// wrapped completer.
type CachedCompleter struct {
	next   domain.Completer
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedCompleter(next domain.Completer, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedCompleter {
	return &CachedCompleter{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedCompleter) Name() string {
	return c.next.Name()
}

func (c *CachedCompleter) cacheKey(systemPrompt, userPrompt string) string {
	sum := sha256.Sum256([]byte(c.next.Name() + "\x00" + systemPrompt + "\x00" + userPrompt))
	return "suggestions:" + hex.EncodeToString(sum[:])
}

func (c *CachedCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	key := c.cacheKey(systemPrompt, userPrompt)

	val, err := c.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.logger.Debug("completion cache hit", zap.String("key", key))
		return val, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("completion cache read failed", zap.Error(err))
	}

	text, err := c.next.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	if setErr := c.cache.Set(ctx, key, text, c.ttl).Err(); setErr != nil {
		c.logger.Warn("completion cache write failed", zap.Error(setErr))
	}

	return text, nil
}
