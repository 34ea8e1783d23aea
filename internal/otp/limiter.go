package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/cache"
)

const rateNamespace = "otp_rate"

// Limiter throttles code requests: a cooldown between two requests, a cap per
// window, and a block of three windows once the cap is passed.
type Limiter struct {
	cache       *cache.Cache
	window      time.Duration
	maxInWindow int
	cooldown    time.Duration
}

func NewLimiter(c *cache.Cache, window time.Duration, max int, cooldown time.Duration) *Limiter {
	return &Limiter{cache: c, window: window, maxInWindow: max, cooldown: cooldown}
}

func (l *Limiter) CanRequest(ctx context.Context, userID, purpose string) error {
	blockKey := fmt.Sprintf("block:%s:%s", userID, purpose)
	lastKey := fmt.Sprintf("last:%s:%s", userID, purpose)
	countKey := fmt.Sprintf("count:%s:%s", userID, purpose)

	if ttl, _ := l.cache.GetTTL(ctx, rateNamespace, blockKey); ttl > 0 {
		return domain.NewProblem(domain.ErrOTPRateLimited,
			"Trop de demandes de code. Réessayez dans %d secondes.", int(ttl.Seconds()))
	}

	if ttl, _ := l.cache.GetTTL(ctx, rateNamespace, lastKey); ttl > 0 {
		return domain.NewProblem(domain.ErrOTPRateLimited,
			"Veuillez patienter %d secondes avant de demander un nouveau code.", int(ttl.Seconds()))
	}

	cnt, err := l.cache.IncrWithExpire(ctx, rateNamespace, countKey, l.window)
	if err != nil {
		return fmt.Errorf("count otp requests: %w", err)
	}

	if int(cnt) > l.maxInWindow {
		block := l.window * 3
		_ = l.cache.Set(ctx, rateNamespace, blockKey, "1", block)
		return domain.NewProblem(domain.ErrOTPRateLimited,
			"Trop de demandes de code. Réessayez dans %d secondes.", int(block.Seconds()))
	}

	_ = l.cache.Set(ctx, rateNamespace, lastKey, "1", l.cooldown)
	return nil
}
