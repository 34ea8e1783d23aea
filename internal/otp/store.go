package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/cache"
)

const (
	codeNamespace    = "otp"
	failureNamespace = "otp_fail"

	DefaultMaxAttempts = 5
)

// consumeScript deletes the code only if it still holds the value the
// caller checked, so two requests cannot spend the same code.
var consumeScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	redis.call('DEL', KEYS[1])
	return 1
end
return 0
`)

// Store issues random codes into redis and consumes them on a successful
// verification. A code is discarded after maxAttempts wrong guesses.
type Store struct {
	cache       *cache.Cache
	limiter     *Limiter
	ttl         time.Duration
	maxAttempts int
	logger      *zap.Logger
}

func NewStore(c *cache.Cache, limiter *Limiter, ttl time.Duration, maxAttempts int, logger *zap.Logger) *Store {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Store{cache: c, limiter: limiter, ttl: ttl, maxAttempts: maxAttempts, logger: logger}
}

func (s *Store) Issue(ctx context.Context, userID, purpose string) (Code, error) {
	if s.limiter != nil {
		if err := s.limiter.CanRequest(ctx, userID, purpose); err != nil {
			return Code{}, err
		}
	}

	code, err := randomCode(6)
	if err != nil {
		return Code{}, err
	}
	k := key(userID, purpose)
	if err := s.cache.Set(ctx, codeNamespace, k, code, s.ttl); err != nil {
		return Code{}, fmt.Errorf("store otp: %w", err)
	}
	if err := s.cache.Delete(ctx, failureNamespace, k); err != nil {
		s.logger.Warn("failed to reset otp failures", zap.String("user_id", userID), zap.Error(err))
	}
	s.logger.Info("otp issued",
		zap.String("user_id", userID),
		zap.String("purpose", purpose),
		zap.Duration("expires_in", s.ttl))

	return Code{Value: code, ExpiresIn: s.ttl}, nil
}

// Verify checks the code and spends it.
func (s *Store) Verify(ctx context.Context, userID, purpose, code string) (bool, error) {
	ok, err := s.Check(ctx, userID, purpose, code)
	if err != nil || !ok {
		return false, err
	}
	return s.Consume(ctx, userID, purpose, code)
}

// Check compares code with the issued one without spending it. Wrong
// guesses are counted; the last allowed one discards the code.
func (s *Store) Check(ctx context.Context, userID, purpose, code string) (bool, error) {
	k := key(userID, purpose)

	val, err := s.cache.Get(ctx, codeNamespace, k)
	if errors.Is(err, redis.Nil) {
		s.logger.Debug("otp not found or expired", zap.String("user_id", userID), zap.String("purpose", purpose))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(val), []byte(code)) != 1 {
		s.logger.Info("otp mismatch", zap.String("user_id", userID), zap.String("purpose", purpose))
		return false, s.recordFailure(ctx, userID, purpose)
	}
	return true, nil
}

// Consume spends a code previously accepted by Check. It reports false when
// the code was already spent or discarded in between.
func (s *Store) Consume(ctx context.Context, userID, purpose, code string) (bool, error) {
	k := key(userID, purpose)

	n, err := consumeScript.Run(ctx, s.cache.Client(), []string{s.cache.Key(codeNamespace, k)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	if n == 0 {
		s.logger.Info("otp already used", zap.String("user_id", userID), zap.String("purpose", purpose))
		return false, nil
	}
	if err := s.cache.Delete(ctx, failureNamespace, k); err != nil {
		s.logger.Warn("failed to reset otp failures", zap.String("user_id", userID), zap.Error(err))
	}
	return true, nil
}

func (s *Store) recordFailure(ctx context.Context, userID, purpose string) error {
	k := key(userID, purpose)

	n, err := s.cache.IncrWithExpire(ctx, failureNamespace, k, s.ttl)
	if err != nil {
		return fmt.Errorf("count otp failure: %w", err)
	}
	if n < int64(s.maxAttempts) {
		return nil
	}

	s.logger.Warn("otp discarded after repeated failures",
		zap.String("user_id", userID),
		zap.String("purpose", purpose),
		zap.Int64("attempts", n))
	if err := s.cache.Delete(ctx, codeNamespace, k); err != nil {
		return fmt.Errorf("discard otp: %w", err)
	}
	return s.cache.Delete(ctx, failureNamespace, k)
}

func key(userID, purpose string) string {
	return userID + ":" + purpose
}

func randomCode(digits int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
