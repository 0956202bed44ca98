package security

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/codewithus/ledgerbridge/cache"
)

// CaptchaAlphabet excludes visually ambiguous characters (0, O, 1, l, I).
const CaptchaAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

const CaptchaLength = 6

// GenerateChallenge draws a 6-character string uniformly from the captcha
// alphabet.
func GenerateChallenge() (string, error) {
	max := big.NewInt(int64(len(CaptchaAlphabet)))
	buf := make([]byte, CaptchaLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate captcha: %w", err)
		}
		buf[i] = CaptchaAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// CaptchaStore keeps issued challenges in redis under an opaque id so the
// answer never travels back to the client.
type CaptchaStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

func CreateCaptchaStore(c *cache.RedisCache, ttl time.Duration) *CaptchaStore {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &CaptchaStore{cache: c, ttl: ttl}
}

// Issue generates a challenge and stores it, returning its id and the text
// the client must echo back.
func (s *CaptchaStore) Issue(ctx context.Context) (id, challenge string, err error) {
	challenge, err = GenerateChallenge()
	if err != nil {
		return "", "", err
	}
	id = uuid.NewString()
	if err := s.cache.SetWithTTL(ctx, captchaKey(id), challenge, s.ttl); err != nil {
		return "", "", err
	}
	return id, challenge, nil
}

// Verify compares the answer against the stored challenge with exact,
// case-sensitive equality. The challenge is single-use: it is deleted
// whether or not the answer matches, so a failed attempt must fetch a
// fresh one.
func (s *CaptchaStore) Verify(ctx context.Context, id, answer string) (bool, error) {
	challenge, err := s.cache.Get(ctx, captchaKey(id))
	if cache.IsMiss(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := s.cache.Delete(ctx, captchaKey(id)); err != nil {
		return false, err
	}
	return answer == challenge, nil
}

func captchaKey(id string) string {
	return "captcha:" + id
}
