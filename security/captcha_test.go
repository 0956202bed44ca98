package security

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithus/ledgerbridge/cache"
)

func newTestCaptchaStore(t *testing.T) (*CaptchaStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return CreateCaptchaStore(cache.CreateRedisCacheFromClient(client, time.Minute), time.Minute), mr
}

func TestGenerateChallenge(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		challenge, err := GenerateChallenge()
		require.NoError(t, err)
		assert.Len(t, challenge, CaptchaLength)
		for _, r := range challenge {
			assert.True(t, strings.ContainsRune(CaptchaAlphabet, r),
				"character %q outside alphabet", r)
		}
		seen[challenge] = true
	}
	assert.Greater(t, len(seen), 45, "challenges should be close to unique")
}

func TestCaptchaStore_IssueAndVerify(t *testing.T) {
	store, _ := newTestCaptchaStore(t)
	ctx := context.Background()

	id, challenge, err := store.Issue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Len(t, challenge, CaptchaLength)

	ok, err := store.Verify(ctx, id, challenge)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCaptchaStore_VerifyIsCaseSensitive(t *testing.T) {
	store, _ := newTestCaptchaStore(t)
	ctx := context.Background()

	id, challenge, err := store.Issue(ctx)
	require.NoError(t, err)

	flipped := strings.ToLower(challenge)
	if flipped == challenge {
		flipped = strings.ToUpper(challenge)
	}
	if flipped == challenge {
		t.Skip("challenge has no letters to flip")
	}

	ok, err := store.Verify(ctx, id, flipped)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCaptchaStore_SingleUse(t *testing.T) {
	store, _ := newTestCaptchaStore(t)
	ctx := context.Background()

	id, challenge, err := store.Issue(ctx)
	require.NoError(t, err)

	// First attempt wrong: the challenge is consumed.
	ok, err := store.Verify(ctx, id, "zzzzzz")
	require.NoError(t, err)
	assert.False(t, ok)

	// The right answer no longer works.
	ok, err = store.Verify(ctx, id, challenge)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCaptchaStore_CorrectAnswerConsumes(t *testing.T) {
	store, _ := newTestCaptchaStore(t)
	ctx := context.Background()

	id, challenge, err := store.Issue(ctx)
	require.NoError(t, err)

	ok, err := store.Verify(ctx, id, challenge)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Verify(ctx, id, challenge)
	require.NoError(t, err)
	assert.False(t, ok, "a verified challenge cannot be replayed")
}

func TestCaptchaStore_Expiry(t *testing.T) {
	store, mr := newTestCaptchaStore(t)
	ctx := context.Background()

	id, challenge, err := store.Issue(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	ok, err := store.Verify(ctx, id, challenge)
	require.NoError(t, err)
	assert.False(t, ok, "expired challenge must not verify")
}

func TestCaptchaStore_UnknownID(t *testing.T) {
	store, _ := newTestCaptchaStore(t)

	ok, err := store.Verify(context.Background(), "no-such-id", "answer")
	require.NoError(t, err)
	assert.False(t, ok)
}
