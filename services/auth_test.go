package services

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/codewithus/ledgerbridge/cache"
	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/security"
	ledgertesting "github.com/codewithus/ledgerbridge/testing"
)

func newAuthService(t *testing.T, users ...*models.User) (*AuthService, *security.CaptchaStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	captcha := security.CreateCaptchaStore(cache.CreateRedisCacheFromClient(client, time.Minute), time.Minute)
	jwt := security.CreateJWTManager("test-secret", "ledgerbridge", "ledgerbridge-clients")
	return CreateAuthService(ledgertesting.NewInMemoryUserStore(users...), captcha, jwt, time.Hour, zap.NewNop()), captcha
}

func testUser(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test Financier",
		Role:         role,
	}
}

func solveCaptcha(t *testing.T, svc *AuthService) (id, answer string) {
	t.Helper()
	captcha, err := svc.IssueCaptcha(ledgertesting.MockContext())
	require.NoError(t, err)
	return captcha.CaptchaID, captcha.Challenge
}

func TestAuthService_Login(t *testing.T) {
	user := testUser(t, "financier@apex.example", "s3cret-pass", models.RoleFinancier)
	svc, _ := newAuthService(t, user)

	id, answer := solveCaptcha(t, svc)
	resp, err := svc.Login(ledgertesting.MockContext(), models.LoginRequest{
		Email:         user.Email,
		Password:      "s3cret-pass",
		CaptchaID:     id,
		CaptchaAnswer: answer,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleFinancier, resp.Role)
	assert.Equal(t, "Test Financier", resp.Name)
}

func TestAuthService_LoginWrongCaptcha(t *testing.T) {
	user := testUser(t, "financier@apex.example", "s3cret-pass", models.RoleFinancier)
	svc, _ := newAuthService(t, user)

	id, _ := solveCaptcha(t, svc)
	_, err := svc.Login(ledgertesting.MockContext(), models.LoginRequest{
		Email:         user.Email,
		Password:      "s3cret-pass",
		CaptchaID:     id,
		CaptchaAnswer: "zzzzzz",
	})
	require.ErrorIs(t, err, ErrCaptchaMismatch)
}

func TestAuthService_CaptchaConsumedEvenOnGoodAnswerThenWrongPassword(t *testing.T) {
	user := testUser(t, "financier@apex.example", "s3cret-pass", models.RoleFinancier)
	svc, _ := newAuthService(t, user)

	id, answer := solveCaptcha(t, svc)
	_, err := svc.Login(ledgertesting.MockContext(), models.LoginRequest{
		Email:         user.Email,
		Password:      "wrong-pass",
		CaptchaID:     id,
		CaptchaAnswer: answer,
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Replaying the consumed captcha fails even with the right password.
	_, err = svc.Login(ledgertesting.MockContext(), models.LoginRequest{
		Email:         user.Email,
		Password:      "s3cret-pass",
		CaptchaID:     id,
		CaptchaAnswer: answer,
	})
	require.ErrorIs(t, err, ErrCaptchaMismatch)
}

func TestAuthService_LoginUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	id, answer := solveCaptcha(t, svc)
	_, err := svc.Login(ledgertesting.MockContext(), models.LoginRequest{
		Email:         "nobody@example.com",
		Password:      "whatever",
		CaptchaID:     id,
		CaptchaAnswer: answer,
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	tests := []struct {
		name string
		req  models.LoginRequest
	}{
		{"missing email", models.LoginRequest{Password: "x", CaptchaID: "id", CaptchaAnswer: "a"}},
		{"missing password", models.LoginRequest{Email: "a@b.c", CaptchaID: "id", CaptchaAnswer: "a"}},
		{"missing captcha", models.LoginRequest{Email: "a@b.c", Password: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ledgertesting.MockContext(), tt.req)
			var validation *ledger.ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}
}

func TestAuthService_IssueCaptcha(t *testing.T) {
	svc, _ := newAuthService(t)

	captcha, err := svc.IssueCaptcha(ledgertesting.MockContext())
	require.NoError(t, err)
	assert.NotEmpty(t, captcha.CaptchaID)
	assert.Len(t, captcha.Challenge, security.CaptchaLength)
}
