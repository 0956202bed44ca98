package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/security"
	"github.com/codewithus/ledgerbridge/stores"
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// response does not leak which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrCaptchaMismatch means the captcha answer was wrong or the challenge
// expired. The challenge is consumed either way; the client must fetch a
// fresh one.
var ErrCaptchaMismatch = errors.New("captcha verification failed")

type AuthService struct {
	users    stores.UserStore
	captcha  *security.CaptchaStore
	jwt      *security.JWTManager
	tokenTTL time.Duration
	log      *zap.Logger
}

func CreateAuthService(users stores.UserStore, captcha *security.CaptchaStore, jwt *security.JWTManager, tokenTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		captcha:  captcha,
		jwt:      jwt,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (s *AuthService) IssueCaptcha(ctx context.Context) (*models.CaptchaResponse, error) {
	id, challenge, err := s.captcha.Issue(ctx)
	if err != nil {
		return nil, ledger.NewRemoteError("issue captcha", err)
	}
	return &models.CaptchaResponse{CaptchaID: id, Challenge: challenge}, nil
}

// Login verifies the captcha before touching credentials, then checks the
// password and mints a token. The captcha gates the attempt only; it never
// substitutes for the password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Email == "" {
		return nil, ledger.NewValidationError("email", "email is required")
	}
	if req.Password == "" {
		return nil, ledger.NewValidationError("password", "password is required")
	}
	if req.CaptchaID == "" || req.CaptchaAnswer == "" {
		return nil, ledger.NewValidationError("captcha", "captcha id and answer are required")
	}

	ok, err := s.captcha.Verify(ctx, req.CaptchaID, req.CaptchaAnswer)
	if err != nil {
		return nil, ledger.NewRemoteError("verify captcha", err)
	}
	if !ok {
		return nil, ErrCaptchaMismatch
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, ledger.NewRemoteError("get user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Role, s.tokenTTL)
	if err != nil {
		return nil, ledger.NewRemoteError("generate token", err)
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return &models.LoginResponse{
		Token: token,
		Role:  user.Role,
		Name:  user.Name,
	}, nil
}
