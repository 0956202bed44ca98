package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/codewithus/ledgerbridge/cache"
	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/security"
	"github.com/codewithus/ledgerbridge/services"
	ledgertesting "github.com/codewithus/ledgerbridge/testing"
)

func newAuthRouter(t *testing.T, users ...*models.User) *mux.Router {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	captcha := security.CreateCaptchaStore(cache.CreateRedisCacheFromClient(client, time.Minute), time.Minute)
	jwt := security.CreateJWTManager("test-secret", "ledgerbridge", "ledgerbridge-clients")
	svc := services.CreateAuthService(ledgertesting.NewInMemoryUserStore(users...), captcha, jwt, time.Hour, zap.NewNop())
	handler := CreateAuthHandler(svc)

	router := mux.NewRouter()
	router.HandleFunc("/auth/captcha", handler.HandleCaptcha).Methods(http.MethodGet)
	router.HandleFunc("/auth/login", handler.HandleLogin).Methods(http.MethodPost)
	return router
}

func fetchCaptcha(t *testing.T, router *mux.Router) models.CaptchaResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/auth/captcha", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("captcha status = %d, want %d", w.Code, http.StatusOK)
	}
	var captcha models.CaptchaResponse
	if err := json.NewDecoder(w.Body).Decode(&captcha); err != nil {
		t.Fatalf("decode captcha: %v", err)
	}
	return captcha
}

func TestAuthHandler_LoginFlow(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "financier@apex.example",
		PasswordHash: string(hash),
		Name:         "Apex Capital",
		Role:         models.RoleFinancier,
	}
	router := newAuthRouter(t, user)

	captcha := fetchCaptcha(t, router)
	body, _ := json.Marshal(models.LoginRequest{
		Email:         user.Email,
		Password:      "s3cret-pass",
		CaptchaID:     captcha.CaptchaID,
		CaptchaAnswer: captcha.Challenge,
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp models.LoginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" || resp.Role != models.RoleFinancier {
		t.Errorf("unexpected login response: %+v", resp)
	}
}

func TestAuthHandler_WrongCaptchaRotatesChallenge(t *testing.T) {
	router := newAuthRouter(t)

	captcha := fetchCaptcha(t, router)
	body, _ := json.Marshal(models.LoginRequest{
		Email:         "someone@example.com",
		Password:      "irrelevant",
		CaptchaID:     captcha.CaptchaID,
		CaptchaAnswer: "zzzzzz",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("login status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp struct {
		Error   string                  `json:"error"`
		Captcha *models.CaptchaResponse `json:"captcha"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Captcha == nil || resp.Captcha.CaptchaID == captcha.CaptchaID {
		t.Error("expected a fresh captcha after a failed verification")
	}
}

func TestAuthHandler_WrongPasswordIsUnauthorized(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "financier@apex.example",
		PasswordHash: string(hash),
		Name:         "Apex Capital",
		Role:         models.RoleFinancier,
	}
	router := newAuthRouter(t, user)

	captcha := fetchCaptcha(t, router)
	body, _ := json.Marshal(models.LoginRequest{
		Email:         user.Email,
		Password:      "wrong",
		CaptchaID:     captcha.CaptchaID,
		CaptchaAnswer: captcha.Challenge,
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("login status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
