package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"platter/config"
	"platter/internal/delivery/http/middleware"
	"platter/internal/delivery/http/router"
	"platter/internal/delivery/http/session"
	"platter/internal/domain/entity"
	domainerrors "platter/internal/domain/errors"
	"platter/internal/domain/repository"
	"platter/internal/infra/auth"
	"platter/internal/infra/persistence/memory"
	"platter/internal/infra/validator"
	"platter/internal/usecase"
	"platter/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	echo *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	return newTestServerWithRepos(t,
		memory.NewActorRepository(entity.ActorKindUser),
		memory.NewActorRepository(entity.ActorKindPartner),
	)
}

func newTestServerWithRepos(t *testing.T, users, partners repository.ActorRepository) *testServer {
	t.Helper()

	cfg := &config.Config{
		JWT:    &config.JWTConfig{Secret: "test-secret", TTL: 24 * time.Hour},
		Cookie: &config.CookieConfig{Name: "token", Path: "/"},
	}
	cfg.HTTP.MaxRequestBodySize = "100KB"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	v := validator.New()
	shared := impl.AuthServiceParams{
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokens,
		Validator:    v,
		Logger:       logger,
	}

	userAuth := impl.NewAuthService(usecase.ActorVariant{
		Kind: entity.ActorKindUser, Label: "User", DisplayField: "fullName", Repo: users,
	}, shared)
	partnerAuth := impl.NewAuthService(usecase.ActorVariant{
		Kind: entity.ActorKindPartner, Label: "Food partner", DisplayField: "name", Repo: partners,
	}, shared)

	e := NewEcho(cfg, logger, v, router.RouterParams{
		UserAuth:       userAuth,
		PartnerAuth:    partnerAuth,
		Carrier:        session.NewCarrier(cfg),
		AuthMiddleware: middleware.NewAuthMiddleware(cfg),
	})

	return &testServer{echo: e}
}

func (s *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}

	return rec, decoded
}

func tokenCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	require.Fail(t, "token cookie not set")

	return nil
}

func errorCode(body map[string]any) string {
	errInfo, _ := body["error"].(map[string]any)
	code, _ := errInfo["code"].(string)

	return code
}

func errorDetails(body map[string]any) (any, bool) {
	errInfo, _ := body["error"].(map[string]any)
	details, ok := errInfo["details"]

	return details, ok
}

func TestAuthFlow_RegisterLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodPost, "/auth/register", `{"fullName":"A","email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully", body["message"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "A", user["fullName"])
	assert.NotEmpty(t, user["id"])
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotEmpty(t, tokenCookie(t, rec).Value)

	rec, body = srv.do(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User logged in successfully", body["message"])
	assert.NotEmpty(t, tokenCookie(t, rec).Value)

	rec, body = srv.do(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(body))
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestAuthFlow_DuplicateEmailPerVariant(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodPost, "/auth/register", `{"fullName":"A","email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := srv.do(t, http.MethodPost, "/auth/register", `{"fullName":"B","email":"A@x.com","password":"pw456"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ALREADY_REGISTERED", errorCode(body))
	assert.Equal(t, "User already registered", body["message"])

	// The same email is free in the partner store.
	rec, body = srv.do(t, http.MethodPost, "/auth/partner/register", `{"name":"Tasty","email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	partner, ok := body["partner"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Tasty", partner["name"])
	assert.Equal(t, "Food partner registered successfully", body["message"])

	rec, body = srv.do(t, http.MethodPost, "/auth/partner/register", `{"name":"Tasty","email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Food partner already registered", body["message"])
}

func TestAuthFlow_ValidationAndMalformedInput(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		path        string
		body        string
		wantCode    string
		wantDetails string
	}{
		{name: "register missing password", path: "/auth/register", body: `{"fullName":"A","email":"a@x.com"}`, wantCode: "VALIDATION_ERROR", wantDetails: "missing: password"},
		{name: "register missing fullName", path: "/auth/register", body: `{"email":"a@x.com","password":"pw"}`, wantCode: "VALIDATION_ERROR", wantDetails: "missing: fullName"},
		{name: "partner register uses name not fullName", path: "/auth/partner/register", body: `{"fullName":"A","email":"a@x.com","password":"pw"}`, wantCode: "VALIDATION_ERROR", wantDetails: "missing: name"},
		{name: "login missing email", path: "/auth/login", body: `{"password":"pw"}`, wantCode: "VALIDATION_ERROR", wantDetails: "missing: email"},
		{name: "malformed json", path: "/auth/register", body: `{"fullName":`, wantCode: "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := srv.do(t, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(body))
			assert.Equal(t, false, body["success"])
			if tt.wantDetails != "" {
				details, _ := errorDetails(body)
				assert.Equal(t, tt.wantDetails, details)
			}
		})
	}
}

func TestAuthFlow_LoginUnknownEmail(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodPost, "/auth/partner/login", `{"email":"nobody@x.com","password":"pw"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NOT_REGISTERED", errorCode(body))
	assert.Equal(t, "Food partner not registered", body["message"])
}

func TestAuthFlow_LogoutAlwaysSucceeds(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/auth/logout", "/auth/partner/logout"} {
		rec, body := srv.do(t, http.MethodPost, path, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		cookie := tokenCookie(t, rec)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestAuthFlow_Me(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodPost, "/auth/register", `{"fullName":"A","email":"a@x.com","password":"pw123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	cookie := tokenCookie(t, rec)

	rec, body := srv.do(t, http.MethodGet, "/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", user["email"])

	rec, body = srv.do(t, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	// A user token is not a partner session.
	rec, _ = srv.do(t, http.MethodGet, "/auth/partner/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+cookie.Value)
	bearer := httptest.NewRecorder()
	srv.echo.ServeHTTP(bearer, req)
	assert.Equal(t, http.StatusOK, bearer.Code)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Service is healthy", body["message"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

// failingRepository simulates a store whose driver errors carry connection details.
type failingRepository struct {
	err error
}

func (r failingRepository) FindByEmail(context.Context, string) (*entity.Actor, error) {
	return nil, r.err
}

func (r failingRepository) FindByID(context.Context, uuid.UUID) (*entity.Actor, error) {
	return nil, r.err
}

func (r failingRepository) Create(context.Context, *entity.Actor) error {
	return r.err
}

func TestAuthFlow_StoreFailureAnswers500(t *testing.T) {
	driverErr := errors.New("dial tcp secret-host:5432: connection refused")

	tests := []struct {
		name     string
		repoErr  error
		path     string
		body     string
		wantCode string
	}{
		{
			name:     "database error on register",
			repoErr:  domainerrors.NewDatabaseExecuteError(driverErr, "lookup on secret-host failed"),
			path:     "/auth/register",
			body:     `{"fullName":"A","email":"a@x.com","password":"pw123"}`,
			wantCode: "DATABASE_EXECUTE_FAILED",
		},
		{
			name:     "database error on partner login",
			repoErr:  domainerrors.NewDatabaseExecuteError(driverErr, "lookup on secret-host failed"),
			path:     "/auth/partner/login",
			body:     `{"email":"a@x.com","password":"pw123"}`,
			wantCode: "DATABASE_EXECUTE_FAILED",
		},
		{
			name:     "untyped store error",
			repoErr:  driverErr,
			path:     "/auth/login",
			body:     `{"email":"a@x.com","password":"pw123"}`,
			wantCode: "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broken := failingRepository{err: tt.repoErr}
			srv := newTestServerWithRepos(t, broken, broken)

			rec, body := srv.do(t, http.MethodPost, tt.path, tt.body)

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Internal server error", body["message"])
			assert.Equal(t, tt.wantCode, errorCode(body))
			_, hasDetails := errorDetails(body)
			assert.False(t, hasDetails)
			assert.NotContains(t, rec.Body.String(), "secret-host")
			assert.NotContains(t, rec.Body.String(), "pw123")
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestUnhandledHandlerErrorAnswers500(t *testing.T) {
	srv := newTestServer(t)
	srv.echo.GET("/explode", func(echo.Context) error {
		return errors.New("pq: password authentication failed for user secret-host")
	})

	rec, body := srv.do(t, http.MethodGet, "/explode", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "INTERNAL_ERROR", errorCode(body))
	_, hasDetails := errorDetails(body)
	assert.False(t, hasDetails)
	assert.NotContains(t, rec.Body.String(), "secret-host")
}
