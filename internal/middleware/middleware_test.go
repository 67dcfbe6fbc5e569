package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crmneon/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testIssuer   = "crm-neon"
	testAudience = "crm-neon-api"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = common.NewHTTPErrorHandler(zap.NewNop())
	return e
}

// tenantEcho mounts a handler that echoes the tenant and user from context
func tenantEcho(t *testing.T, key *rsa.PrivateKey) *echo.Echo {
	t.Helper()
	e := newEcho()
	g := e.Group("/crm")
	g.Use(CORS(), Preflight(), JWTMiddleware(JWTConfig{
		Keyfunc:  func(*jwt.Token) (any, error) { return &key.PublicKey, nil },
		Issuer:   testIssuer,
		Audience: testAudience,
	}), TenantClaims())
	g.Any("/:entity", func(c echo.Context) error {
		tenantID, _ := common.GetTenantIDFromContext(c.Request().Context())
		userID, _ := common.GetUserIDFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]int64{"tenantId": tenantID, "userId": userID})
	})
	return e
}

func signToken(t *testing.T, key *rsa.PrivateKey, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	token.Header["kid"] = "default-key-1"
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":      "5",
		"userId":   5,
		"tenantId": 3,
		"iss":      testIssuer,
		"aud":      testAudience,
		"iat":      now.Unix(),
		"exp":      now.Add(time.Hour).Unix(),
	}
}

func doRequest(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	e := tenantEcho(t, key)

	t.Run("valid token sets tenant and user", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/crm/contacts", signToken(t, key, jwt.SigningMethodRS256, validClaims()))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]int64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int64(3), body["tenantId"])
		assert.Equal(t, int64(5), body["userId"])
		assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("numeric string tenant claim", func(t *testing.T) {
		claims := validClaims()
		claims["tenantId"] = "12"
		rec := doRequest(e, http.MethodGet, "/crm/contacts", signToken(t, key, jwt.SigningMethodRS256, claims))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"tenantId":12`)
	})

	cases := map[string]func(jwt.MapClaims){
		"missing tenant":    func(c jwt.MapClaims) { delete(c, "tenantId") },
		"zero tenant":       func(c jwt.MapClaims) { c["tenantId"] = 0 },
		"garbage tenant":    func(c jwt.MapClaims) { c["tenantId"] = "abc" },
		"fractional tenant": func(c jwt.MapClaims) { c["tenantId"] = 1.5 },
		"expired":           func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() },
		"no expiry":         func(c jwt.MapClaims) { delete(c, "exp") },
		"wrong issuer":      func(c jwt.MapClaims) { c["iss"] = "someone-else" },
		"wrong audience":    func(c jwt.MapClaims) { c["aud"] = "other-api" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			claims := validClaims()
			mutate(claims)
			rec := doRequest(e, http.MethodGet, "/crm/contacts", signToken(t, key, jwt.SigningMethodRS256, claims))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"success":false,"error":"Unauthorized"}`, rec.Body.String())
		})
	}

	t.Run("signed by another key", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/crm/contacts", signToken(t, other, jwt.SigningMethodRS256, validClaims()))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("HS256 rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)
		rec := doRequest(e, http.MethodGet, "/crm/contacts", signed)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/crm/contacts", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("preflight skips authentication", func(t *testing.T) {
		rec := doRequest(e, http.MethodOptions, "/crm/contacts", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"message":"OK","data":null}`, rec.Body.String())
		assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
		assert.Equal(t, "Content-Type, Authorization", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	})
}

func TestAPIKeyAuth(t *testing.T) {
	e := newEcho()
	e.POST("/admin/token", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, APIKeyAuth("s3cret"))

	for name, tc := range map[string]struct {
		header string
		want   int
	}{
		"match":    {"s3cret", http.StatusNoContent},
		"mismatch": {"s3cret2", http.StatusUnauthorized},
		"prefix":   {"s3c", http.StatusUnauthorized},
		"missing":  {"", http.StatusUnauthorized},
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/token", strings.NewReader("{}"))
			if tc.header != "" {
				req.Header.Set("x-api-key", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAPIKeyAuth_EmptyKeyRejectsEverything(t *testing.T) {
	e := newEcho()
	e.GET("/admin/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, APIKeyAuth(""))

	req := httptest.NewRequest(http.MethodGet, "/admin/x", nil)
	req.Header.Set("x-api-key", "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestRateLimit(t *testing.T) {
	limiter := new(mockLimiter)
	limiter.On("IsRateLimited", mock.Anything, "admin:192.0.2.1", 2, time.Minute).Return(false, nil).Once()
	limiter.On("IsRateLimited", mock.Anything, "admin:192.0.2.1", 2, time.Minute).Return(true, nil).Once()
	limiter.On("IsRateLimited", mock.Anything, "admin:192.0.2.1", 2, time.Minute).Return(false, errors.New("redis down")).Once()

	e := newEcho()
	e.GET("/admin/x", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RateLimit(limiter, "admin", 2, time.Minute))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/admin/x", nil)
		req.RemoteAddr = "192.0.2.1:4000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusNoContent}, codes)
	limiter.AssertExpectations(t)
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics("crm", reg)

	e := newEcho()
	e.Use(metrics.Middleware())
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return common.BadRequest("nope") })

	doRequest(e, http.MethodGet, "/health", "")
	doRequest(e, http.MethodGet, "/health", "")
	rec := doRequest(e, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, float64(2), counterValue(t, metrics.requests.WithLabelValues("crm", "GET", "/health", "200")))
	assert.Equal(t, float64(1), counterValue(t, metrics.requests.WithLabelValues("crm", "GET", "/boom", "400")))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	return pb.GetCounter().GetValue()
}

func TestRequestID(t *testing.T) {
	e := newEcho()
	e.Use(RequestID())
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := doRequest(e, http.MethodGet, "/health", "")
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderXRequestID, "client-id")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "client-id", rec.Header().Get(echo.HeaderXRequestID))
}
