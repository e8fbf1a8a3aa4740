package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/core/apperror"
	appctx "procura/internal/core/context"
	"procura/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator map[string]*appctx.UserContext

func (s stubValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("bad token")
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), Trace(), Logger(logger.Nop()), ErrorHandler(), Locale())
	r.GET("/t", handlers...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandler_AppError(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("item", "x"))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeNotFound)
}

func TestErrorHandler_UnknownErrorIsHidden(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(errors.New("connection refused on 10.0.0.3"))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestRecovery(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		panic("boom")
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTrace_EchoesRequestID(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w := serve(r, req)

	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "req-1", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))
}

func TestLocale(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		c.String(http.StatusOK, string(appctx.GetLocale(c.Request.Context())))
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	assert.Equal(t, "en", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/t", nil)
	assert.Equal(t, "ar", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("Accept-Language", "en")
	req.Header.Set(HeaderLocale, "ar")
	assert.Equal(t, "ar", serve(r, req).Body.String())
}

func TestAuth(t *testing.T) {
	validator := stubValidator{
		"admin-token": {UserID: "u-1", Roles: []string{"admin"}},
		"buyer-token": {UserID: "u-2", Roles: []string{"buyer"}},
	}
	ok := func(c *gin.Context) { c.String(http.StatusOK, appctx.GetUserID(c.Request.Context())) }
	r := newEngine(Auth(validator), RequireRole("admin"), ok)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer buyer-token", http.StatusForbidden},
		{"admin", "bearer admin-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/t", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			require.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusOK {
				assert.Equal(t, "u-1", w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	validator := stubValidator{"good": {UserID: "u-3"}}
	r := newEngine(OptionalAuth(validator), func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetUserID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("Authorization", "Bearer good")
	assert.Equal(t, "u-3", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
