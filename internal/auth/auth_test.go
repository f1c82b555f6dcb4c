package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nzvirtual/api/internal/domain"
)

type stubJWT struct {
	valid   map[string]string
	subjErr error
}

func (s *stubJWT) GenerateToken(*domain.User) (string, error) { return "", nil }

func (s *stubJWT) GenerateTokenFromAuthentication(domain.Authentication) (string, error) {
	return "", nil
}

func (s *stubJWT) SubjectFromToken(tokenString string) (string, error) {
	if s.subjErr != nil {
		return "", s.subjErr
	}
	return s.valid[tokenString], nil
}

func (s *stubJWT) ValidateToken(tokenString string) bool {
	_, ok := s.valid[tokenString]
	return ok
}

func TestCheckToken(t *testing.T) {
	provider := &stubJWT{valid: map[string]string{"good": "42", "weird": "pilot-42"}}

	userID, err := CheckToken("good", provider, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	_, err = CheckToken("bad", provider, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = CheckToken("weird", provider, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidToken)

	failing := &stubJWT{valid: map[string]string{"good": "42"}, subjErr: errors.New("boom")}
	_, err = CheckToken("good", failing, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newTestRouter(provider *stubJWT) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthMiddleware(provider, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"UserID": c.GetInt64(UserIDKey)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	router := newTestRouter(&stubJWT{valid: map[string]string{"good": "42"}})

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "bearer header", header: "Bearer good", want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", want: http.StatusOK},
		{name: "cookie", cookie: "good", want: http.StatusOK},
		{name: "header wins over cookie", header: "Bearer bad", cookie: "good", want: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", want: http.StatusUnauthorized},
		{name: "other scheme", header: "Basic good", want: http.StatusUnauthorized},
		{name: "no token", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"UserID":42}`, w.Body.String())
			}
		})
	}
}
