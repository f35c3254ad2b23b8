package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connect3/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(issuer *jwt.Issuer) *gin.Engine {
	r := gin.New()
	r.GET("/invite", InviteMiddleware(issuer), func(c *gin.Context) {
		id, ok := Inviter(c)
		c.JSON(http.StatusOK, gin.H{"inviter": id, "present": ok})
	})
	return r
}

func TestInviteMiddleware(t *testing.T) {
	issuer := jwt.NewIssuer("test-secret", time.Hour)
	token, _, err := issuer.GenerateInviteToken("user-1")
	require.NoError(t, err)
	router := newRouter(issuer)

	tests := []struct {
		name       string
		target     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no token", "/invite", "", http.StatusOK, `"present":false`},
		{"query token", "/invite?invite_token=" + token, "", http.StatusOK, `"inviter":"user-1"`},
		{"bearer token", "/invite", "Bearer " + token, http.StatusOK, `"inviter":"user-1"`},
		{"bad token", "/invite?invite_token=forged", "", http.StatusUnauthorized, "invite token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
