package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"league_stats/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated", "", false},
		{"passed through", "abc-123", true},
		{"too long", strings.Repeat("x", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(util.RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(util.RequestIDHeader)
			if got == "" {
				t.Fatal("response has no request id")
			}
			if got != w.Body.String() {
				t.Errorf("header %q differs from context value %q", got, w.Body.String())
			}
			if tt.keep && got != tt.incoming {
				t.Errorf("request id = %q, want %q", got, tt.incoming)
			}
			if !tt.keep && got == tt.incoming {
				t.Errorf("request id %q should have been replaced", got)
			}
		})
	}
}

func TestAdminAuth(t *testing.T) {
	admin, _ := util.GenerateJWT("ops", util.RoleAdmin, testSecret, time.Hour)
	viewer, _ := util.GenerateJWT("guest", "viewer", testSecret, time.Hour)
	expired, _ := util.GenerateJWT("ops", util.RoleAdmin, testSecret, -time.Minute)
	foreign, _ := util.GenerateJWT("ops", util.RoleAdmin, "another-secret-another-secret-xx", time.Hour)

	tests := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"admin token", testSecret, "Bearer " + admin, http.StatusOK},
		{"no token", testSecret, "", http.StatusUnauthorized},
		{"wrong role", testSecret, "Bearer " + viewer, http.StatusForbidden},
		{"expired", testSecret, "Bearer " + expired, http.StatusUnauthorized},
		{"signed with other key", testSecret, "Bearer " + foreign, http.StatusUnauthorized},
		{"admin api disabled", "", "Bearer " + admin, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret := tt.secret
			r := gin.New()
			r.GET("/admin", append(AdminAuth(func() string { return secret }), func(c *gin.Context) {
				c.String(http.StatusOK, util.GetUserFromContext(c).Subject)
			})...)

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusOK && w.Body.String() != "ops" {
				t.Errorf("body = %q, want subject", w.Body.String())
			}
		})
	}
}
