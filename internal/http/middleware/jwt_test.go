package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"practice_backend/internal/service"

	"github.com/gin-gonic/gin"
)

func jwtTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	service.InitJWT()

	r := gin.New()
	r.GET("/protected", JWT(), func(c *gin.Context) {
		uid, _ := c.Get("user_id")
		c.JSON(200, gin.H{"user_id": uid})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestJWTMiddlewareAllowsValidToken(t *testing.T) {
	srv := jwtTestServer(t)

	token, err := service.GenerateJWT(11)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req, _ := http.NewRequest("GET", srv.URL+"/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}
}

func TestJWTMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	srv := jwtTestServer(t)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Token abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tc := range cases {
		req, _ := http.NewRequest("GET", srv.URL+"/protected", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}

		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", tc.name, err)
		}
		if res.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", tc.name, res.StatusCode)
		}
	}
}
