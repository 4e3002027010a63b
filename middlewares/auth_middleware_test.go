package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func run(secret, header string) (int, string) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var operator string
	r.GET("/x", OperatorAuth([]byte(secret)), func(c *gin.Context) {
		operator = c.GetString("operator")
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code, operator
}

func sign(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestOperatorAuth(t *testing.T) {
	secret := []byte("k")
	good, _ := utils.GenerateJWT(secret, "alice", time.Minute)
	exp := time.Now().Add(time.Minute).Unix()

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer " + good, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"wrong role", "Bearer " + sign(t, jwt.MapClaims{"sub": "bob", "role": "user", "exp": exp}, jwt.SigningMethodHS256, secret), http.StatusForbidden},
		{"expired", "Bearer " + sign(t, jwt.MapClaims{"role": utils.OperatorRole, "exp": time.Now().Add(-time.Minute).Unix()}, jwt.SigningMethodHS256, secret), http.StatusUnauthorized},
		{"no expiry", "Bearer " + sign(t, jwt.MapClaims{"role": utils.OperatorRole}, jwt.SigningMethodHS256, secret), http.StatusUnauthorized},
		{"other alg", "Bearer " + sign(t, jwt.MapClaims{"role": utils.OperatorRole, "exp": exp}, jwt.SigningMethodHS512, secret), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		code, _ := run("k", tc.header)
		if code != tc.code {
			t.Errorf("%s: got %d, want %d", tc.name, code, tc.code)
		}
	}

	if _, op := run("k", "Bearer "+good); op != "alice" {
		t.Fatalf("operator = %q", op)
	}
	if code, _ := run("", "Bearer "+good); code != http.StatusInternalServerError {
		t.Fatalf("empty secret: %d", code)
	}
}
