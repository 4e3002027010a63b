package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWT(t *testing.T) {
	if _, err := GenerateJWT(nil, "x", time.Hour); err == nil {
		t.Fatal("empty secret must fail")
	}
	tok, err := GenerateJWT([]byte("k"), "ops", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) { return []byte("k"), nil }); err != nil {
		t.Fatal(err)
	}
	if claims["sub"] != "ops" || claims["role"] != OperatorRole {
		t.Fatalf("claims = %v", claims)
	}
}
