package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func TestGenerateJWTSubjectIsUID(t *testing.T) {
	s := NewService(nil, "secret", time.Hour)

	signed, err := s.generateJWT("uid-123")
	if err != nil {
		t.Fatalf("generateJWT: %v", err)
	}

	token, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != "uid-123" {
		t.Errorf("sub = %v, want uid-123", claims["sub"])
	}

	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	if exp-iat != int64(time.Hour.Seconds()) {
		t.Errorf("token lifetime = %ds, want %ds", exp-iat, int64(time.Hour.Seconds()))
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := NewService(nil, "secret", 0)

	var events []AuthEvent
	cancel := s.Subscribe(func(e AuthEvent) { events = append(events, e) })

	s.notify(AuthEvent{UID: "u1", SignedIn: true})
	s.Logout("u1")
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].SignedIn {
		t.Error("logout event reported SignedIn=true")
	}

	cancel()
	s.notify(AuthEvent{UID: "u2", SignedIn: true})
	if len(events) != 2 {
		t.Errorf("listener fired after unsubscribe")
	}
}
