package media

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/livekit/protocol/auth"
)

const (
	testURL    = "https://media.example.com"
	testKey    = "APIabcdef1234567"
	testSecret = "sufficiently-long-signing-secret-value"
)

func TestNewServiceValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing url", Config{APIKey: testKey, APISecret: testSecret}},
		{"missing key", Config{URL: testURL, APISecret: testSecret}},
		{"missing secret", Config{URL: testURL, APIKey: testKey}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewService(tc.cfg); err == nil {
				t.Fatal("NewService accepted incomplete config")
			}
		})
	}

	if _, err := NewService(Config{URL: testURL, APIKey: testKey, APISecret: testSecret}); err != nil {
		t.Fatalf("NewService rejected complete config: %v", err)
	}
}

func TestSignTokenGrants(t *testing.T) {
	svc, err := NewService(Config{
		URL:       testURL,
		APIKey:    testKey,
		APISecret: testSecret,
		TokenTTL:  24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := svc.SignToken(context.Background(),
		"web-call-0123456789abcdef0123456789abcdef",
		"identity-a1b2c3",
		"ivy",
		`{"agent":"ivy"}`,
	)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	verifier, err := auth.ParseAPIToken(token)
	if err != nil {
		t.Fatalf("ParseAPIToken: %v", err)
	}
	if got := verifier.APIKey(); got != testKey {
		t.Fatalf("issuer = %q, want %q", got, testKey)
	}

	claims, err := verifier.Verify(testSecret)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Video == nil || !claims.Video.RoomJoin {
		t.Fatal("token missing room-join grant")
	}
	if claims.Video.Room != "web-call-0123456789abcdef0123456789abcdef" {
		t.Fatalf("grant room = %q", claims.Video.Room)
	}
	if got := verifier.Identity(); got != "identity-a1b2c3" {
		t.Fatalf("identity = %q", got)
	}

	if claims.RoomConfig == nil || len(claims.RoomConfig.Agents) != 1 {
		t.Fatal("token missing agent dispatch directive")
	}
	dispatch := claims.RoomConfig.Agents[0]
	if dispatch.AgentName != "ivy" {
		t.Fatalf("dispatch agent = %q, want ivy", dispatch.AgentName)
	}
	if dispatch.Metadata != `{"agent":"ivy"}` {
		t.Fatalf("dispatch metadata = %q", dispatch.Metadata)
	}
}

func TestSignTokenWithoutAgentOmitsDispatch(t *testing.T) {
	svc, err := NewService(Config{URL: testURL, APIKey: testKey, APISecret: testSecret})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := svc.SignToken(context.Background(), "web-call-room", "identity-ffffff", "", "")
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	verifier, err := auth.ParseAPIToken(token)
	if err != nil {
		t.Fatalf("ParseAPIToken: %v", err)
	}
	claims, err := verifier.Verify(testSecret)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.RoomConfig != nil && len(claims.RoomConfig.Agents) > 0 {
		t.Fatal("agentless token carries a dispatch directive")
	}
}

func TestSignTokenValidityWindow(t *testing.T) {
	ttl := 24 * time.Hour
	svc, err := NewService(Config{
		URL:       testURL,
		APIKey:    testKey,
		APISecret: testSecret,
		TokenTTL:  ttl,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	before := time.Now()
	token, err := svc.SignToken(context.Background(), "web-call-room", "identity-a1b2c3", "ivy", "{}")
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if claims.Subject != "identity-a1b2c3" {
		t.Fatalf("sub = %q", claims.Subject)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("token has no expiry")
	}

	expiry := claims.ExpiresAt.Time
	if expiry.Before(before.Add(ttl - time.Minute)) {
		t.Fatalf("expiry %v sooner than TTL window", expiry)
	}
	if expiry.After(before.Add(ttl + time.Minute)) {
		t.Fatalf("expiry %v later than TTL window", expiry)
	}
}
