package devserver

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemorySessions(t *testing.T) {
	sessions := NewMemorySessions()
	ctx := context.Background()

	token, err := sessions.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	userID, ok, err := sessions.Get(ctx, token)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if userID != "u1" {
		t.Fatalf("userID = %q", userID)
	}

	if err := sessions.Delete(ctx, token); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := sessions.Get(ctx, token); ok {
		t.Fatal("session survived delete")
	}
}

func TestMemorySessions_UnknownToken(t *testing.T) {
	sessions := NewMemorySessions()
	if _, ok, err := sessions.Get(context.Background(), "no-such-token"); ok || err != nil {
		t.Fatalf("ok=%v err=%v, want miss without error", ok, err)
	}
}

func TestRedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	sessions := NewRedisSessions(client)
	ctx := context.Background()

	token, err := sessions.Create(ctx, "u2")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !mr.Exists("session:" + token) {
		t.Fatalf("key session:%s not stored", token)
	}

	userID, ok, err := sessions.Get(ctx, token)
	if err != nil || !ok || userID != "u2" {
		t.Fatalf("Get: %q ok=%v err=%v", userID, ok, err)
	}

	// miniredis lets the test fast-forward past the TTL
	mr.FastForward(sessionTTL + 1)
	if _, ok, err := sessions.Get(ctx, token); ok || err != nil {
		t.Fatalf("expired token: ok=%v err=%v", ok, err)
	}
}

func TestRedisSessions_Delete(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	sessions := NewRedisSessions(client)
	ctx := context.Background()

	token, err := sessions.Create(ctx, "u3")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := sessions.Delete(ctx, token); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := sessions.Get(ctx, token); ok {
		t.Fatal("session survived delete")
	}
}
