package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"visaguide/internal/config"
)

func TestNew_EmptyAddrDisables(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	if err != nil || client != nil {
		t.Fatalf("New = (%v, %v), want (nil, nil)", client, err)
	}
}

func TestNew_Pings(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("miniredis value = %q, want v", got)
	}
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := New(context.Background(), config.RedisConfig{Addr: addr}); err == nil {
		t.Fatal("expected ping error")
	}
}
