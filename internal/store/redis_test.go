package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/janisto/scoring-api/internal/testutil"
)

func newTestRedisStore(t *testing.T, keys ...string) *RedisStore {
	t.Helper()
	addr := testutil.RequireRedis(t)

	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: testutil.RedisTestDB})
	ctx := context.Background()
	t.Cleanup(func() {
		_ = client.Del(ctx, keys...).Err()
		_ = client.Close()
	})
	_ = client.Del(ctx, keys...).Err()
	return NewRedisStore(client)
}

func TestRedisStore_GetSet(t *testing.T) {
	s := newTestRedisStore(t, "test:score")
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "test:score"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "test:score", "3.5", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, ok, err := s.Get(ctx, "test:score")
	if err != nil || !ok || v != "3.5" {
		t.Fatalf("expected 3.5, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestRedisStore_Lists(t *testing.T) {
	s := newTestRedisStore(t, "test:list")
	ctx := context.Background()

	got, err := s.GetList(ctx, "test:list")
	if err != nil {
		t.Fatalf("get list failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}

	if err := s.SetList(ctx, "test:list", "cars", "pets"); err != nil {
		t.Fatalf("set list failed: %v", err)
	}
	got, err = s.GetList(ctx, "test:list")
	if err != nil {
		t.Fatalf("get list failed: %v", err)
	}
	if diff := cmp.Diff([]string{"pets", "cars"}, got); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisStore_Many(t *testing.T) {
	s := newTestRedisStore(t, "test:a", "test:b", "test:missing")
	ctx := context.Background()

	if err := s.SetMany(ctx, map[string]string{"test:a": "1", "test:b": "2"}); err != nil {
		t.Fatalf("set many failed: %v", err)
	}
	got, err := s.GetMany(ctx, "test:a", "test:missing", "test:b")
	if err != nil {
		t.Fatalf("get many failed: %v", err)
	}
	if len(got) != 3 || got[0] == nil || *got[0] != "1" || got[1] != nil || got[2] == nil || *got[2] != "2" {
		t.Fatalf("unexpected values: %v", got)
	}

	if err := s.Delete(ctx, "test:a", "test:b"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "test:a"); ok {
		t.Fatal("expected test:a to be deleted")
	}
}

func TestRedisStore_Ping(t *testing.T) {
	s := newTestRedisStore(t, "test:ping")
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}
