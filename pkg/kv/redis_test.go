package kv

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockCmdable struct {
	values map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{values: map[string]string{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if val, ok := m.values[key]; ok {
		cmd.SetVal(val)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var removed int64
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &RedisStore{store: mock, namespace: "shadowwear"}

	store.Save(ctx, "wishlist", []string{"tsh-001", "hd-002"})

	if _, ok := mock.values["shadowwear:wishlist"]; !ok {
		t.Fatalf("expected namespaced key, got keys %v", mock.values)
	}

	var ids []string
	if !store.Load(ctx, "wishlist", &ids) {
		t.Fatal("expected load to succeed")
	}
	if len(ids) != 2 || ids[0] != "tsh-001" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestRedisStoreLoadMissingKey(t *testing.T) {
	ctx := context.Background()
	store := &RedisStore{store: newMockCmdable(), namespace: "shadowwear"}

	var dest []string
	if store.Load(ctx, "wishlist", &dest) {
		t.Fatal("expected miss for never-written key")
	}
}

func TestRedisStoreMalformedPayloadFailsSoft(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	mock.values["shadowwear:cart"] = "][ not json"
	store := &RedisStore{store: mock, namespace: "shadowwear"}

	var dest map[string]any
	if store.Load(ctx, "cart", &dest) {
		t.Fatal("expected malformed payload to fail soft")
	}
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &RedisStore{store: mock, namespace: "shadowwear"}

	store.Save(ctx, "theme", "light")
	store.Delete(ctx, "theme")

	var theme string
	if store.Load(ctx, "theme", &theme) {
		t.Fatal("expected deleted key to miss")
	}
}
