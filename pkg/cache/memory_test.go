package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheTypedDestination(t *testing.T) {
	type report struct {
		Commodity string  `json:"commodity"`
		Score     float64 `json:"score"`
	}

	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := &report{Commodity: "ZS", Score: 0.512}
	if err := mc.Set(ctx, "report:ZS", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out report
	if err := mc.Get(ctx, "report:ZS", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Commodity != "ZS" || out.Score != 0.512 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestMemoryCacheStringDestination(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var s string
	if err := mc.Get(ctx, "k", &s); err != nil {
		t.Fatalf("get: %v", err)
	}
	if s != "v" {
		t.Fatalf("unexpected value %q", s)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var s string
	err := mc.Get(context.Background(), "absent", &s)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
}

func TestMemoryCacheTryLock(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "lock:x", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first lock: ok=%v err=%v", ok, err)
	}
	ok, err = mc.TryLock(ctx, "lock:x", time.Minute)
	if err != nil || ok {
		t.Fatalf("second lock should fail: ok=%v err=%v", ok, err)
	}
	if err := mc.Unlock(ctx, "lock:x"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	ok, err = mc.TryLock(ctx, "lock:x", time.Minute)
	if err != nil || !ok {
		t.Fatalf("relock after unlock: ok=%v err=%v", ok, err)
	}
}
