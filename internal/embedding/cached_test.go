package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// countingEmbedder wraps MockEmbedder and counts texts sent to it.
type countingEmbedder struct {
	*MockEmbedder
	texts int
	fail  error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	c.texts++
	return c.MockEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	c.texts += len(texts)
	return c.MockEmbedder.EmbedBatch(ctx, texts)
}

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewRedisCache(rdb, time.Hour)
}

func TestCachedEmbedder_LRU(t *testing.T) {
	base := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	c := NewCachedEmbedder(base, 10)
	ctx := context.Background()

	a, err := c.Embed(ctx, "java developer")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Embed(ctx, "java developer")
	if base.texts != 1 {
		t.Errorf("base called %d times, want 1", base.texts)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("cached vector differs")
		}
	}
	if c.ModelID() != "mock-8" || c.Dimensions() != 8 {
		t.Errorf("unexpected model %s/%d", c.ModelID(), c.Dimensions())
	}
}

func TestCachedEmbedder_BatchOnlyEmbedsMisses(t *testing.T) {
	base := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	c := NewCachedEmbedder(base, 10)
	ctx := context.Background()
	if _, err := c.Embed(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	vecs, err := c.EmbedBatch(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 3 || vecs[1] == nil || vecs[2] == nil {
		t.Fatalf("unexpected batch result %v", vecs)
	}
	if base.texts != 3 {
		t.Errorf("base embedded %d texts, want 3", base.texts)
	}
}

func TestCachedEmbedder_PropagatesErrors(t *testing.T) {
	boom := errors.New("provider down")
	c := NewCachedEmbedder(&countingEmbedder{MockEmbedder: NewMockEmbedder(4), fail: boom}, 4)
	if _, err := c.Embed(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestCachedEmbedder_SharedTier(t *testing.T) {
	shared := newTestRedis(t)
	ctx := context.Background()

	first := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	if _, err := NewCachedEmbedder(first, 4, WithSharedCache(shared)).Embed(ctx, "team lead"); err != nil {
		t.Fatal(err)
	}

	// A fresh process with an empty LRU is served from Redis.
	second := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	vec, err := NewCachedEmbedder(second, 4, WithSharedCache(shared)).Embed(ctx, "team lead")
	if err != nil {
		t.Fatal(err)
	}
	if second.texts != 0 {
		t.Errorf("expected redis hit, base embedded %d texts", second.texts)
	}
	want, _ := NewMockEmbedder(8).Embed(ctx, "team lead")
	for i := range want {
		if vec[i] != want[i] {
			t.Fatalf("vector mismatch at %d", i)
		}
	}
}

func TestRedisCache_MissAndModelIsolation(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()
	if _, ok, err := r.Get(ctx, "m1", "x"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := r.Set(ctx, "m1", "x", []float32{1, 2}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := r.Get(ctx, "m2", "x"); ok {
		t.Error("different model id must not share entries")
	}
	v, ok, err := r.Get(ctx, "m1", "x")
	if err != nil || !ok || len(v) != 2 || v[1] != 2 {
		t.Errorf("Get = %v %v %v", v, ok, err)
	}
}
