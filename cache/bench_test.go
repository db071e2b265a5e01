package cache

import (
	"context"
	"strconv"
	"testing"
	"time"
)

func BenchmarkCache_Get(b *testing.B) {
	c := New(Config{MaxEntries: 1000, DefaultTTL: time.Hour})
	c.Set("bench", "value", time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("bench")
	}
}

func BenchmarkCache_Set(b *testing.B) {
	c := New(Config{MaxEntries: 1000, DefaultTTL: time.Hour})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set("bench:"+strconv.Itoa(i%1000), i, time.Hour)
	}
}

func BenchmarkCache_SetWithEviction(b *testing.B) {
	c := New(Config{MaxEntries: 100, DefaultTTL: time.Hour})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set("bench:"+strconv.Itoa(i), i, time.Hour)
	}
}

func BenchmarkWrap_FreshHit(b *testing.B) {
	c := New(Config{MaxEntries: 1000, DefaultTTL: time.Hour})
	ctx := context.Background()
	opts := WrapOptions[string]{
		Loader: func(ctx context.Context) (string, error) { return "loaded", nil },
	}
	if _, err := Wrap(ctx, c, "bench", opts); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Wrap(ctx, c, "bench", opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Key("transactions", "budget-1", "since", 30)
	}
}

func BenchmarkCache_GetParallel(b *testing.B) {
	c := New(Config{MaxEntries: 1000, DefaultTTL: time.Hour})
	c.Set("bench", "value", time.Hour)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get("bench")
		}
	})
}
