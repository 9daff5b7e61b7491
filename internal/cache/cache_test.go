package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestResponseCache_GetSet(t *testing.T) {
	c := New(5*time.Second, 100)

	key := MakeKey("TIME_SERIES_DAILY_ADJUSTED", map[string]string{"symbol": "IBM", "outputsize": "compact"})
	c.Set(key, &CachedResponse{Body: []byte(`{"ok":true}`)})

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got.Body) != `{"ok":true}` {
		t.Errorf("unexpected body: %s", got.Body)
	}
}

func TestResponseCache_Miss(t *testing.T) {
	c := New(5*time.Second, 100)

	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected cache miss for nonexistent key")
	}
}

func TestResponseCache_TTLExpiration(t *testing.T) {
	c := New(50*time.Millisecond, 100)

	c.Set("k", &CachedResponse{Body: []byte("data")})
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected cache hit before expiry")
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected cache miss after expiry")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed, got %d entries", c.Len())
	}
}

func TestResponseCache_MaxEntries(t *testing.T) {
	c := New(5*time.Second, 3)

	for i := 0; i < 4; i++ {
		c.Set(fmt.Sprintf("k%d", i), &CachedResponse{Body: []byte("x")})
	}

	if c.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", c.Len())
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("expected oldest entry k0 to be evicted")
	}
	if _, ok := c.Get("k3"); !ok {
		t.Error("expected newest entry k3 to be present")
	}
}

func TestResponseCache_OverwriteExistingKey(t *testing.T) {
	c := New(5*time.Second, 2)

	c.Set("a", &CachedResponse{Body: []byte("1")})
	c.Set("b", &CachedResponse{Body: []byte("2")})
	c.Set("a", &CachedResponse{Body: []byte("3")})

	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
	got, _ := c.Get("a")
	if string(got.Body) != "3" {
		t.Errorf("expected overwritten body 3, got %s", got.Body)
	}
}

func TestMakeKey(t *testing.T) {
	a := MakeKey("NEWS_SENTIMENT", map[string]string{"tickers": "IBM", "limit": "50", "sort": "LATEST", "apikey": "secret"})
	b := MakeKey("NEWS_SENTIMENT", map[string]string{"sort": "LATEST", "limit": "50", "tickers": "IBM"})

	if a != b {
		t.Errorf("expected order-independent keys, got %q and %q", a, b)
	}
	if a != "NEWS_SENTIMENT:limit=50:sort=LATEST:tickers=IBM" {
		t.Errorf("unexpected key %q", a)
	}
}

func TestResponseCache_InvalidateSymbol(t *testing.T) {
	c := New(5*time.Second, 100)

	c.Set(MakeKey("TIME_SERIES_DAILY_ADJUSTED", map[string]string{"symbol": "IBM"}), &CachedResponse{})
	c.Set(MakeKey("NEWS_SENTIMENT", map[string]string{"tickers": "IBM"}), &CachedResponse{})
	c.Set(MakeKey("TIME_SERIES_DAILY_ADJUSTED", map[string]string{"symbol": "IBMX"}), &CachedResponse{})

	if removed := c.InvalidateSymbol("IBM"); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if c.Len() != 1 {
		t.Errorf("expected IBMX entry to remain, got %d entries", c.Len())
	}
}

func TestResponseCache_ThreadSafety(t *testing.T) {
	c := New(time.Second, 50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (id*j)%70)
				c.Set(key, &CachedResponse{Body: []byte("v")})
				c.Get(key)
				if j%25 == 0 {
					c.InvalidateSymbol("IBM")
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("expected at most 50 entries, got %d", c.Len())
	}
}
