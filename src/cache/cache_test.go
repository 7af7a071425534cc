package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestCacheBasic(t *testing.T) {
	c := New(3, time.Hour)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))

	if got, ok := c.Get("a"); !ok || !bytes.Equal(got, []byte("1")) {
		t.Fatalf("expected 1, got %q (ok=%v)", got, ok)
	}

	// One more entry evicts "b", the least recently used.
	c.Set("d", []byte("4"))

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected 'b' to be evicted")
	}
	if c.Len() != 3 {
		t.Fatalf("expected cache length 3, got %d", c.Len())
	}
}

func TestCacheTTL(t *testing.T) {
	c := New(10, 10*time.Millisecond)

	c.Set("key", []byte("value"))
	if _, ok := c.Get("key"); !ok {
		t.Fatalf("expected value to be present")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Fatalf("expected value to be expired")
	}
}

func TestKeyIsStableAndDistinct(t *testing.T) {
	if Key("export", "id", "text/csv") != Key("export", "id", "text/csv") {
		t.Fatalf("identical inputs must produce identical keys")
	}
	if Key("export", "id", "text/csv") == Key("export", "id", "application/pdf") {
		t.Fatalf("different inputs must produce different keys")
	}
}
