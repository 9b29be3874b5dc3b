package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss")
	}

	c.Set("a", "1")
	v, ok := c.Get("a")
	if !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}

	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("overwrite: got %q, want 2", v)
	}
	if c.Size() != 1 {
		t.Fatalf("Size = %d, want 1", c.Size())
	}
}

func TestLRUEviction(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a retained")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("expected c retained")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry not removed on read")
	}
}

func TestCleanExpired(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)

	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired = %d, want 2", n)
	}
	if c.Size() != 0 {
		t.Fatalf("Size = %d after cleanup", c.Size())
	}
}

func TestFlush(t *testing.T) {
	c := New[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()

	if c.Size() != 0 {
		t.Fatalf("Size = %d after flush", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("entry survived flush")
	}
}

func TestDelete(t *testing.T) {
	c := New[int](10, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	c.Delete("a")

	if _, ok := c.Get("a"); ok {
		t.Fatalf("entry survived delete")
	}
}

func TestStartStopCleanup(t *testing.T) {
	c := New[int](10, time.Millisecond)
	c.StartCleanup(5 * time.Millisecond)
	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)
	c.StopCleanup()

	if c.Size() != 0 {
		t.Fatalf("background sweep did not remove expired entry")
	}
}
