package cache

import (
	"testing"
	"time"
)

func TestPutAndGet(t *testing.T) {
	c := New(time.Hour)

	c.Put("k", "v")

	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Fatalf("expected v, got %v (ok=%v)", v, ok)
	}
}

func TestGetMissingKey(t *testing.T) {
	c := New(time.Hour)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for absent key")
	}
	if c.IsFresh("missing") {
		t.Fatal("absent key must not be fresh")
	}
}

func TestFreshnessExpires(t *testing.T) {
	c := New(50 * time.Millisecond)

	c.Put("k", 1)
	if !c.IsFresh("k") {
		t.Fatal("entry should be fresh right after put")
	}

	time.Sleep(80 * time.Millisecond)

	if c.IsFresh("k") {
		t.Fatal("entry should be stale after TTL elapsed")
	}
	// Stale entries stay readable until swept or overwritten.
	if _, ok := c.Get("k"); !ok {
		t.Fatal("stale entry should still be stored")
	}
}

func TestPutResetsFreshnessClock(t *testing.T) {
	c := New(100 * time.Millisecond)

	c.Put("k", 1)
	time.Sleep(70 * time.Millisecond)
	c.Put("k", 2)
	time.Sleep(70 * time.Millisecond)

	if !c.IsFresh("k") {
		t.Fatal("overwrite should have reset the freshness clock")
	}
	v, _ := c.Get("k")
	if v != 2 {
		t.Fatalf("expected overwritten value 2, got %v", v)
	}
}

func TestGetFresh(t *testing.T) {
	c := New(50 * time.Millisecond)

	c.Put("k", "v")
	if v, ok := c.GetFresh("k"); !ok || v != "v" {
		t.Fatalf("expected fresh hit, got %v (ok=%v)", v, ok)
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok := c.GetFresh("k"); ok {
		t.Fatal("GetFresh must miss once the entry is stale")
	}
}

func TestSweepStale(t *testing.T) {
	c := New(50 * time.Millisecond)

	c.Put("old", 1)
	time.Sleep(80 * time.Millisecond)
	c.Put("new", 2)

	removed := c.SweepStale()
	if removed != 1 {
		t.Fatalf("expected 1 entry swept, got %d", removed)
	}
	if _, ok := c.Get("old"); ok {
		t.Fatal("stale entry should be gone after sweep")
	}
	if _, ok := c.Get("new"); !ok {
		t.Fatal("fresh entry must survive the sweep")
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after sweep, got %d", c.Len())
	}
}

func TestZeroTTLNeverStale(t *testing.T) {
	c := New(0)

	c.Put("k", 1)
	time.Sleep(20 * time.Millisecond)

	if !c.IsFresh("k") {
		t.Fatal("zero TTL entries should never go stale")
	}
	if removed := c.SweepStale(); removed != 0 {
		t.Fatalf("sweep with zero TTL removed %d entries", removed)
	}
}
