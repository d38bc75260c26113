// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import (
	"errors"
	"sync"
	"testing"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a missing")
	}
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s missing", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 || s.Len != 2 {
		t.Errorf("stats = %+v, want 1 eviction and 2 entries", s)
	}
}

func TestLRUAddReplaces(t *testing.T) {
	c := New[int, string](4)
	c.Add(1, "one")
	c.Add(1, "uno")
	if v, _ := c.Get(1); v != "uno" {
		t.Errorf("Get(1) = %q, want uno", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestLRUGetOrAdd(t *testing.T) {
	c := New[string, []byte](4)
	calls := 0
	create := func() ([]byte, error) {
		calls++
		return []byte("code"), nil
	}
	for range 3 {
		v, err := c.GetOrAdd("k", create)
		if err != nil || string(v) != "code" {
			t.Fatalf("GetOrAdd = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrAdd("bad", func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed create must not be cached")
	}
}

func TestLRURemoveAndPurge(t *testing.T) {
	c := New[int, int](0)
	if got := c.Stats().Capacity; got != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", got, DefaultCapacity)
	}
	for i := range 10 {
		c.Add(i, i)
	}
	if !c.Remove(3) || c.Remove(3) {
		t.Error("Remove(3) should succeed once")
	}
	if c.Len() != 9 {
		t.Errorf("Len = %d, want 9", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d", c.Len())
	}
	c.Add(1, 1)
	if v, ok := c.Get(1); !ok || v != 1 {
		t.Error("cache unusable after Purge")
	}
}

func TestStatsHitRate(t *testing.T) {
	tests := []struct {
		name string
		s    Stats
		want float64
	}{
		{"empty", Stats{}, 0},
		{"half", Stats{Hits: 2, Misses: 2}, 0.5},
		{"all", Stats{Hits: 3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.HitRate(); got != tt.want {
				t.Errorf("HitRate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLRUConcurrent(t *testing.T) {
	c := New[int, int](16)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := (g*7 + i) % 32
				_, _ = c.GetOrAdd(k, func() (int, error) { return k * 2, nil })
				if v, ok := c.Get(k); ok && v != k*2 {
					t.Errorf("Get(%d) = %d", k, v)
				}
			}
		}()
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Errorf("Len = %d exceeds capacity", c.Len())
	}
}
