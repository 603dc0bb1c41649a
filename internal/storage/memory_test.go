package storage

import (
	"context"
	"testing"
	"time"
)

func TestNewMemoryBackend(t *testing.T) {
	backend := NewMemoryBackend()
	if backend == nil {
		t.Fatal("NewMemoryBackend returned nil")
	}

	count, _ := backend.Count(context.Background())
	if count != 0 {
		t.Errorf("Expected empty backend, got %d vitals", count)
	}
}

func TestMemoryBackend_LatestReturnsCopies(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	if _, err := backend.Insert(ctx, testVital("d", 0, 1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	latest, _ := backend.Latest(ctx, 1)
	latest[0].ThermalValue = 3

	again, _ := backend.Latest(ctx, 1)
	if again[0].ThermalValue != 1 {
		t.Errorf("Stored vital was mutated through a read, got thermal %d", again[0].ThermalValue)
	}
}

func TestMemoryBackend_ConcurrentInserts(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(i int) {
			for j := 0; j < 20; j++ {
				backend.Insert(ctx, testVital("d", time.Duration(i*20+j)*time.Second, j%4))
			}
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	count, _ := backend.Count(ctx)
	if count != 200 {
		t.Fatalf("Expected 200 vitals, got %d", count)
	}

	all, _ := backend.Latest(ctx, 200)
	seen := make(map[int64]bool)
	for i, v := range all {
		if seen[v.ID] {
			t.Fatalf("Duplicate id %d", v.ID)
		}
		seen[v.ID] = true
		if i > 0 && all[i-1].Timestamp.Before(v.Timestamp) {
			t.Fatalf("History out of order at %d", i)
		}
	}
}

func TestMemoryBackend_Close(t *testing.T) {
	backend := NewMemoryBackend()
	backend.Insert(context.Background(), testVital("d", 0, 0))

	if err := backend.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	count, _ := backend.Count(context.Background())
	if count != 0 {
		t.Errorf("Expected storage cleared on close, got %d", count)
	}
}
