package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/mohammad-safakhou/taskforce/config"
	"github.com/mohammad-safakhou/taskforce/internal/dispatch"
)

func TestMemoryStoreNewestFirst(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.Save(ctx, dispatch.Summary{ID: fmt.Sprintf("d-%d", i)}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d summaries", len(got))
	}
	for i, want := range []string{"d-2", "d-1", "d-0"} {
		if got[i].ID != want {
			t.Fatalf("slot %d = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestMemoryStoreCapsAtMax(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = s.Save(ctx, dispatch.Summary{ID: fmt.Sprintf("d-%d", i)})
	}
	got, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
	if got[0].ID != "d-4" || got[1].ID != "d-3" {
		t.Fatalf("kept %q, %q", got[0].ID, got[1].ID)
	}
}

func TestMemoryStoreLimit(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = s.Save(ctx, dispatch.Summary{ID: fmt.Sprintf("d-%d", i)})
	}
	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].ID != "d-4" {
		t.Fatalf("limit not applied: %v", got)
	}
}

func TestNewDefaultsToMemory(t *testing.T) {
	repo, err := New(context.Background(), config.HistoryConfig{Limit: 10})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := repo.(*MemoryStore); !ok {
		t.Fatalf("default backend is %T, want *MemoryStore", repo)
	}
	if _, err := New(context.Background(), config.HistoryConfig{Backend: "etcd"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
