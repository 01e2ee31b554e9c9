package history_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mohammad-safakhou/taskforce/internal/agent"
	"github.com/mohammad-safakhou/taskforce/internal/dispatch"
	"github.com/mohammad-safakhou/taskforce/internal/history"
)

func TestRedisStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	redisC, err := tcRedis.RunContainer(ctx, testcontainers.WithWaitStrategy(wait.ForListeningPort("6379/tcp")))
	if err != nil {
		t.Fatalf("redis container: %v", err)
	}
	defer func() { _ = redisC.Terminate(ctx) }()

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	defer func() { _ = rdb.Close() }()

	store := history.NewRedisStore(rdb, 3)
	for i := 0; i < 5; i++ {
		summary := dispatch.Summary{
			ID:   fmt.Sprintf("d-%d", i),
			Task: "redis round trip",
			Outcomes: []agent.Outcome{
				{Agent: agent.ResearchSpecialist, Status: agent.StatusOk, Result: "done"},
			},
		}
		if err := store.Save(ctx, summary); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	got, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d summaries, want the capped 3", len(got))
	}
	for i, want := range []string{"d-4", "d-3", "d-2"} {
		if got[i].ID != want {
			t.Fatalf("slot %d = %q, want %q", i, got[i].ID, want)
		}
	}
	if len(got[0].Outcomes) != 1 || got[0].Outcomes[0].Agent != agent.ResearchSpecialist {
		t.Fatalf("outcomes did not survive the round trip: %+v", got[0].Outcomes)
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "d-4" {
		t.Fatalf("limit not applied: %+v", limited)
	}
}
