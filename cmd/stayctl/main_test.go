package main

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/stayledger-api/pkg/lookup"
)

func latestIs(seq uint64) func() uint64 {
	return func() uint64 { return seq }
}

func TestAwaitPendingReturnsWhenNewestWasPrinted(t *testing.T) {
	results := make(chan lookup.Result[[]lookup.Item], 1)

	start := time.Now()
	if err := awaitPending(context.Background(), results, latestIs(2), 2, time.Minute); err != nil {
		t.Fatalf("awaitPending: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("waited %v after the newest result was printed", time.Since(start))
	}
}

func TestAwaitPendingWithoutQueries(t *testing.T) {
	results := make(chan lookup.Result[[]lookup.Item], 1)
	if err := awaitPending(context.Background(), results, latestIs(0), 0, time.Minute); err != nil {
		t.Fatalf("awaitPending: %v", err)
	}
}

func TestAwaitPendingPrintsQueuedResult(t *testing.T) {
	results := make(chan lookup.Result[[]lookup.Item], 1)
	results <- lookup.Result[[]lookup.Item]{Seq: 3, Query: "goa"}

	if err := awaitPending(context.Background(), results, latestIs(3), 1, time.Minute); err != nil {
		t.Fatalf("awaitPending: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("queued result was not consumed")
	}
}

func TestAwaitPendingWaitsForOutstandingTrigger(t *testing.T) {
	results := make(chan lookup.Result[[]lookup.Item], 1)
	go func() {
		time.Sleep(10 * time.Millisecond)
		results <- lookup.Result[[]lookup.Item]{Seq: 4, Query: "pune"}
	}()

	if err := awaitPending(context.Background(), results, latestIs(4), 3, time.Minute); err != nil {
		t.Fatalf("awaitPending: %v", err)
	}
}

func TestAwaitPendingTimesOut(t *testing.T) {
	results := make(chan lookup.Result[[]lookup.Item], 1)
	err := awaitPending(context.Background(), results, latestIs(5), 4, 10*time.Millisecond)
	if err == nil || err.Error() != "lookup timed out" {
		t.Fatalf("err = %v, want timeout", err)
	}
}
