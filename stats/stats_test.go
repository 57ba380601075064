package stats

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCountsPerPair(t *testing.T) {
	c := New()

	c.Hit("D", "en", "a")
	c.Hit("D", "en", "b")
	c.Miss("D", "en", "c")
	c.Miss("D", "fr", "a")
	c.LoadError("D", "fr", errors.New("down"))

	snap := c.Snapshot()
	en := snap[Pair{"D", "en"}]
	if en.Hits != 2 || en.Misses != 1 {
		t.Fatalf("en bucket: %+v", en)
	}
	fr := snap[Pair{"D", "fr"}]
	if fr.Misses != 1 || fr.LoadErrors != 1 {
		t.Fatalf("fr bucket: %+v", fr)
	}
}

func TestTotalsAndGlobals(t *testing.T) {
	c := New()
	c.Hit("D", "en", "k")
	c.Miss("D2", "de", "k")
	c.MutationDeferred("reset")
	c.SnapshotSaveError(errors.New("disk full"))

	hits, misses, deferred, saveFails := c.Totals()
	if hits != 1 || misses != 1 || deferred != 1 || saveFails != 1 {
		t.Fatalf("totals: %d %d %d %d", hits, misses, deferred, saveFails)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New()
	c.Hit("D", "en", "k")

	snap := c.Snapshot()
	snap[Pair{"D", "en"}] = Counters{Hits: 99}

	if got := c.Snapshot()[Pair{"D", "en"}].Hits; got != 1 {
		t.Fatalf("mutating the snapshot leaked back: hits=%d", got)
	}
}

func TestPruneDropsStaleBuckets(t *testing.T) {
	c := New()
	c.Hit("old", "en", "k")
	time.Sleep(20 * time.Millisecond)
	c.Prune(10 * time.Millisecond)

	if len(c.Snapshot()) != 0 {
		t.Fatal("stale bucket survived prune")
	}
}

func TestConcurrentBumps(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Hit("D", "en", "k")
			}
		}()
	}
	wg.Wait()

	if got := c.Snapshot()[Pair{"D", "en"}].Hits; got != 8000 {
		t.Fatalf("hits=%d want 8000", got)
	}
}
