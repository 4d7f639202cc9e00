package fuzzer

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ecmafuzz/internal/corpus"
	"ecmafuzz/internal/logging"
)

// SmokeResult tallies outcomes across a smoke run — S4's acceptance check
// ("at least 500 of 1,000 rounds produce a structurally valid program")
// reads Succeeded against Rounds, since a no-op executor that accepts every
// program as successful (S4's setup) makes Succeeded exactly the count of
// programs that passed I1 well-formedness on the way in.
type SmokeResult struct {
	Rounds    int
	Succeeded int
	Failed    int
	Crashed   int
	TimedOut  int
}

// Smoke runs engine for `rounds` rounds at up to `concurrency` rounds in
// flight at once, via errgroup — the same bounded-fan-out pattern used for
// parallel, mutex-guarded accumulation elsewhere in this codebase. Every
// round's own execute() already dispatches events and touches the corpus;
// Smoke only tallies outcomes on top.
func Smoke(ctx context.Context, engine Engine, rounds, concurrency int) (SmokeResult, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	var (
		mu     sync.Mutex
		result SmokeResult
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for i := 0; i < rounds; i++ {
		eg.Go(func() error {
			exec, err := engine.RunRound(egCtx)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Rounds++
			switch exec.Outcome {
			case Succeeded:
				result.Succeeded++
			case Crashed:
				result.Crashed++
			case TimedOut:
				result.TimedOut++
			default:
				result.Failed++
			}
			mu.Unlock()
			return nil
		})
	}

	err := eg.Wait()
	return result, err
}

// CleanupTicker runs corpus cleanup on its own goroutine between fuzzing
// rounds, cooperatively rather than preemptively, and stops cleanly on Stop.
type CleanupTicker struct {
	stop chan struct{}
	done chan struct{}
}

// StartCleanupTicker starts a CleanupTicker that calls c.Cleanup() every
// interval until Stop is called.
func StartCleanupTicker(c *corpus.Corpus, interval time.Duration) *CleanupTicker {
	t := &CleanupTicker{stop: make(chan struct{}), done: make(chan struct{})}
	go t.run(c, interval)
	return t
}

func (t *CleanupTicker) run(c *corpus.Corpus, interval time.Duration) {
	defer close(t.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log := logging.Get(logging.CategoryCorpus)
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			dropped := c.Cleanup()
			log.Debug("periodic cleanup dropped %d entries", dropped)
		}
	}
}

// Stop signals the ticker's goroutine to exit and waits for it, or for 2s to
// elapse.
func (t *CleanupTicker) Stop() {
	close(t.stop)
	select {
	case <-t.done:
	case <-time.After(2 * time.Second):
	}
}
