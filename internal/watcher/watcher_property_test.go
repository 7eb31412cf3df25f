//go:build property

package watcher

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDebouncerProperties validates the batching guarantees of the debouncer
func TestDebouncerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	// Property: a burst yields one batch holding each path once, sorted
	properties.Property("burst collapses to one sorted batch of unique paths", prop.ForAll(
		func(picks []int) bool {
			if len(picks) == 0 {
				return true
			}

			debouncer := newDebouncer(100 * time.Millisecond)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go debouncer.start(ctx)

			unique := map[string]bool{}
			for _, p := range picks {
				path := fmt.Sprintf("/p/file-%d", p)
				unique[path] = true
				debouncer.events <- ChangeEvent{Path: path, Type: EventTypeModified}
			}

			select {
			case events := <-debouncer.output:
				if len(events) != len(unique) {
					return false
				}
				for i := 1; i < len(events); i++ {
					if events[i-1].Path >= events[i].Path {
						return false
					}
				}
				return true
			case <-time.After(2 * time.Second):
				return false
			}
		},
		gen.SliceOfN(20, gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}
