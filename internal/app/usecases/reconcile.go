package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sifam-shopify-bridge/internal/domain/model"
	"sifam-shopify-bridge/internal/logging"
)

const defaultThrottle = 250 * time.Millisecond

// PageFetcher yields one page of entities for an opaque cursor. Pages are
// fetched strictly one at a time; the driver never buffers more than one.
type PageFetcher[E any] func(ctx context.Context, cursor string) (items []E, endCursor string, hasNext bool, err error)

// Policy supplies the per-job behavior of the reconciliation loop:
// resolve a supplier fact for an entity's business key, derive the delta
// that is not yet present, and apply it.
type Policy[E any, F any, D any] interface {
	// Key returns the entity's business key; empty means no lookup is
	// possible and the entity is counted as emptySku.
	Key(entity E) string
	// EntityID identifies the entity in failure logs.
	EntityID(entity E) string
	// Lookup resolves the supplier fact. found=false is a valid absent
	// result; err means resolution hard-failed after retries.
	Lookup(ctx context.Context, entity E, key string) (fact F, found bool, err error)
	// Delta returns what must be written and whether anything is left
	// after removing everything the entity already has.
	Delta(entity E, fact F) (delta D, nonEmpty bool)
	// Apply performs the single write for the computed delta.
	Apply(ctx context.Context, entity E, delta D) error
}

// Reconciler drives one batch run: pull pages, resolve facts, compute
// deltas, write, count. A single entity's failure never aborts the run;
// only page-fetch errors and context cancellation do.
type Reconciler[E any, F any, D any] struct {
	Fetch      PageFetcher[E]
	Policy     Policy[E, F, D]
	Logger     logging.LoggerService
	Throttle   time.Duration
	OnlySKU    string
	MaxUpdates int
}

func (r *Reconciler[E, F, D]) Run(ctx context.Context) (model.RunCounters, error) {
	var counters model.RunCounters
	throttle := r.Throttle
	if throttle <= 0 {
		throttle = defaultThrottle
	}

	cursor := ""
	for {
		items, endCursor, hasNext, err := r.Fetch(ctx, cursor)
		if err != nil {
			return counters, err
		}

		for _, entity := range items {
			key := strings.TrimSpace(r.Policy.Key(entity))
			if key == "" {
				counters.EmptySku++
				continue
			}
			if r.OnlySKU != "" && key != r.OnlySKU {
				continue
			}

			fact, found, err := r.Policy.Lookup(ctx, entity, key)
			if err != nil {
				if ctx.Err() != nil {
					return counters, ctx.Err()
				}
				counters.Failed++
				r.logFailure(entity, key, "lookup", err)
				continue
			}
			if !found {
				counters.Skipped++
				continue
			}

			delta, nonEmpty := r.Policy.Delta(entity, fact)
			if !nonEmpty {
				counters.Skipped++
				continue
			}

			if err := r.Policy.Apply(ctx, entity, delta); err != nil {
				if ctx.Err() != nil {
					return counters, ctx.Err()
				}
				counters.Failed++
				r.logFailure(entity, key, "apply", err)
			} else {
				counters.Updated++
				if r.MaxUpdates > 0 && counters.Updated >= r.MaxUpdates {
					if r.Logger != nil {
						r.Logger.LogWarning(fmt.Sprintf("max updates cap %d reached, stopping", r.MaxUpdates))
					}
					return counters, nil
				}
			}

			// throttle after every write attempt, success or not, to
			// stay under the upstream rate limit
			if err := sleepWithContext(ctx, throttle); err != nil {
				return counters, err
			}
		}

		if !hasNext {
			return counters, nil
		}
		cursor = endCursor
	}
}

func (r *Reconciler[E, F, D]) logFailure(entity E, key string, stage string, err error) {
	if r.Logger == nil {
		return
	}
	r.Logger.LogError(fmt.Sprintf("[FAIL %s] %s sku %s", stage, r.Policy.EntityID(entity), key), err)
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
