// Package pipeline runs one digest cycle: search, research, rating,
// deduplication, store append, notification. A run is a single linear pass
// with no retries; every failure is logged and the run still reaches a
// completed state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"newsdigest/internal/agent"
	"newsdigest/internal/model"
)

// ErrRunInProgress is returned when a trigger arrives while another run holds
// the runner. Concurrent runs would race the dedup read against the store
// append, so they are rejected rather than queued.
var ErrRunInProgress = errors.New("a digest run is already in progress")

type SearchProvider interface {
	News(ctx context.Context, query string) ([]model.Hit, error)
}

type Researcher interface {
	Research(ctx context.Context, hits []model.Hit) (agent.Outcome, error)
}

type Rater interface {
	Rate(ctx context.Context, report model.NewsReport) (agent.Outcome, error)
}

type Store interface {
	URLs(ctx context.Context) ([]string, error)
	Append(ctx context.Context, items []model.NewsItem) (int, error)
}

type Notifier interface {
	Publish(ctx context.Context, items []model.NewsItem) error
}

type State string

const (
	StateStart      State = "start"
	StateResearched State = "researched"
	StateRated      State = "rated"
	StateDeduped    State = "deduped"
	StateStored     State = "stored"
	StateNotified   State = "notified"
	StateDone       State = "done"
)

// Result describes a completed run.
type Result struct {
	State      State
	Researched int
	Accepted   int
	Appended   int
	Notified   bool
}

func (r Result) Summary() string {
	return fmt.Sprintf("run complete: %d researched, %d new, %d stored, notified=%t",
		r.Researched, r.Accepted, r.Appended, r.Notified)
}

type Deps struct {
	Search   SearchProvider
	Research Researcher
	Rate     Rater
	Store    Store
	Notifier Notifier
	Keywords string
}

type Runner struct {
	search   SearchProvider
	research Researcher
	rate     Rater
	store    Store
	notifier Notifier
	keywords string

	mu sync.Mutex
}

func NewRunner(deps Deps) *Runner {
	return &Runner{
		search:   deps.Search,
		research: deps.Research,
		rate:     deps.Rate,
		store:    deps.Store,
		notifier: deps.Notifier,
		keywords: deps.Keywords,
	}
}

// Run executes one full cycle. Only one run may be in flight at a time; a
// concurrent call returns ErrRunInProgress without doing any work. Any other
// failure is absorbed: the run completes with whatever it managed to do.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if !r.mu.TryLock() {
		return Result{}, ErrRunInProgress
	}
	defer r.mu.Unlock()

	res := Result{State: StateStart}

	hits, err := r.search.News(ctx, r.keywords)
	if err != nil {
		log.Printf("[ERROR] news search failed, completing empty run: %v", err)
		res.State = StateDone
		return res, nil
	}
	log.Printf("[INFO] search returned %d hits", len(hits))

	researched, ok := r.runStep(ctx, "research", func(ctx context.Context) (agent.Outcome, error) {
		return r.research.Research(ctx, hits)
	})
	if !ok || len(researched.NewsItems) == 0 {
		log.Printf("[INFO] no news items researched")
		res.State = StateDone
		return res, nil
	}
	res.State = StateResearched
	res.Researched = len(researched.NewsItems)

	rated, ok := r.runStep(ctx, "rating", func(ctx context.Context) (agent.Outcome, error) {
		return r.rate.Rate(ctx, researched)
	})
	if !ok {
		res.State = StateDone
		return res, nil
	}
	res.State = StateRated

	items := reconcile(researched, rated)
	if len(items) == 0 {
		log.Printf("[INFO] no items survived rating reconciliation")
		res.State = StateDone
		return res, nil
	}

	existing, err := r.store.URLs(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to fetch existing urls, assuming no prior duplicates: %v", err)
		existing = nil
	}

	accepted := Dedup(items, existing)
	res.State = StateDeduped
	res.Accepted = len(accepted)
	if len(accepted) == 0 {
		log.Printf("[INFO] no new news items to add, all fetched articles already stored")
		res.State = StateDone
		return res, nil
	}
	log.Printf("[INFO] accepted %d new news items", len(accepted))

	appended, err := r.store.Append(ctx, accepted)
	res.Appended = appended
	if err != nil {
		log.Printf("[ERROR] store append failed after %d rows, written prefix stands: %v", appended, err)
	} else {
		res.State = StateStored
	}

	if err := r.notifier.Publish(ctx, accepted); err != nil {
		log.Printf("[ERROR] failed to publish digest, stored rows stand: %v", err)
	} else {
		res.State = StateNotified
		res.Notified = true
	}

	res.State = StateDone
	log.Printf("[INFO] %s", res.Summary())
	return res, nil
}

// runStep executes one generation delegation and folds every failure mode
// (transport error, non-conforming output) into a not-ok answer.
func (r *Runner) runStep(ctx context.Context, name string, step func(context.Context) (agent.Outcome, error)) (model.NewsReport, bool) {
	outcome, err := step(ctx)
	if err != nil {
		log.Printf("[ERROR] %s step failed, completing empty run: %v", name, err)
		return model.NewsReport{}, false
	}
	if !outcome.Usable {
		log.Printf("[ERROR] %s step produced unusable output, completing empty run: %s", name, snippet(outcome.Raw))
		return model.NewsReport{}, false
	}
	return outcome.Report, true
}

// reconcile re-keys the rated report by canonical url and walks the
// researched report in order, attaching ratings. Items the rating step lost,
// duplicated away, or scored outside [1,10] are dropped with a logged
// mismatch instead of trusting positional correspondence.
func reconcile(researched, rated model.NewsReport) []model.NewsItem {
	byURL := make(map[string]model.NewsItem, len(rated.NewsItems))
	for _, item := range rated.NewsItems {
		byURL[CanonicalURL(item.URL)] = item
	}

	var out []model.NewsItem
	for _, item := range researched.NewsItems {
		ratedItem, ok := byURL[CanonicalURL(item.URL)]
		if !ok {
			log.Printf("[ERROR] rating output is missing %s, dropping item", item.URL)
			continue
		}
		if ratedItem.Rating < 1 || ratedItem.Rating > 10 {
			log.Printf("[ERROR] rating %d out of range for %s, dropping item", ratedItem.Rating, item.URL)
			continue
		}

		item.Rating = ratedItem.Rating
		out = append(out, item)
	}

	return out
}

func snippet(raw string) string {
	const max = 200
	if runes := []rune(raw); len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return raw
}
