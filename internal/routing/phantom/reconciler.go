// Package phantom reconciles the visible route listing with destinations
// whose reject/blackhole semantics keep them out of it.
package phantom

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/routepilot/routepilot/internal/logger"
	"github.com/routepilot/routepilot/internal/routing/detail"
	"github.com/routepilot/routepilot/internal/routing/entities"
	"github.com/routepilot/routepilot/internal/routing/types"
)

// Store persists the set of suspect destinations between runs
type Store interface {
	Load() ([]string, error)
	Save(destinations []string) error
}

// Prober runs the detail query for one destination and returns its raw output
type Prober func(destination string) (string, error)

// Reconciler owns the in-memory mirror of the persisted phantom cache and
// confirms suspects against live detail probes. The cache is read and
// written from one coordinating flow at a time; only the probe fan-out
// inside Reconcile runs concurrently.
type Reconciler struct {
	store    Store
	prober   Prober
	cache    *entities.DestinationSet
	poolSize int
	log      *logger.Logger
}

// NewReconciler loads the persisted suspect set. A missing or unreadable
// store starts the cache empty rather than failing.
func NewReconciler(store Store, prober Prober, poolSize int, log *logger.Logger) *Reconciler {
	if poolSize < 1 {
		poolSize = 1
	}

	cache := entities.NewDestinationSet()
	if store != nil {
		if destinations, err := store.Load(); err != nil {
			log.Warn("phantom state unreadable, starting empty", "error", err)
		} else {
			for _, destination := range destinations {
				cache.Add(destination)
			}
		}
	}

	return &Reconciler{
		store:    store,
		prober:   prober,
		cache:    cache,
		poolSize: poolSize,
		log:      log,
	}
}

// Suspects returns the cached destinations, order unspecified
func (r *Reconciler) Suspects() []string {
	return r.cache.Values()
}

// Reconcile returns the suspect destinations that are real, currently-active
// drop routes missing from the visible listing. Suspects already visible are
// skipped outright; the rest are probed concurrently, and a probe result
// without reject or blackhole flags is dropped silently — its cache entry is
// stale, not an error.
func (r *Reconciler) Reconcile(visible []*types.Route, extra []string) []*types.Route {
	visibleSet := entities.NewDestinationSet()
	for _, route := range visible {
		visibleSet.Add(route.Destination)
	}

	candidates := entities.NewDestinationSet()
	for _, destination := range r.cache.Values() {
		if !visibleSet.Contains(destination) {
			candidates.Add(destination)
		}
	}
	for _, destination := range extra {
		if !visibleSet.Contains(destination) {
			candidates.Add(destination)
		}
	}

	suspects := candidates.Values()
	if len(suspects) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		phantoms []*types.Route
	)

	pool, err := ants.NewPoolWithFunc(r.poolSize, func(arg interface{}) {
		defer wg.Done()
		destination := arg.(string)
		if route := r.probe(destination); route != nil {
			mu.Lock()
			phantoms = append(phantoms, route)
			mu.Unlock()
		}
	})
	if err != nil {
		// Pool creation only fails on a bad size; fall back to serial probes
		for _, destination := range suspects {
			if route := r.probe(destination); route != nil {
				phantoms = append(phantoms, route)
			}
		}
		r.log.PhantomScan(len(suspects), len(phantoms))
		return phantoms
	}
	defer pool.Release()

	for _, destination := range suspects {
		wg.Add(1)
		if err := pool.Invoke(destination); err != nil {
			wg.Done()
			r.log.Warn("phantom probe not scheduled", "destination", destination, "error", err)
		}
	}
	wg.Wait()

	r.log.PhantomScan(len(suspects), len(phantoms))
	return phantoms
}

// probe confirms one suspect destination via the detail query
func (r *Reconciler) probe(destination string) *types.Route {
	output, err := r.prober(destination)
	if err != nil {
		r.log.Debug("phantom probe failed", "destination", destination, "error", err)
		return nil
	}

	d, err := detail.Parse(output)
	if err != nil {
		r.log.Debug("phantom probe unparseable", "destination", destination, "error", err)
		return nil
	}

	route := &types.Route{
		Destination: destination,
		Gateway:     d.Gateway,
		Interface:   d.Interface,
		Flags:       d.Flags,
		Expire:      d.Expire,
		Metrics:     d.Metrics,
	}

	if !route.IsDropRoute() {
		// Stale cache entry: the route was deleted or changed to a
		// non-drop type since it was recorded
		return nil
	}
	return route
}

// NoteAdded records a successfully added drop route in the persisted cache
func (r *Reconciler) NoteAdded(route *types.Route) error {
	if !route.IsDropRoute() {
		return nil
	}
	if r.cache.Add(route.Destination) {
		r.log.CacheUpdated(route.Destination, true, r.cache.Size())
		return r.persist()
	}
	return nil
}

// NoteDeleted removes a successfully deleted destination from the cache,
// regardless of its flags
func (r *Reconciler) NoteDeleted(destination string) error {
	if r.cache.Remove(destination) {
		r.log.CacheUpdated(destination, false, r.cache.Size())
		return r.persist()
	}
	return nil
}

func (r *Reconciler) persist() error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Save(r.cache.Values()); err != nil {
		return fmt.Errorf("failed to persist phantom cache: %w", err)
	}
	return nil
}
