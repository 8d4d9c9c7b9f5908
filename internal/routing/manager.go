// Package routing coordinates the refresh-then-mutate-then-refresh flow:
// listing and detail queries on one side, validated route commands on the
// other, with the phantom reconciler in between.
package routing

import (
	"fmt"
	"time"

	"github.com/routepilot/routepilot/internal/config"
	"github.com/routepilot/routepilot/internal/executor"
	"github.com/routepilot/routepilot/internal/logger"
	"github.com/routepilot/routepilot/internal/routing/command"
	"github.com/routepilot/routepilot/internal/routing/detail"
	"github.com/routepilot/routepilot/internal/routing/entities"
	"github.com/routepilot/routepilot/internal/routing/listing"
	"github.com/routepilot/routepilot/internal/routing/metrics"
	"github.com/routepilot/routepilot/internal/routing/phantom"
	"github.com/routepilot/routepilot/internal/routing/types"
)

// Lister returns the raw text of the current visible route listing
type Lister func() (string, error)

// Manager ties the parsers, the command builder, the executor and the
// phantom reconciler together. The kernel table stays the source of truth;
// the manager holds no route state between calls.
type Manager struct {
	runner     executor.Runner
	lister     Lister
	prober     phantom.Prober
	reconciler *phantom.Reconciler
	metrics    *metrics.Metrics
	log        *logger.Logger
}

// NewManager wires a manager from its collaborators. Nil runner, lister or
// prober fall back to the system route(8)/netstat implementations.
func NewManager(cfg *config.Config, runner executor.Runner, lister Lister, prober phantom.Prober, store phantom.Store, log *logger.Logger) *Manager {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if runner == nil {
		runner = executor.NewRouteCommand()
	}
	if lister == nil {
		lister = executor.NetstatListing
	}
	if prober == nil {
		prober = executor.RouteDetail
	}
	if store == nil {
		store = config.NewPhantomStore(cfg.StateFile)
	}

	return &Manager{
		runner:     runner,
		lister:     lister,
		prober:     prober,
		reconciler: phantom.NewReconciler(store, prober, cfg.ProbeConcurrency, log.WithComponent("phantom")),
		metrics:    metrics.NewMetrics(),
		log:        log,
	}
}

// Refresh re-reads the visible listing, reconciles the phantom cache against
// it and returns the merged table in numeric network order
func (m *Manager) Refresh() ([]*types.Route, error) {
	output, err := m.lister()
	if err != nil {
		return nil, fmt.Errorf("failed to read route listing: %w", err)
	}

	routes := listing.Parse(output)
	routes = append(routes, m.reconciler.Reconcile(routes, nil)...)
	m.metrics.RecordPhantomScan()

	entities.SortByNetwork(routes)
	return routes, nil
}

// Apply validates the route, assembles the command for the given kind, runs
// it and maintains the phantom cache on success. Execution failures come
// back categorized with the tool's verbatim output attached.
func (m *Manager) Apply(kind types.CommandKind, route *types.Route) error {
	if err := command.Validate(route, kind); err != nil {
		return err
	}

	args := command.Build(kind, route, route.Metrics)
	m.log.CommandIssued(args)

	start := time.Now()
	output, err := m.runner.Run(args)
	duration := time.Since(start)
	m.metrics.RecordCommand(duration, err == nil)
	m.log.RouteOperation(kind.Verb(), route.Destination, route.Gateway,
		duration.Milliseconds(), err == nil)

	if err != nil {
		return executor.FailureError(route.Destination, route.Gateway, output, err)
	}

	switch kind {
	case types.CommandAdd:
		if err := m.reconciler.NoteAdded(route); err != nil {
			m.log.Warn("phantom cache not persisted", "error", err)
		}
	case types.CommandDelete:
		if err := m.reconciler.NoteDeleted(route.Destination); err != nil {
			m.log.Warn("phantom cache not persisted", "error", err)
		}
	}

	return nil
}

// Get runs the detail query for one destination and parses the result
func (m *Manager) Get(destination string) (*detail.Detail, error) {
	output, err := m.prober(destination)
	if err != nil {
		return nil, &types.RouteOperationError{
			ErrorType:   types.RouteErrNotFound,
			Destination: destination,
			Output:      output,
			Cause:       err,
		}
	}
	return detail.Parse(output)
}

// Find filters routes whose network overlaps the query destination
func (m *Manager) Find(routes []*types.Route, query string) []*types.Route {
	return entities.FilterOverlapping(routes, query)
}

// Conflicts reports existing routes whose network overlaps the candidate's
func (m *Manager) Conflicts(routes []*types.Route, candidate *types.Route) []*types.Route {
	return entities.FindConflicts(routes, candidate)
}

// Suspects exposes the current phantom cache contents
func (m *Manager) Suspects() []string {
	return m.reconciler.Suspects()
}

// Stats returns the accumulated operation metrics
func (m *Manager) Stats() *metrics.Metrics {
	return m.metrics
}
