package routing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/routepilot/routepilot/internal/config"
	"github.com/routepilot/routepilot/internal/logger"
	"github.com/routepilot/routepilot/internal/routing/types"
)

type fakeRunner struct {
	commands [][]string
	output   string
	err      error
}

func (r *fakeRunner) Run(args []string) (string, error) {
	r.commands = append(r.commands, args)
	return r.output, r.err
}

type fakeStore struct {
	destinations []string
}

func (s *fakeStore) Load() ([]string, error)             { return s.destinations, nil }
func (s *fakeStore) Save(destinations []string) error     { s.destinations = destinations; return nil }

const testListing = `Internet:
Destination        Gateway            Flags               Netif Expire
default            192.168.32.1       UGScg                 en0
10.1.2/24          192.168.32.1       UGSc                  en0
`

func testManager(runner *fakeRunner, store *fakeStore, outputs map[string]string) *Manager {
	lister := func() (string, error) { return testListing, nil }
	prober := func(destination string) (string, error) {
		if output, ok := outputs[destination]; ok {
			return output, nil
		}
		return "", fmt.Errorf("route: bad address: %s", destination)
	}
	return NewManager(config.NewConfig(), runner, lister, prober, store, logger.Discard())
}

func TestRefresh_MergesPhantoms(t *testing.T) {
	store := &fakeStore{destinations: []string{"198.51.100.0/24"}}
	outputs := map[string]string{
		"198.51.100.0/24": "    gateway: 127.0.0.1\n      flags: <UP,GATEWAY,BLACKHOLE>\n",
	}

	m := testManager(&fakeRunner{}, store, outputs)

	routes, err := m.Refresh()
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 3 {
		t.Fatalf("got %d routes, want 2 visible + 1 phantom", len(routes))
	}

	var phantom *types.Route
	for _, route := range routes {
		if route.Destination == "198.51.100.0/24" {
			phantom = route
		}
	}
	if phantom == nil {
		t.Fatal("phantom route missing from merged table")
	}
	if !phantom.IsDropRoute() {
		t.Errorf("phantom flags = %q", phantom.Flags)
	}
}

func TestApply_AddDropRouteUpdatesCache(t *testing.T) {
	runner := &fakeRunner{}
	store := &fakeStore{}
	m := testManager(runner, store, nil)

	route := &types.Route{
		Destination: "203.0.113.0/24",
		Gateway:     "127.0.0.1",
		Flags:       "SB",
	}

	if err := m.Apply(types.CommandAdd, route); err != nil {
		t.Fatal(err)
	}

	if len(runner.commands) != 1 {
		t.Fatalf("issued %d commands, want 1", len(runner.commands))
	}
	args := runner.commands[0]
	if args[0] != "add" {
		t.Errorf("verb = %q", args[0])
	}
	if len(store.destinations) != 1 || store.destinations[0] != "203.0.113.0/24" {
		t.Errorf("store = %v, want the blackhole destination", store.destinations)
	}

	// Deleting the route prunes it from the persisted cache
	if err := m.Apply(types.CommandDelete, route); err != nil {
		t.Fatal(err)
	}
	if len(store.destinations) != 0 {
		t.Errorf("store after delete = %v, want empty", store.destinations)
	}
}

func TestApply_ValidationFailureNeverRuns(t *testing.T) {
	runner := &fakeRunner{}
	m := testManager(runner, &fakeStore{}, nil)

	route := &types.Route{Destination: "10.1.2.0/24", Gateway: "127.0.0.1", Flags: "RB"}
	if err := m.Apply(types.CommandAdd, route); err == nil {
		t.Fatal("conflicting flags passed Apply")
	}
	if len(runner.commands) != 0 {
		t.Errorf("invalid route reached the executor: %v", runner.commands)
	}
}

func TestApply_ClassifiesExecutionFailure(t *testing.T) {
	runner := &fakeRunner{
		output: "execution error: User canceled. (-128)",
		err:    errors.New("exit status 1"),
	}
	m := testManager(runner, &fakeStore{}, nil)

	route := &types.Route{Destination: "10.1.2.0/24", Gateway: "192.168.1.1"}
	err := m.Apply(types.CommandAdd, route)
	if err == nil {
		t.Fatal("runner failure not surfaced")
	}

	var roe *types.RouteOperationError
	if !errors.As(err, &roe) {
		t.Fatalf("error = %T, want RouteOperationError", err)
	}
	if roe.ErrorType != types.RouteErrCancelled {
		t.Errorf("error type = %s, want Cancelled", roe.ErrorType)
	}
	if roe.Output != runner.output {
		t.Errorf("verbatim output lost: %q", roe.Output)
	}
}

func TestApply_FailedAddDoesNotTouchCache(t *testing.T) {
	runner := &fakeRunner{output: "permission denied", err: errors.New("exit status 1")}
	store := &fakeStore{}
	m := testManager(runner, store, nil)

	route := &types.Route{Destination: "203.0.113.0/24", Gateway: "127.0.0.1", Flags: "B"}
	if err := m.Apply(types.CommandAdd, route); err == nil {
		t.Fatal("expected failure")
	}
	if len(store.destinations) != 0 {
		t.Errorf("failed add cached a destination: %v", store.destinations)
	}
}

func TestFindAndConflicts(t *testing.T) {
	m := testManager(&fakeRunner{}, &fakeStore{}, nil)

	routes, err := m.Refresh()
	if err != nil {
		t.Fatal(err)
	}

	matched := m.Find(routes, "10.1.2.0/24")
	if len(matched) != 1 || matched[0].Destination != "10.1.2/24" {
		t.Errorf("Find = %v", matched)
	}

	conflicts := m.Conflicts(routes, &types.Route{Destination: "10.1.2.0/25"})
	if len(conflicts) != 1 || conflicts[0].Destination != "10.1.2/24" {
		t.Errorf("Conflicts = %v", conflicts)
	}
}

func TestGet_ParsesDetail(t *testing.T) {
	outputs := map[string]string{
		"10.1.2.3": "    gateway: 192.168.32.1\n  interface: en0\n      flags: <UP,GATEWAY,DONE,STATIC>\n",
	}
	m := testManager(&fakeRunner{}, &fakeStore{}, outputs)

	d, err := m.Get("10.1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	if d.Gateway != "192.168.32.1" || d.Flags != "S" {
		t.Errorf("detail = %+v", d)
	}

	if _, err := m.Get("203.0.113.9"); err == nil {
		t.Error("missing destination did not error")
	}
}
