package phantom

import (
	"fmt"
	"sort"
	"testing"

	"github.com/routepilot/routepilot/internal/logger"
	"github.com/routepilot/routepilot/internal/routing/types"
)

type memoryStore struct {
	destinations []string
	saves        int
	loadErr      error
}

func (s *memoryStore) Load() ([]string, error) {
	return s.destinations, s.loadErr
}

func (s *memoryStore) Save(destinations []string) error {
	s.destinations = destinations
	s.saves++
	return nil
}

func detailOutput(gw, flags string) string {
	return fmt.Sprintf(`    gateway: %s
  interface: en0
      flags: <%s>
`, gw, flags)
}

func fakeProber(outputs map[string]string) Prober {
	return func(destination string) (string, error) {
		output, ok := outputs[destination]
		if !ok {
			return "", fmt.Errorf("route: bad address: %s", destination)
		}
		return output, nil
	}
}

func TestReconcile_ConfirmsDropRoutes(t *testing.T) {
	store := &memoryStore{destinations: []string{
		"10.1.1.0/24", // visible, must be skipped
		"10.2.0.0/16", // hidden blackhole, must be kept
		"10.3.0.0/16", // stale entry, flags lost drop semantics
		"10.4.0.0/16", // no longer resolvable
	}}

	outputs := map[string]string{
		"10.2.0.0/16": detailOutput("127.0.0.1", "UP,GATEWAY,DONE,BLACKHOLE"),
		"10.3.0.0/16": detailOutput("192.168.1.1", "UP,GATEWAY,DONE,STATIC"),
	}

	r := NewReconciler(store, fakeProber(outputs), 4, logger.Discard())

	visible := []*types.Route{
		{Destination: "10.1.1.0/24", Gateway: "192.168.1.1", Flags: "UGSc", Interface: "en0"},
		{Destination: "default", Gateway: "192.168.1.1", Flags: "UGScg", Interface: "en0"},
	}

	phantoms := r.Reconcile(visible, nil)

	if len(phantoms) != 1 {
		t.Fatalf("got %d phantoms, want 1: %v", len(phantoms), phantoms)
	}
	p := phantoms[0]
	if p.Destination != "10.2.0.0/16" {
		t.Errorf("phantom destination = %s, want 10.2.0.0/16", p.Destination)
	}
	if !p.HasFlag(types.FlagBlackhole) {
		t.Errorf("phantom flags = %q, want blackhole", p.Flags)
	}
	if p.Gateway != "127.0.0.1" {
		t.Errorf("phantom gateway = %s", p.Gateway)
	}
}

func TestReconcile_VisibleShorthandSkipsSuspect(t *testing.T) {
	store := &memoryStore{destinations: []string{"10.2.0.0/16"}}
	probed := false
	prober := func(destination string) (string, error) {
		probed = true
		return detailOutput("127.0.0.1", "UP,GATEWAY,BLACKHOLE"), nil
	}

	r := NewReconciler(store, prober, 2, logger.Discard())

	// The listing abbreviates the suspect network; canonical keys must match
	visible := []*types.Route{{Destination: "10.2", Gateway: "192.168.1.1"}}
	if phantoms := r.Reconcile(visible, nil); len(phantoms) != 0 {
		t.Errorf("visible suspect still reported: %v", phantoms)
	}
	if probed {
		t.Error("visible suspect was probed")
	}
}

func TestReconcile_CallerSuppliedProbeList(t *testing.T) {
	store := &memoryStore{}
	outputs := map[string]string{
		"192.0.2.1": detailOutput("127.0.0.1", "UP,HOST,REJECT"),
	}

	r := NewReconciler(store, fakeProber(outputs), 2, logger.Discard())

	phantoms := r.Reconcile(nil, []string{"192.0.2.1"})
	if len(phantoms) != 1 || phantoms[0].Destination != "192.0.2.1" {
		t.Fatalf("probe-list phantom missing: %v", phantoms)
	}
}

func TestReconcile_UnreadableStoreStartsEmpty(t *testing.T) {
	store := &memoryStore{loadErr: fmt.Errorf("corrupt state")}
	r := NewReconciler(store, fakeProber(nil), 2, logger.Discard())

	if got := len(r.Suspects()); got != 0 {
		t.Errorf("suspects = %d, want 0", got)
	}
	if phantoms := r.Reconcile(nil, nil); phantoms != nil {
		t.Errorf("empty cache produced phantoms: %v", phantoms)
	}
}

func TestNoteAddedAndDeleted(t *testing.T) {
	store := &memoryStore{}
	r := NewReconciler(store, fakeProber(nil), 2, logger.Discard())

	if err := r.NoteAdded(&types.Route{Destination: "10.5.0.0/16", Flags: "SB"}); err != nil {
		t.Fatal(err)
	}
	if err := r.NoteAdded(&types.Route{Destination: "10.6.0.0/16", Flags: "S"}); err != nil {
		t.Fatal(err)
	}

	suspects := r.Suspects()
	sort.Strings(suspects)
	if len(suspects) != 1 || suspects[0] != "10.5.0.0/16" {
		t.Errorf("suspects = %v, want only the drop route", suspects)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}

	// Deletion clears the cache entry regardless of route flags
	if err := r.NoteDeleted("10.5.0.0/16"); err != nil {
		t.Fatal(err)
	}
	if len(r.Suspects()) != 0 {
		t.Errorf("suspects after delete = %v", r.Suspects())
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want 2", store.saves)
	}

	// Deleting an uncached destination is a no-op
	if err := r.NoteDeleted("172.16.0.0/12"); err != nil {
		t.Fatal(err)
	}
	if store.saves != 2 {
		t.Errorf("saves after no-op delete = %d, want 2", store.saves)
	}
}
