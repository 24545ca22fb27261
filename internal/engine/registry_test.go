package engine

import "testing"

func newTestRegistry() *Registry {
	return NewRegistry(Deps{
		Geofence:  &fakeGeofence{},
		Notifier:  &fakeNotifier{},
		Publisher: &fakePublisher{},
		Occupancy: &fakeOccupancy{},
		Archiver:  &fakeArchiver{},
	}, Options{})
}

func TestForUserReturnsSameEngine(t *testing.T) {
	r := newTestRegistry()

	first := r.ForUser(7)
	second := r.ForUser(7)
	if first != second {
		t.Fatalf("expected the same engine for the same user")
	}
	if other := r.ForUser(8); other == first {
		t.Fatalf("expected a distinct engine per user")
	}
}

func TestLookupDoesNotCreateEngines(t *testing.T) {
	r := newTestRegistry()

	if _, ok := r.Lookup(7); ok {
		t.Fatalf("lookup must not materialize an engine")
	}

	created := r.ForUser(7)
	found, ok := r.Lookup(7)
	if !ok || found != created {
		t.Fatalf("lookup must return the engine created by ForUser")
	}
	if _, ok := r.Lookup(8); ok {
		t.Fatalf("lookup for an unseen user must miss")
	}
}
