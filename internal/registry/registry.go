package registry

import (
	"context"
	"log"
	"sync"

	"github.com/mapsocial/mapsocial-go/internal/api"
	"github.com/mapsocial/mapsocial-go/internal/model"
	"github.com/mapsocial/mapsocial-go/internal/viewport"
)

// LocationAPI is the slice of the gateway client the registry needs.
type LocationAPI interface {
	Locations(ctx context.Context, q *api.LocationsQuery) ([]model.Location, error)
	CreateLocation(ctx context.Context, input model.CreateLocationRequest) (*model.Location, error)
}

// MarkerSink is where reconciled markers land: the map widget in the real
// app, a recording fake in tests.
type MarkerSink interface {
	ClearMarkers()
	PlaceMarker(loc model.Location)
}

// Registry keeps the displayed location set consistent with the viewport.
// Each refresh replaces the held list wholesale; old markers are cleared
// and the new list is placed 1:1. A superseded refresh is never aborted,
// but its response is discarded: every refresh carries a monotonically
// increasing sequence number and only the latest issued one may apply
// (last-request-wins).
type Registry struct {
	api     LocationAPI
	markers MarkerSink

	// Kind optionally narrows every refresh to one location category.
	Kind string

	mu        sync.Mutex
	seq       uint64
	locations []model.Location
	onCreate  []func(model.Location)
}

func New(client LocationAPI, markers MarkerSink) *Registry {
	return &Registry{api: client, markers: markers}
}

// OnCreate registers a callback fired after a created location has been
// merged into the displayed set. The selection controller uses this to
// open the drawer for a fresh pin.
func (r *Registry) OnCreate(fn func(model.Location)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCreate = append(r.onCreate, fn)
}

// Refresh fetches the locations intersecting bounds (unscoped when bounds
// is nil or still the initial zero box) and reconciles the marker set.
// Failures are logged and swallowed; the previous markers stay in place.
func (r *Registry) Refresh(ctx context.Context, bounds *viewport.Bounds) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	q := &api.LocationsQuery{Kind: r.Kind}
	if bounds != nil && !bounds.IsZero() {
		q.Bbox = bounds.String()
	}

	locs, err := r.api.Locations(ctx, q)
	if err != nil {
		refreshesTotal.WithLabelValues("error").Inc()
		log.Printf("[Registry]: refresh failed, keeping previous markers: %v", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.seq {
		// A newer refresh was issued while this one was in flight.
		staleResponsesDropped.Inc()
		refreshesTotal.WithLabelValues("stale").Inc()
		return
	}
	r.locations = locs
	r.markers.ClearMarkers()
	for _, loc := range locs {
		r.markers.PlaceMarker(loc)
	}
	refreshesTotal.WithLabelValues("ok").Inc()
}

// Create creates a location and merges it into the displayed set
// immediately, without waiting for the next viewport refresh. The caller
// must surface api.ErrAuthenticationRequired as a sign-in prompt; no
// network call happens in that case.
func (r *Registry) Create(ctx context.Context, input model.CreateLocationRequest) (*model.Location, error) {
	loc, err := r.api.CreateLocation(ctx, input)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.locations = append(r.locations, *loc)
	subs := append([]func(model.Location){}, r.onCreate...)
	r.mu.Unlock()

	r.markers.PlaceMarker(*loc)
	locationsCreated.Inc()
	for _, fn := range subs {
		fn(*loc)
	}
	return loc, nil
}

// Locations returns a copy of the currently displayed set.
func (r *Registry) Locations() []model.Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Location, len(r.locations))
	copy(out, r.locations)
	return out
}
