package viewport

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Bounds is a geographic bounding box. The canonical wire encoding is
// "west,south,east,north", matching the /locations bbox query parameter.
type Bounds struct {
	West  float64
	South float64
	East  float64
	North float64
}

func (b Bounds) String() string {
	return fmt.Sprintf("%s,%s,%s,%s",
		strconv.FormatFloat(b.West, 'f', -1, 64),
		strconv.FormatFloat(b.South, 'f', -1, 64),
		strconv.FormatFloat(b.East, 'f', -1, 64),
		strconv.FormatFloat(b.North, 'f', -1, 64))
}

// IsZero reports the initial "no box yet" state. A zero box must never be
// sent as a bbox filter.
func (b Bounds) IsZero() bool {
	return b == Bounds{}
}

// ParseBounds parses the canonical west,south,east,north encoding.
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, errors.Errorf("bbox %q: want 4 comma-separated values, got %d", s, len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, errors.Wrapf(err, "bbox %q: edge %d", s, i)
		}
		vals[i] = v
	}
	return Bounds{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}, nil
}

// Click is a map click at a coordinate, used to start location creation.
type Click struct {
	Lat float64
	Lon float64
}

// Tracker turns raw map-widget callbacks into a serialized event stream.
// MoveEnd fires once per settled pan/zoom gesture, never continuously
// during a drag; the map widget is responsible for that coalescing.
type Tracker struct {
	moves  chan Bounds
	clicks chan Click

	mu        sync.Mutex
	onSettled []func(Bounds)
	onClick   []func(Click)
	current   Bounds
	hasBounds bool
}

func NewTracker() *Tracker {
	return &Tracker{
		moves:  make(chan Bounds, 8),
		clicks: make(chan Click, 8),
	}
}

// OnSettled registers a subscriber for settled-viewport events. Subscribers
// are invoked from the Run loop, one event at a time.
func (t *Tracker) OnSettled(fn func(Bounds)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettled = append(t.onSettled, fn)
}

// OnClick registers a subscriber for map-click events.
func (t *Tracker) OnClick(fn func(Click)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClick = append(t.onClick, fn)
}

// MoveEnd reports that the viewport settled at b.
func (t *Tracker) MoveEnd(b Bounds) {
	t.moves <- b
}

// Click reports a map click.
func (t *Tracker) Click(lat, lon float64) {
	t.clicks <- Click{Lat: lat, Lon: lon}
}

// Current returns the last settled bounds, if any gesture has completed.
func (t *Tracker) Current() (Bounds, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.hasBounds
}

// Run dispatches events until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	for {
		select {
		case b := <-t.moves:
			t.mu.Lock()
			t.current = b
			t.hasBounds = true
			subs := append([]func(Bounds){}, t.onSettled...)
			t.mu.Unlock()
			for _, fn := range subs {
				fn(b)
			}
		case c := <-t.clicks:
			t.mu.Lock()
			subs := append([]func(Click){}, t.onClick...)
			t.mu.Unlock()
			for _, fn := range subs {
				fn(c)
			}
		case <-ctx.Done():
			return
		}
	}
}
