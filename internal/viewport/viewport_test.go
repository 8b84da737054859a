package viewport

import (
	"context"
	"testing"
	"time"
)

func TestBoundsString(t *testing.T) {
	testCases := []struct {
		name   string
		bounds Bounds
		want   string
	}{
		{"dc area", Bounds{West: -77.2, South: 38.9, East: -77.0, North: 39.1}, "-77.2,38.9,-77,39.1"},
		{"integers", Bounds{West: -1, South: -2, East: 3, North: 4}, "-1,-2,3,4"},
		{"zero box", Bounds{}, "0,0,0,0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.bounds.String(); got != tc.want {
				t.Errorf("String() = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestParseBounds(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    Bounds
		wantErr bool
	}{
		{"canonical", "-77.2,38.9,-77.0,39.1", Bounds{West: -77.2, South: 38.9, East: -77.0, North: 39.1}, false},
		{"spaces", " -1, -2, 3, 4 ", Bounds{West: -1, South: -2, East: 3, North: 4}, false},
		{"too few edges", "-77.2,38.9,-77.0", Bounds{}, true},
		{"not a number", "a,b,c,d", Bounds{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseBounds(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseBounds(%q) error = %v; wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseBounds(%q) = %+v; want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestBoundsIsZero(t *testing.T) {
	if !(Bounds{}).IsZero() {
		t.Error("zero bounds should report IsZero")
	}
	if (Bounds{East: 1}).IsZero() {
		t.Error("non-zero bounds should not report IsZero")
	}
}

func TestTrackerDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracker := NewTracker()
	settled := make(chan Bounds, 4)
	clicks := make(chan Click, 4)
	tracker.OnSettled(func(b Bounds) { settled <- b })
	tracker.OnClick(func(c Click) { clicks <- c })
	go tracker.Run(ctx)

	want := Bounds{West: -77.2, South: 38.9, East: -77.0, North: 39.1}
	tracker.MoveEnd(want)
	tracker.Click(38.95, -77.1)

	select {
	case got := <-settled:
		if got != want {
			t.Errorf("settled bounds = %+v; want %+v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("no settled event dispatched")
	}

	select {
	case got := <-clicks:
		if got.Lat != 38.95 || got.Lon != -77.1 {
			t.Errorf("click = %+v; want 38.95,-77.1", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no click event dispatched")
	}

	if cur, ok := tracker.Current(); !ok || cur != want {
		t.Errorf("Current() = %+v, %v; want %+v, true", cur, ok, want)
	}
}

func TestTrackerCurrentBeforeFirstGesture(t *testing.T) {
	tracker := NewTracker()
	if _, ok := tracker.Current(); ok {
		t.Error("Current() should report false before any gesture")
	}
}
