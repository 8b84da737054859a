package selection

import (
	"sync"

	"github.com/mapsocial/mapsocial-go/internal/model"
)

// Controller tracks the single active location driving the content drawer.
// Two states: idle (no active location) and active. Picking while another
// location is active switches directly, discarding the previous drawer
// state; that data loss is accepted behavior.
type Controller struct {
	mu         sync.Mutex
	active     *model.Location
	onActivate []func(model.Location)
	onClose    []func()
}

func New() *Controller {
	return &Controller{}
}

// OnActivate registers a callback for every transition into the active
// state, including switches between two locations and fresh creates.
func (c *Controller) OnActivate(fn func(model.Location)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onActivate = append(c.onActivate, fn)
}

// OnClose registers a callback for the transition back to idle.
func (c *Controller) OnClose(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = append(c.onClose, fn)
}

// Pick makes loc the active location, from either state.
func (c *Controller) Pick(loc model.Location) {
	c.mu.Lock()
	l := loc
	c.active = &l
	subs := append([]func(model.Location){}, c.onActivate...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(loc)
	}
}

// Close returns to idle. It reports whether anything was active; closing
// while idle is a no-op.
func (c *Controller) Close() bool {
	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return false
	}
	c.active = nil
	subs := append([]func(){}, c.onClose...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return true
}

// Active returns the current selection, if any.
func (c *Controller) Active() (model.Location, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return model.Location{}, false
	}
	return *c.active, true
}
