package window

import (
	"fmt"
	"sync"

	"github.com/litecube/litecube/internal/platform"
)

// DefaultClassName is the window class every Window uses unless overridden.
const DefaultClassName = "LiteCubeWindow"

// windowClass is the process-wide registration of one class name in one class
// scope, together with the registry that maps its handles back to Windows.
type windowClass struct {
	name    string
	backend platform.Backend

	mu         sync.Mutex
	registered bool

	owners *platform.Registry[*Window]
}

// classKey identifies a class record. The scope is the backend itself unless
// the backend reports a wider one through platform.ClassScoper.
type classKey struct {
	scope any
	name  string
}

var classes = struct {
	mu sync.Mutex
	m  map[classKey]*windowClass
}{m: make(map[classKey]*windowClass)}

func scopeOf(backend platform.Backend) any {
	if s, ok := backend.(platform.ClassScoper); ok {
		return s.ClassScope()
	}
	return backend
}

// classFor returns the shared class record for name on backend.
func classFor(backend platform.Backend, name string) *windowClass {
	classes.mu.Lock()
	defer classes.mu.Unlock()

	key := classKey{scope: scopeOf(backend), name: name}
	c, ok := classes.m[key]
	if !ok {
		c = &windowClass{
			name:    name,
			backend: backend,
			owners:  platform.NewRegistry[*Window](),
		}
		classes.m[key] = c
	}
	return c
}

// ReleaseBackend drops the class records kept for backend. Call it once every
// window opened on backend is closed and the backend is no longer used.
// Records of a shared scope stay, since their native classes outlive any one
// backend.
func ReleaseBackend(backend platform.Backend) {
	classes.mu.Lock()
	defer classes.mu.Unlock()

	for key := range classes.m {
		if key.scope == any(backend) {
			delete(classes.m, key)
		}
	}
}

// register registers the class with the backend once. A failed attempt
// leaves the class unregistered so a later Open can retry.
func (c *windowClass) register() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registered {
		return nil
	}
	err := c.backend.RegisterClass(platform.Class{
		Name:     c.name,
		Dispatch: c.dispatch,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRegisterClass, c.name, err)
	}
	c.registered = true
	return nil
}

func (c *windowClass) isRegistered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registered
}

// dispatch is the class callback. It binds new handles to the Window that
// reserved the creation token and forwards everything else to the owning
// Window's event handler.
func (c *windowClass) dispatch(msg platform.Message) platform.Result {
	if msg.ID == platform.MessageCreate {
		if _, ok := c.owners.Attach(platform.Token(msg.LParam), msg.Handle); ok {
			return platform.Handled
		}
		return platform.Unhandled
	}

	w, ok := c.owners.Lookup(msg.Handle)
	if !ok {
		return platform.Unhandled
	}
	return w.handleEvent(Event{
		Message: msg.ID,
		WParam:  msg.WParam,
		LParam:  msg.LParam,
	})
}
