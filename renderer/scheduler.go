package renderer

import (
	"errors"
	"sync"

	"github.com/richinsley/hexwater/controls"
)

// Scheduler renders once for every accepted control change, synchronously,
// before the setter that made the change returns. Changes are never
// coalesced: N changes produce N renders.
//
// A change made while a render is in progress, for example from a render
// hook, is queued and rendered as soon as the current render finishes, so
// at most one render is ever in flight.
type Scheduler struct {
	r   *Renderer
	reg *controls.Registry

	hooks     []func(Surface, error)
	rendering bool
	queued    int
	renders   int
	lastErr   error

	mu    sync.Mutex
	posts []posted
}

type posted struct {
	id, raw string
}

// NewScheduler subscribes to reg and renders through r.
func NewScheduler(r *Renderer, reg *controls.Registry) *Scheduler {
	s := &Scheduler{r: r, reg: reg}
	reg.Subscribe(s.changed)
	return s
}

// OnRender registers a hook called after every render with its result.
func (s *Scheduler) OnRender(hook func(Surface, error)) {
	s.hooks = append(s.hooks, hook)
}

// Start performs the initial render.
func (s *Scheduler) Start() error {
	s.run()
	return s.lastErr
}

// Renders returns the number of completed renders.
func (s *Scheduler) Renders() int { return s.renders }

// Err returns the result of the most recent render.
func (s *Scheduler) Err() error { return s.lastErr }

// Post queues a change for the rendering thread. It is safe to call from
// any goroutine; the change is applied by the next Drain.
func (s *Scheduler) Post(id, raw string) {
	s.mu.Lock()
	s.posts = append(s.posts, posted{id: id, raw: raw})
	s.mu.Unlock()
}

// Drain applies all posted changes in order through the registry, which
// renders once per accepted change. It returns the number of changes
// applied and the errors of those that were rejected.
func (s *Scheduler) Drain() (int, error) {
	s.mu.Lock()
	posts := s.posts
	s.posts = nil
	s.mu.Unlock()

	var errs []error
	applied := 0
	for _, p := range posts {
		if err := s.reg.Set(p.id, p.raw); err != nil {
			errs = append(errs, err)
			continue
		}
		applied++
	}
	return applied, errors.Join(errs...)
}

// Close unsubscribes from the registry.
func (s *Scheduler) Close() {
	s.reg.Subscribe(nil)
}

func (s *Scheduler) changed(string) {
	if s.rendering {
		s.queued++
		return
	}
	s.run()
}

func (s *Scheduler) run() {
	s.rendering = true
	defer func() { s.rendering = false }()
	for {
		surf, err := s.r.Render()
		s.renders++
		s.lastErr = err
		for _, hook := range s.hooks {
			hook(surf, err)
		}
		if s.queued == 0 {
			return
		}
		s.queued--
	}
}
