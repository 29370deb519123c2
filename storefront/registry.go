package storefront

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Factory boots the page for a new session.
type Factory func(ctx context.Context, sessionID string) *Page

type entry struct {
	page     *Page
	lastSeen time.Time
}

// Registry keeps one page per session and evicts pages idle longer than the
// TTL.
type Registry struct {
	mu      sync.Mutex
	pages   map[string]*entry
	factory Factory
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewRegistry(factory Factory, ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		pages:   make(map[string]*entry),
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// Get returns the session's page, booting it on first use. Booting happens
// outside the registry lock; when two requests race to boot the same
// session, the first stored page wins and the other is closed.
func (r *Registry) Get(ctx context.Context, sessionID string) *Page {
	if page, ok := r.lookup(sessionID); ok {
		return page
	}

	booted := r.factory(ctx, sessionID)

	r.mu.Lock()
	if e, ok := r.pages[sessionID]; ok {
		e.lastSeen = r.now()
		r.mu.Unlock()
		booted.Close()
		return e.page
	}
	r.pages[sessionID] = &entry{page: booted, lastSeen: r.now()}
	r.mu.Unlock()

	r.logger.Debug("session page booted", zap.String("session_id", sessionID))
	return booted
}

func (r *Registry) lookup(sessionID string) (*Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pages[sessionID]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.page, true
}

// Len reports the number of live pages.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Sweep closes and forgets pages idle longer than the TTL. It returns the
// number evicted.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	var idle []*Page
	cutoff := r.now().Add(-r.ttl)
	for id, e := range r.pages {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.page)
			delete(r.pages, id)
		}
	}
	r.mu.Unlock()

	for _, page := range idle {
		page.Close()
	}
	if len(idle) > 0 {
		r.logger.Info("evicted idle session pages", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run sweeps every interval until ctx is done, then closes every page.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	pages := r.pages
	r.pages = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range pages {
		e.page.Close()
	}
}
