package usecase

import (
	"sync"
	"time"

	"ticket-storefront/internal/booking"
	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/identity"
	"ticket-storefront/internal/seatgrid"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// viewState is everything one signed-in visitor has on screen. It lives in
// memory only and is dropped on sign-out or once the session expires.
type viewState struct {
	mu sync.Mutex

	expiresAt time.Time

	event *catalog.Event
	grid  *seatgrid.Grid
	total float64 // running total, fed by the grid's selection listener

	current  *booking.Attempt
	attempts map[string]*booking.Attempt

	ticket *booking.Booking
}

// closeSeatMap drops the grid and cancels a pending attempt. Callers hold mu.
func (v *viewState) closeSeatMap() {
	v.event = nil
	v.grid = nil
	v.total = 0
	v.cancelCurrent()
	v.attempts = nil
}

// cancelCurrent detaches the current attempt before cancelling it, so its
// resolution is treated as stale. Callers hold mu.
func (v *viewState) cancelCurrent() {
	if v.current == nil {
		return
	}
	a := v.current
	v.current = nil
	a.Cancel()
}

// pending reports whether a submission is still owed to this view. current
// is cleared only by settle and cancelCurrent, so an attempt that has
// resolved but not yet been applied still counts.
func (v *viewState) pending() bool {
	return v.current != nil
}

type viewStates struct {
	mu     sync.RWMutex
	states map[uuid.UUID]*viewState
	now    func() time.Time
	log    *zap.Logger
}

func newViewStates(log *zap.Logger) *viewStates {
	return &viewStates{
		states: make(map[uuid.UUID]*viewState),
		now:    time.Now,
		log:    log.With(zap.String("service", "view_state")),
	}
}

// get returns the visitor's state, creating an empty one on first use.
// Creating a state also evicts those whose session has expired.
func (r *viewStates) get(session *identity.Session) *viewState {
	r.mu.RLock()
	v, ok := r.states[session.ID]
	r.mu.RUnlock()
	if ok {
		return v
	}

	r.mu.Lock()
	if v, ok := r.states[session.ID]; ok {
		r.mu.Unlock()
		return v
	}
	v = &viewState{expiresAt: session.ExpiresAt}
	r.states[session.ID] = v
	expired := r.takeExpiredLocked()
	r.mu.Unlock()

	for id, old := range expired {
		r.close(id, old)
	}
	return v
}

// takeExpiredLocked removes and returns states whose session has expired.
// Callers hold r.mu for writing.
func (r *viewStates) takeExpiredLocked() map[uuid.UUID]*viewState {
	now := r.now()
	var expired map[uuid.UUID]*viewState
	for id, v := range r.states {
		if v.expiresAt.IsZero() || now.Before(v.expiresAt) {
			continue
		}
		if expired == nil {
			expired = make(map[uuid.UUID]*viewState)
		}
		expired[id] = v
		delete(r.states, id)
	}
	return expired
}

func (r *viewStates) drop(sessionID uuid.UUID) {
	r.mu.Lock()
	v, ok := r.states[sessionID]
	delete(r.states, sessionID)
	r.mu.Unlock()
	if !ok {
		return
	}
	r.close(sessionID, v)
}

func (r *viewStates) close(sessionID uuid.UUID, v *viewState) {
	v.mu.Lock()
	v.closeSeatMap()
	v.ticket = nil
	v.mu.Unlock()

	r.log.Debug("View state dropped", zap.String("session_id", sessionID.String()))
}

func (r *viewStates) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}
