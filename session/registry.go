package session

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrFull is returned by Admit when the registry is at its player cap.
var ErrFull = errors.New("session: registry is full")

// Registry is the server-wide set of sessions. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	byID map[uint64]*Session
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[uint64]*Session)}
}

// Register adds s without any checks. The returned handle is s itself.
func (r *Registry) Register(s *Session) *Session {
	r.mu.Lock()
	r.byID[s.ID] = s
	r.mu.Unlock()
	return s
}

// Admit adds s unless that would take the registry past limit sessions. A
// session with the same UUID, or failing that the same name, is taken out in
// the same step and returned as prev; replacing it never counts against the limit.
// limit <= 0 means no cap. The caller disconnects prev.
func (r *Registry) Admit(s *Session, limit int) (prev *Session, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.byID {
		if o.UUID == s.UUID {
			prev = o
			break
		}
	}
	if prev == nil {
		for _, o := range r.byID {
			if strings.EqualFold(o.Name, s.Name) {
				prev = o
				break
			}
		}
	}

	if prev == nil && limit > 0 && len(r.byID) >= limit {
		return nil, ErrFull
	}
	if prev != nil {
		delete(r.byID, prev.ID)
	}
	r.byID[s.ID] = s
	return prev, nil
}

// FindByName looks a session up by player name, ignoring case.
func (r *Registry) FindByName(name string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.byID {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

func (r *Registry) FindByUUID(id uuid.UUID) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.byID {
		if s.UUID == id {
			return s
		}
	}
	return nil
}

func (r *Registry) FindByID(id uint64) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// RemoveByID drops the session and clears its connected flag. It returns the
// removed session, or nil when id was not registered.
func (r *Registry) RemoveByID(id uint64) *Session {
	r.mu.Lock()
	s, ok := r.byID[id]
	delete(r.byID, id)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	s.MarkDisconnected()
	return s
}

// All returns a snapshot of the registered sessions, oldest first.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	all := make([]*Session, 0, len(r.byID))
	for _, s := range r.byID {
		all = append(all, s)
	}
	r.mu.RUnlock()

	slices.SortFunc(all, func(a, b *Session) int { return cmp.Compare(a.ID, b.ID) })
	return all
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
