package presence

import "sync"

// Registry is the single piece of shared mutable state touched by concurrent
// connection callbacks: a map from user id to that user's open connection ids.
// A user is online while at least one connection claims them. Tracking
// individual connection ids means a disconnect from a superseded connection
// cannot knock a reconnected user offline.
type Registry struct {
	mu    sync.RWMutex
	conns map[string][]string // userID -> connection ids, oldest first
	order []string            // userIDs in registration order
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string][]string),
	}
}

// Register records connID as an open connection for userID. Registering an
// already-known connection id is a no-op.
func (r *Registry) Register(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, known := r.conns[userID]
	for _, id := range ids {
		if id == connID {
			return
		}
	}
	r.conns[userID] = append(ids, connID)
	if !known {
		r.order = append(r.order, userID)
	}
}

// Unregister removes connID from userID's connection set and reports whether
// the user went offline as a result. Unknown pairs report false, so a stale
// disconnect from a superseded connection leaves the user online.
func (r *Registry) Unregister(userID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, ok := r.conns[userID]
	if !ok {
		return false
	}
	for i, id := range ids {
		if id == connID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) > 0 {
		r.conns[userID] = ids
		return false
	}

	delete(r.conns, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Snapshot returns the online user ids in registration order. Clients treat
// the result as a set; the order carries no meaning.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := make([]string, len(r.order))
	copy(online, r.order)
	return online
}

// Primary returns the newest connection id for userID: with several devices
// connected the latest one is treated as the reachable endpoint for
// directed delivery.
func (r *Registry) Primary(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.conns[userID]
	if len(ids) == 0 {
		return "", false
	}
	return ids[len(ids)-1], true
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns[userID]) > 0
}
