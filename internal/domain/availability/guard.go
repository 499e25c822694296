package availability

import (
	"sync"

	"seaberth/internal/domain/boats"
)

// Guard serializes booking creation per boat inside the process. Together with
// the repository's conditional insert it closes the check-then-act window
// between two concurrent creations for the same boat.
type Guard struct {
	mu    sync.Mutex
	boats map[boats.BoatID]*sync.Mutex
}

func NewGuard() *Guard {
	return &Guard{boats: make(map[boats.BoatID]*sync.Mutex)}
}

// Lock acquires the per-boat mutex and returns its release function.
func (g *Guard) Lock(id boats.BoatID) func() {
	g.mu.Lock()
	m, ok := g.boats[id]
	if !ok {
		m = &sync.Mutex{}
		g.boats[id] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m.Unlock
}
