package booking

import "sync"

// roomLocks hands out one mutex per room so the re-check + insert pair runs
// serially for a given room. This closes the check-then-act window that the
// bare re-validation policy only narrows.
type roomLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[int64]*sync.Mutex)}
}

func (r *roomLocks) get(roomID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[roomID] = l
	}
	return l
}
