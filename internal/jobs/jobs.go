package jobs

import (
	"fmt"
	"io"
)

// DefaultCapacity matches the largest number of children the host will
// report waiting for at once.
const DefaultCapacity = 64

// Registry is the table of outstanding background pids. It is owned by
// one shell session and only ever touched from the engine goroutine, so
// there is no locking. A pid is added when the engine backgrounds a
// spawn and removed when the reaper sees it terminate.
type Registry struct {
	pids     []int
	capacity int
}

func New(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{capacity: capacity}
}

// Add records a background pid. When the table is full the pid is
// dropped silently: the job still runs, but its completion will never be
// reported. Documented limitation, not an error.
func (r *Registry) Add(pid int) {
	if len(r.pids) >= r.capacity {
		return
	}
	r.pids = append(r.pids, pid)
}

// Remove deletes pid and reports whether it was present.
func (r *Registry) Remove(pid int) bool {
	for i, p := range r.pids {
		if p == pid {
			r.pids = append(r.pids[:i], r.pids[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) Contains(pid int) bool {
	for _, p := range r.pids {
		if p == pid {
			return true
		}
	}
	return false
}

// Pids returns the outstanding pids in insertion order.
func (r *Registry) Pids() []int {
	out := make([]int, len(r.pids))
	copy(out, r.pids)
	return out
}

func (r *Registry) Len() int {
	return len(r.pids)
}

// Print writes one pid per line, the output of the jobs builtin.
func (r *Registry) Print(w io.Writer) {
	for _, pid := range r.pids {
		fmt.Fprintf(w, "%d\n", pid)
	}
}
