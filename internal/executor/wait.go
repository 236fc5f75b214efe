package executor

import "fmt"

// WaitForeground blocks until the given child terminates and returns its
// exit status. Other children that terminate first must be outstanding
// background jobs: registered ones are removed and announced, unknown
// ones (a pipe side that finished before its registration) are dropped.
func (e *Executor) WaitForeground(pid int) int {
	for {
		got, status, err := e.sys.WaitAny()
		if err != nil {
			// No children left to report; the target is long gone.
			return 1
		}
		if got == pid {
			return status
		}
		e.reapBackground(got, status)
	}
}

// ReapZombies drains every already-terminated child without blocking.
// The shell runs this after each interactive line so completion notices
// are flushed before the next prompt, without stalling on jobs that are
// still running.
func (e *Executor) ReapZombies() {
	for {
		pid, status, ok, err := e.sys.TryWaitAny()
		if err != nil || !ok {
			return
		}
		e.reapBackground(pid, status)
	}
}

func (e *Executor) reapBackground(pid, status int) {
	if e.jobs.Remove(pid) {
		fmt.Fprintf(e.out, "[bg %d] exited with status %d\n", pid, status)
	}
}
