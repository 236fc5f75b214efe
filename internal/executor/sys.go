package executor

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Sys is the seam to the host's process primitives. The engine and the
// reaper are written against it so their policies can be tested with
// scripted children.
type Sys interface {
	// LookPath resolves a program name against PATH.
	LookPath(name string) (string, error)

	// Spawn starts path with argv, the three files becoming the child's
	// descriptors 0, 1 and 2, and returns the child's pid. An exec
	// failure in the child surfaces here as an error; there is no
	// lingering child in that case.
	Spawn(path string, argv []string, files [3]*os.File) (int, error)

	// WaitAny blocks until any child terminates.
	WaitAny() (pid, status int, err error)

	// TryWaitAny polls for an already-terminated child; ok reports
	// whether one was found.
	TryWaitAny() (pid, status int, ok bool, err error)
}

type systemSys struct{}

func (systemSys) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (systemSys) Spawn(path string, argv []string, files [3]*os.File) (int, error) {
	attr := &syscall.ProcAttr{
		Env:   os.Environ(),
		Files: []uintptr{files[0].Fd(), files[1].Fd(), files[2].Fd()},
	}
	return syscall.ForkExec(path, argv, attr)
}

func (systemSys) WaitAny() (int, int, error) {
	var ws unix.WaitStatus
	for {
		pid, err := unix.Wait4(-1, &ws, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, 0, err
		}
		return pid, exitStatus(ws), nil
	}
}

func (systemSys) TryWaitAny() (int, int, bool, error) {
	var ws unix.WaitStatus
	for {
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, 0, false, err
		}
		if pid <= 0 {
			return 0, 0, false, nil
		}
		return pid, exitStatus(ws), true, nil
	}
}

func exitStatus(ws unix.WaitStatus) int {
	switch {
	case ws.Exited():
		return ws.ExitStatus()
	case ws.Signaled():
		return 128 + int(ws.Signal())
	default:
		return 0
	}
}
