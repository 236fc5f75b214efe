package executor

import (
	"fmt"
	"io"
	"os"

	"psh/internal/ast"
	"psh/internal/builtin"
	"psh/internal/jobs"
)

// Executor walks a command tree, spawning one OS process per exec node
// and wiring pipes and redirections between them. It is single-threaded:
// all concurrency comes from the spawned processes themselves, and the
// only suspension point is the blocking wait on a foreground child.
type Executor struct {
	builtins *builtin.Manager
	jobs     *jobs.Registry
	sys      Sys

	// selfPath is re-executed with -c to run compound pipe sides
	// (parenthesized groups, builtins) as a single OS process.
	selfPath string

	out    io.Writer
	errOut io.Writer
}

func New(builtins *builtin.Manager, registry *jobs.Registry) *Executor {
	self, _ := os.Executable()
	return &Executor{
		builtins: builtins,
		jobs:     registry,
		sys:      systemSys{},
		selfPath: self,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

// stdio is the descriptor context threaded through the tree walk.
// Redirections and pipes replace slots for a subtree only; the session's
// own descriptors are never rewired.
type stdio struct {
	in  *os.File
	out *os.File
	err *os.File
}

func defaultStdio() stdio {
	return stdio{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// Execute runs one parsed line to completion and returns the exit status
// of the last foreground command.
func (e *Executor) Execute(cmd *ast.Command) int {
	return e.run(cmd, defaultStdio())
}

func (e *Executor) run(cmd *ast.Command, std stdio) int {
	if cmd == nil {
		return 0
	}

	switch cmd.Type {
	case ast.CommandExec:
		return e.runExec(cmd.Exec, std)

	case ast.CommandRedirect:
		child, redirected, cleanup, ok := e.applyRedirects(cmd, std)
		if !ok {
			// open failed: this node aborts, siblings still run.
			return 1
		}
		defer cleanup()
		return e.run(child, redirected)

	case ast.CommandPipe:
		return e.runPipe(cmd.Pipe, std)

	case ast.CommandList:
		e.run(cmd.List.Left, std)
		return e.run(cmd.List.Right, std)

	case ast.CommandBack:
		cmd.Back.Cmd.MarkBackground()
		return e.run(cmd.Back.Cmd, std)

	default:
		e.fatal("runcmd: unknown command type")
		return 1
	}
}

func (e *Executor) runExec(ec *ast.ExecCommand, std stdio) int {
	if len(ec.Argv) == 0 {
		return 1
	}

	if fn := e.builtins.Get(ec.Argv[0]); fn != nil {
		return fn(ec.Argv[1:], std.out, std.err)
	}

	pid, ok := e.spawn(ec.Argv, std)
	if !ok {
		return 1
	}

	if ec.Background {
		e.jobs.Add(pid)
		fmt.Fprintf(e.out, "[%d]\n", pid)
		return 0
	}

	return e.WaitForeground(pid)
}

func (e *Executor) runPipe(pc *ast.PipeCommand, std stdio) int {
	pr, pw, err := os.Pipe()
	if err != nil {
		e.fatal("pipe")
	}

	leftPids := e.start(pc.Left, stdio{in: std.in, out: pw, err: std.err})
	rightPids := e.start(pc.Right, stdio{in: pr, out: std.out, err: std.err})

	// Both sides hold their ends now; the parent copies must go or the
	// reader never sees EOF.
	pw.Close()
	pr.Close()

	pids := make([]int, 0, len(leftPids)+len(rightPids))
	pids = append(pids, leftPids...)
	pids = append(pids, rightPids...)

	// The pipe follows a single background decision: the left side's
	// exec flag, or the right side's when the left is not an exec node.
	background := false
	if l := pc.Left; l.Type == ast.CommandExec {
		background = l.Exec.Background
	} else if r := pc.Right; r.Type == ast.CommandExec {
		background = r.Exec.Background
	}

	if background {
		for _, pid := range pids {
			e.jobs.Add(pid)
		}
		if len(pids) > 0 {
			fmt.Fprintf(e.out, "[%d]\n", pids[0])
		}
		return 0
	}

	status := 0
	for _, pid := range pids {
		status = e.WaitForeground(pid)
	}
	return status
}

// start launches a pipe side without waiting and returns the spawned
// pids in left-to-right order. Plain exec nodes (redirections included)
// spawn directly; anything that has to be one process with its own
// control flow, a grouped sequence or a builtin, runs as a re-exec'd
// subshell.
func (e *Executor) start(cmd *ast.Command, std stdio) []int {
	if cmd == nil {
		return nil
	}

	switch cmd.Type {
	case ast.CommandExec:
		ec := cmd.Exec
		if len(ec.Argv) == 0 {
			return nil
		}
		if e.builtins.Exists(ec.Argv[0]) {
			return e.startSubshell(cmd, std)
		}
		pid, ok := e.spawn(ec.Argv, std)
		if !ok {
			return nil
		}
		return []int{pid}

	case ast.CommandRedirect:
		child, redirected, cleanup, ok := e.applyRedirects(cmd, std)
		if !ok {
			return nil
		}
		pids := e.start(child, redirected)
		cleanup()
		return pids

	case ast.CommandPipe:
		pr, pw, err := os.Pipe()
		if err != nil {
			e.fatal("pipe")
		}
		left := e.start(cmd.Pipe.Left, stdio{in: std.in, out: pw, err: std.err})
		right := e.start(cmd.Pipe.Right, stdio{in: pr, out: std.out, err: std.err})
		pw.Close()
		pr.Close()
		return append(left, right...)

	default:
		return e.startSubshell(cmd, std)
	}
}

func (e *Executor) startSubshell(cmd *ast.Command, std stdio) []int {
	if e.selfPath == "" {
		fmt.Fprintf(e.errOut, "exec subshell failed\n")
		return nil
	}
	argv := []string{e.selfPath, "-c", cmd.String()}
	pid, err := e.sys.Spawn(e.selfPath, argv, [3]*os.File{std.in, std.out, std.err})
	if err != nil {
		fmt.Fprintf(e.errOut, "exec %s failed\n", e.selfPath)
		return nil
	}
	return []int{pid}
}

func (e *Executor) spawn(argv []string, std stdio) (int, bool) {
	path, err := e.sys.LookPath(argv[0])
	if err != nil {
		fmt.Fprintf(e.errOut, "exec %s failed\n", argv[0])
		return 0, false
	}

	pid, err := e.sys.Spawn(path, argv, [3]*os.File{std.in, std.out, std.err})
	if err != nil {
		fmt.Fprintf(e.errOut, "exec %s failed\n", argv[0])
		return 0, false
	}
	return pid, true
}

// applyRedirects walks a chain of redirect wrappers down to the wrapped
// command, opening targets in source order so the redirect written last
// claims its descriptor slot last and wins. Every target is opened (and
// created or truncated) even when a later one overrides it. The cleanup
// closes the parent's copies; it must run only after the subtree's
// processes have been spawned.
func (e *Executor) applyRedirects(cmd *ast.Command, std stdio) (*ast.Command, stdio, func(), bool) {
	var chain []*ast.RedirectCommand
	for cmd.Type == ast.CommandRedirect {
		chain = append(chain, cmd.Redirect)
		cmd = cmd.Redirect.Cmd
	}

	var opened []*os.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for i := len(chain) - 1; i >= 0; i-- {
		r := chain[i]
		f, err := os.OpenFile(r.File, r.Mode.OpenFlags(), 0644)
		if err != nil {
			fmt.Fprintf(e.errOut, "open %s failed\n", r.File)
			cleanup()
			return nil, std, nil, false
		}
		opened = append(opened, f)
		if r.Fd == 0 {
			std.in = f
		} else {
			std.out = f
		}
	}

	return cmd, std, cleanup, true
}

func (e *Executor) fatal(msg string) {
	fmt.Fprintf(e.errOut, "%s\n", msg)
	os.Exit(1)
}
