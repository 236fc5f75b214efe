package ast

import (
	"os"
	"strings"
)

type CommandType int

const (
	CommandExec CommandType = iota
	CommandRedirect
	CommandPipe
	CommandList
	CommandBack
)

// Command is the polymorphic tree node. Exactly one variant pointer is
// non-nil, selected by Type. Leaves are always CommandExec nodes.
type Command struct {
	Type     CommandType
	Exec     *ExecCommand
	Redirect *RedirectCommand
	Pipe     *PipeCommand
	List     *ListCommand
	Back     *BackCommand
}

// ExecCommand is one program invocation. Argv words are owned strings
// copied out of the input line at parse time.
type ExecCommand struct {
	Argv       []string
	Background bool
}

type RedirectType int

const (
	RedirectInput RedirectType = iota
	RedirectOutput
	RedirectAppend
)

// OpenFlags returns the os.OpenFile flags for the redirection kind.
func (t RedirectType) OpenFlags() int {
	switch t {
	case RedirectInput:
		return os.O_RDONLY
	case RedirectOutput:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case RedirectAppend:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return os.O_RDONLY
	}
}

// RedirectCommand wraps one child with a file retargeting of descriptor
// slot Fd (0 for input, 1 for output and append).
type RedirectCommand struct {
	Cmd  *Command
	File string
	Mode RedirectType
	Fd   int
}

type PipeCommand struct {
	Left  *Command
	Right *Command
}

// ListCommand runs Left to completion, then Right. No short-circuiting.
type ListCommand struct {
	Left  *Command
	Right *Command
}

type BackCommand struct {
	Cmd *Command
}

func NewExec() *Command {
	return &Command{Type: CommandExec, Exec: &ExecCommand{}}
}

func NewRedirect(cmd *Command, file string, mode RedirectType, fd int) *Command {
	return &Command{Type: CommandRedirect, Redirect: &RedirectCommand{
		Cmd:  cmd,
		File: file,
		Mode: mode,
		Fd:   fd,
	}}
}

func NewPipe(left, right *Command) *Command {
	return &Command{Type: CommandPipe, Pipe: &PipeCommand{Left: left, Right: right}}
}

func NewList(left, right *Command) *Command {
	return &Command{Type: CommandList, List: &ListCommand{Left: left, Right: right}}
}

func NewBack(cmd *Command) *Command {
	return &Command{Type: CommandBack, Back: &BackCommand{Cmd: cmd}}
}

// MarkBackground flags the wrapped subtree of a Back node. Propagation is
// one level deep: a direct Exec child is flagged, and for a Pipe child the
// Exec nodes on its two sides are flagged. Deeper pipe nesting under a
// single '&' is deliberately not walked; see the package tests.
func (c *Command) MarkBackground() {
	if c == nil {
		return
	}
	switch c.Type {
	case CommandExec:
		c.Exec.Background = true
	case CommandPipe:
		if l := c.Pipe.Left; l != nil && l.Type == CommandExec {
			l.Exec.Background = true
		}
		if r := c.Pipe.Right; r != nil && r.Type == CommandExec {
			r.Exec.Background = true
		}
	}
}

// String renders the node back to shell syntax that reparses to an
// equivalent tree. The engine feeds this to a re-exec'd subshell for
// compound pipe sides, so the rendering must stay exact, not pretty.
func (c *Command) String() string {
	if c == nil {
		return ""
	}
	switch c.Type {
	case CommandExec:
		return strings.Join(c.Exec.Argv, " ")
	case CommandRedirect:
		r := c.Redirect
		var op string
		switch r.Mode {
		case RedirectInput:
			op = "<"
		case RedirectOutput:
			op = ">"
		case RedirectAppend:
			op = ">>"
		}
		child := r.Cmd.String()
		// A redirected group has to keep its parentheses or the
		// redirection would rebind to the group's last command.
		if r.Cmd.Type != CommandExec && r.Cmd.Type != CommandRedirect {
			child = "(" + child + ")"
		}
		return child + " " + op + " " + r.File
	case CommandPipe:
		return "(" + c.Pipe.Left.String() + ") | (" + c.Pipe.Right.String() + ")"
	case CommandList:
		return "(" + c.List.Left.String() + ") ; (" + c.List.Right.String() + ")"
	case CommandBack:
		return "(" + c.Back.Cmd.String() + ") &"
	default:
		return ""
	}
}
