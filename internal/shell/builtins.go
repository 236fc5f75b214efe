package shell

import (
	"fmt"
	"io"
	"os"
)

// Only cd and jobs run inside the shell process. cd has to, because a
// child's working directory dies with it; jobs reads session state.
func (s *Shell) registerBuiltins() {
	s.builtins.Register("cd", s.builtinCD)
	s.builtins.Register("jobs", s.builtinJobs)
}

func (s *Shell) builtinCD(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintf(stderr, "cannot cd %s\n", "")
		return 1
	}
	if err := os.Chdir(args[0]); err != nil {
		fmt.Fprintf(stderr, "cannot cd %s\n", args[0])
		return 1
	}
	return 0
}

func (s *Shell) builtinJobs(args []string, stdout, stderr io.Writer) int {
	s.jobs.Print(stdout)
	return 0
}
