package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"psh/internal/builtin"
	"psh/internal/config"
	"psh/internal/executor"
	"psh/internal/jobs"
	"psh/internal/parser"
	"psh/internal/prompt"
	"psh/internal/readline"
)

// errFatalParse marks a line whose diagnostic has already been printed.
// The session unwinds with status 1; nothing after the bad line runs.
var errFatalParse = errors.New("fatal parse error")

// Shell owns one session: the parser, the engine, and the background-job
// registry, plus the line-reading front end.
type Shell struct {
	config   *config.Config
	parser   *parser.Parser
	builtins *builtin.Manager
	jobs     *jobs.Registry
	executor *executor.Executor
	prompt   *prompt.Manager
	readline *readline.Manager

	stdin  io.Reader
	errOut io.Writer

	interactive bool
	exitCode    int
}

func New(cfg *config.Config) *Shell {
	s := &Shell{
		config:   cfg,
		parser:   parser.New(),
		builtins: builtin.New(),
		jobs:     jobs.New(cfg.JobCapacity),
		prompt:   prompt.New(cfg.Prompt),
		readline: readline.New(os.Stdin, os.Stderr),
		stdin:    os.Stdin,
		errOut:   os.Stderr,
	}

	s.executor = executor.New(s.builtins, s.jobs)
	s.registerBuiltins()

	s.interactive = cfg.Interactive
	if cfg.Command == "" && cfg.ScriptFile == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		s.interactive = true
	}

	return s
}

// Run executes the session and returns its exit status. The caller turns
// the status into the process exit code. The error is reserved for
// operational failures (unreadable script, broken input stream);
// command-line diagnostics are printed as they happen.
func (s *Shell) Run() (int, error) {
	if s.config.Command != "" {
		if err := s.executeLine(s.config.Command); err != nil {
			return 1, nil
		}
		return s.exitCode, nil
	}

	if s.config.ScriptFile != "" {
		return s.executeScript(s.config.ScriptFile)
	}

	if s.interactive {
		return s.interactiveLoop()
	}

	return s.readFromStdin()
}

func (s *Shell) interactiveLoop() (int, error) {
	for {
		line, err := s.readline.ReadLine(s.prompt.Generate())
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(s.errOut)
				return s.exitCode, nil
			}
			return 1, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.executeLine(line); err != nil {
			return 1, nil
		}

		// Flush completion notices for finished background jobs before
		// the next prompt, without blocking on the ones still running.
		s.executor.ReapZombies()
	}
}

// executeScript runs filename line by line. Blank lines and lines whose
// first word starts with '#' are skipped, so scripts can carry comments.
func (s *Shell) executeScript(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 1, fmt.Errorf("cannot open %s", filename)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.executeLine(line); err != nil {
			return 1, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 1, err
	}

	return s.exitCode, nil
}

func (s *Shell) readFromStdin() (int, error) {
	scanner := bufio.NewScanner(s.stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := s.executeLine(line); err != nil {
			return 1, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 1, err
	}

	return s.exitCode, nil
}

// executeLine parses and runs one raw input line. A parse error is fatal
// to the whole session, not just the line: the diagnostic is printed
// here and the returned sentinel makes every mode stop with status 1.
func (s *Shell) executeLine(line string) error {
	cmd, err := s.parser.Parse(line)
	if err != nil {
		fmt.Fprintf(s.errOut, "%v\n", err)
		return errFatalParse
	}

	s.exitCode = s.executor.Execute(cmd)

	if s.config.Debug {
		fmt.Fprintf(s.errOut, "[DEBUG] exit status: %d\n", s.exitCode)
	}
	return nil
}
