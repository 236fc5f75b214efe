package readline

import (
	"bufio"
	"fmt"
	"io"
)

// Manager reads raw input lines. No editing, no history; the prompt is
// written to promptOut (stderr for an interactive session) before each
// read.
type Manager struct {
	scanner   *bufio.Scanner
	promptOut io.Writer
}

func New(in io.Reader, promptOut io.Writer) *Manager {
	return &Manager{
		scanner:   bufio.NewScanner(in),
		promptOut: promptOut,
	}
}

func (m *Manager) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(m.promptOut, prompt)
	}

	if !m.scanner.Scan() {
		if err := m.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return m.scanner.Text(), nil
}
